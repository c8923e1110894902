package dto

import "github.com/google/uuid"

type CreateQuestionInput struct {
	Question string              `json:"question" binding:"required"`
	Points   int                 `json:"points" binding:"omitempty,min=1"`
	Options  []CreateOptionInput `json:"options" binding:"required,min=2,dive"`
}

type CreateOptionInput struct {
	OptionText string `json:"option_text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuizAnswer struct {
	QuestionID       uuid.UUID `json:"question_id" binding:"required"`
	SelectedOptionID uuid.UUID `json:"selected_option_id" binding:"required"`
}

type QuizSubmission struct {
	Answers []QuizAnswer `json:"answers" binding:"required,dive"`
}

type QuizResult struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	SkippedAnswers int    `json:"skipped_answers"`
	Passed         bool   `json:"passed"`
	Feedback       string `json:"feedback"`
}

type QuestionReview struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	Question         string     `json:"question"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id,omitempty"`
	CorrectOptionID  *uuid.UUID `json:"correct_option_id,omitempty"`
	IsCorrect        bool       `json:"is_correct"`
}

type QuizReview struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	Passed         bool             `json:"passed"`
	AttemptCount   int              `json:"attempt_count"`
	Questions      []QuestionReview `json:"questions"`
}
