package repository

import (
	"context"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository interface {
	CreateQuestion(ctx context.Context, question *model.QuizQuestion) error
	FindQuestionsByModule(ctx context.Context, moduleID uuid.UUID) ([]*model.QuizQuestion, error)
	// FindOption resolves an option scoped to its question; an option id that
	// belongs to a different question is a miss.
	FindOption(ctx context.Context, optionID, questionID uuid.UUID) (*model.QuizOption, error)
	FindAttempts(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID) ([]*model.QuizAttempt, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) CreateQuestion(ctx context.Context, question *model.QuizQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *quizRepository) FindQuestionsByModule(ctx context.Context, moduleID uuid.UUID) ([]*model.QuizQuestion, error) {
	var questions []*model.QuizQuestion
	if err := r.db.WithContext(ctx).
		Preload("Options").
		Where("module_id = ?", moduleID).
		Order("created_at").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *quizRepository) FindOption(ctx context.Context, optionID, questionID uuid.UUID) (*model.QuizOption, error) {
	var option model.QuizOption
	if err := r.db.WithContext(ctx).
		Where("id = ? AND question_id = ?", optionID, questionID).
		First(&option).Error; err != nil {
		return nil, err
	}

	return &option, nil
}

func (r *quizRepository) FindAttempts(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID) ([]*model.QuizAttempt, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}

	var attempts []*model.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Order("attempted_at").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}
