package service

import (
	"context"
	"errors"
	"math"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	feedbackPassed = "Congratulations! You passed!"
	feedbackFailed = "Keep trying! You can do better!"
)

type QuizService interface {
	Questions(ctx context.Context, caller *model.User, moduleID uuid.UUID) ([]*model.QuizQuestion, error)
	CreateQuestion(ctx context.Context, caller *model.User, moduleID uuid.UUID, input dto.CreateQuestionInput) (*model.QuizQuestion, error)
	Submit(ctx context.Context, caller *model.User, moduleID uuid.UUID, submission dto.QuizSubmission) (*dto.QuizResult, error)
	Results(ctx context.Context, caller *model.User, moduleID uuid.UUID) (*dto.QuizReview, error)
}

type quizService struct {
	repo         repository.QuizRepository
	modules      repository.ModuleRepository
	courses      repository.CourseRepository
	enrollments  repository.EnrollmentRepository
	passingScore int
}

func NewQuizService(
	repo repository.QuizRepository,
	modules repository.ModuleRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	passingScore int,
) QuizService {
	return &quizService{
		repo:         repo,
		modules:      modules,
		courses:      courses,
		enrollments:  enrollments,
		passingScore: passingScore,
	}
}

// threshold resolves the passing score for a module; a zero column means the
// configured default applies.
func (s *quizService) threshold(module *model.Module) int {
	if module.PassingScore > 0 {
		return module.PassingScore
	}
	return s.passingScore
}

func (s *quizService) loadModule(ctx context.Context, moduleID uuid.UUID) (*model.Module, error) {
	module, err := s.modules.FindByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "module not found")
		}
		return nil, err
	}
	return module, nil
}

// requireEnrollment returns the caller's enrollment for the module's course.
// Admins pass without one (nil enrollment).
func (s *quizService) requireEnrollment(ctx context.Context, caller *model.User, module *model.Module) (*model.Enrollment, error) {
	if caller.Role == model.RoleAdmin {
		return nil, nil
	}

	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, caller.ID, module.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrForbidden, "you are not enrolled in this course")
		}
		return nil, err
	}

	return enrollment, nil
}

func (s *quizService) Questions(ctx context.Context, caller *model.User, moduleID uuid.UUID) ([]*model.QuizQuestion, error) {
	module, err := s.loadModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireEnrollment(ctx, caller, module); err != nil {
		return nil, err
	}

	return s.repo.FindQuestionsByModule(ctx, moduleID)
}

func (s *quizService) CreateQuestion(ctx context.Context, caller *model.User, moduleID uuid.UUID, input dto.CreateQuestionInput) (*model.QuizQuestion, error) {
	module, err := s.loadModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, module.CourseID)
	if err != nil {
		return nil, err
	}
	if !canManage(caller, course) {
		return nil, apperror.Wrap(apperror.ErrForbidden, "not the course owner")
	}

	hasCorrect := false
	options := make([]model.QuizOption, 0, len(input.Options))
	for _, o := range input.Options {
		if o.IsCorrect {
			hasCorrect = true
		}
		options = append(options, model.QuizOption{
			OptionText: o.OptionText,
			IsCorrect:  o.IsCorrect,
		})
	}
	if !hasCorrect {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "question must have at least one correct option")
	}

	points := input.Points
	if points == 0 {
		points = 1
	}

	question := &model.QuizQuestion{
		ModuleID: moduleID,
		Question: input.Question,
		Points:   points,
		Options:  options,
	}

	if err := s.repo.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *quizService) Submit(ctx context.Context, caller *model.User, moduleID uuid.UUID, submission dto.QuizSubmission) (*dto.QuizResult, error) {
	module, err := s.loadModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	// A submission always needs an enrollment row to record progress
	// against, admins included.
	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, caller.ID, module.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrForbidden, "you are not enrolled in this course")
		}
		return nil, err
	}

	questions, err := s.repo.FindQuestionsByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "module has no quiz questions")
	}

	questionIDs := make(map[uuid.UUID]struct{}, len(questions))
	for _, q := range questions {
		questionIDs[q.ID] = struct{}{}
	}

	correct := 0
	skipped := 0
	attempts := make([]model.QuizAttempt, 0, len(submission.Answers))

	for _, answer := range submission.Answers {
		if _, ok := questionIDs[answer.QuestionID]; !ok {
			skipped++
			continue
		}

		isCorrect := false
		option, err := s.repo.FindOption(ctx, answer.SelectedOptionID, answer.QuestionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if option != nil {
			isCorrect = option.IsCorrect
		}

		if isCorrect {
			correct++
		}

		attempts = append(attempts, model.QuizAttempt{
			UserID:           caller.ID,
			QuestionID:       answer.QuestionID,
			SelectedOptionID: answer.SelectedOptionID,
			IsCorrect:        isCorrect,
		})
	}

	total := len(questions)
	score := int(math.Round(float64(correct) / float64(total) * 100))
	passed := score >= s.threshold(module)

	if _, err := s.enrollments.RecordScore(ctx, enrollment.ID, attempts, score, passed); err != nil {
		return nil, err
	}

	feedback := feedbackFailed
	if passed {
		feedback = feedbackPassed
	}

	return &dto.QuizResult{
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		SkippedAnswers: skipped,
		Passed:         passed,
		Feedback:       feedback,
	}, nil
}

func (s *quizService) Results(ctx context.Context, caller *model.User, moduleID uuid.UUID) (*dto.QuizReview, error) {
	module, err := s.loadModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireEnrollment(ctx, caller, module); err != nil {
		return nil, err
	}

	questions, err := s.repo.FindQuestionsByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "module has no quiz questions")
	}

	ids := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	allAttempts, err := s.repo.FindAttempts(ctx, caller.ID, ids)
	if err != nil {
		return nil, err
	}

	// Latest attempt per question wins; FindAttempts orders by attempted_at.
	latest := make(map[uuid.UUID]*model.QuizAttempt, len(questions))
	for _, a := range allAttempts {
		latest[a.QuestionID] = a
	}

	correct := 0
	reviews := make([]dto.QuestionReview, 0, len(questions))
	for _, q := range questions {
		review := dto.QuestionReview{
			QuestionID: q.ID,
			Question:   q.Question,
		}
		for i := range q.Options {
			if q.Options[i].IsCorrect {
				id := q.Options[i].ID
				review.CorrectOptionID = &id
				break
			}
		}
		if a, ok := latest[q.ID]; ok {
			id := a.SelectedOptionID
			review.SelectedOptionID = &id
			review.IsCorrect = a.IsCorrect
			if a.IsCorrect {
				correct++
			}
		}
		reviews = append(reviews, review)
	}

	total := len(questions)
	score := int(math.Round(float64(correct) / float64(total) * 100))

	return &dto.QuizReview{
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Passed:         score >= s.threshold(module),
		AttemptCount:   len(allAttempts) / total,
		Questions:      reviews,
	}, nil
}
