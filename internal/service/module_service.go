package service

import (
	"context"
	"errors"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModuleService interface {
	ListByCourse(ctx context.Context, caller *model.User, courseID uuid.UUID) ([]*model.Module, error)
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Module, error)
	Create(ctx context.Context, caller *model.User, courseID uuid.UUID, input dto.CreateModuleInput) (*model.Module, error)
	Update(ctx context.Context, caller *model.User, id uuid.UUID, input dto.UpdateModuleInput) (*model.Module, error)
	Delete(ctx context.Context, caller *model.User, id uuid.UUID) error
	Complete(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Enrollment, error)
}

type moduleService struct {
	repo        repository.ModuleRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
}

func NewModuleService(repo repository.ModuleRepository, courses repository.CourseRepository, enrollments repository.EnrollmentRepository) ModuleService {
	return &moduleService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
	}
}

// courseAccess loads the course and classifies the caller's relationship to
// it: managers (owner or admin) see everything, enrolled students see
// published content only.
func (s *moduleService) courseAccess(ctx context.Context, caller *model.User, courseID uuid.UUID) (manager bool, err error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperror.Wrap(apperror.ErrNotFound, "course not found")
		}
		return false, err
	}

	if canManage(caller, course) {
		return true, nil
	}

	if _, err := s.enrollments.FindByUserAndCourse(ctx, caller.ID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperror.Wrap(apperror.ErrForbidden, "you are not enrolled in this course")
		}
		return false, err
	}

	return false, nil
}

func (s *moduleService) ListByCourse(ctx context.Context, caller *model.User, courseID uuid.UUID) ([]*model.Module, error) {
	manager, err := s.courseAccess(ctx, caller, courseID)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByCourse(ctx, courseID, !manager)
}

func (s *moduleService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Module, error) {
	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "module not found")
		}
		return nil, err
	}

	manager, err := s.courseAccess(ctx, caller, module.CourseID)
	if err != nil {
		return nil, err
	}

	if !module.IsPublished && !manager {
		return nil, apperror.Wrap(apperror.ErrNotFound, "module not found")
	}

	return module, nil
}

func (s *moduleService) Create(ctx context.Context, caller *model.User, courseID uuid.UUID, input dto.CreateModuleInput) (*model.Module, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "course not found")
		}
		return nil, err
	}

	if !canManage(caller, course) {
		return nil, apperror.Wrap(apperror.ErrForbidden, "not the course owner")
	}

	contentType := model.ContentText
	if input.ContentType != "" {
		contentType = model.ContentType(input.ContentType)
	}

	module := &model.Module{
		CourseID:     courseID,
		Title:        input.Title,
		Description:  input.Description,
		Content:      input.Content,
		ContentType:  contentType,
		Position:     input.Position,
		IsPublished:  input.IsPublished,
		PassingScore: input.PassingScore,
	}

	if err := s.repo.Create(ctx, module); err != nil {
		return nil, err
	}

	return module, nil
}

func (s *moduleService) Update(ctx context.Context, caller *model.User, id uuid.UUID, input dto.UpdateModuleInput) (*model.Module, error) {
	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "module not found")
		}
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, module.CourseID)
	if err != nil {
		return nil, err
	}
	if !canManage(caller, course) {
		return nil, apperror.Wrap(apperror.ErrForbidden, "not the course owner")
	}

	if input.Title != nil {
		module.Title = *input.Title
	}
	if input.Description != nil {
		module.Description = *input.Description
	}
	if input.Content != nil {
		module.Content = *input.Content
	}
	if input.ContentType != nil {
		module.ContentType = model.ContentType(*input.ContentType)
	}
	if input.Position != nil {
		module.Position = *input.Position
	}
	if input.IsPublished != nil {
		module.IsPublished = *input.IsPublished
	}
	if input.PassingScore != nil {
		module.PassingScore = *input.PassingScore
	}

	if err := s.repo.Update(ctx, module); err != nil {
		return nil, err
	}

	return module, nil
}

func (s *moduleService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "module not found")
		}
		return err
	}

	course, err := s.courses.FindByID(ctx, module.CourseID)
	if err != nil {
		return err
	}
	if !canManage(caller, course) {
		return apperror.Wrap(apperror.ErrForbidden, "not the course owner")
	}

	return s.repo.Delete(ctx, id)
}

func (s *moduleService) Complete(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Enrollment, error) {
	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "module not found")
		}
		return nil, err
	}

	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, caller.ID, module.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrForbidden, "you are not enrolled in this course")
		}
		return nil, err
	}

	total, err := s.repo.CountPublished(ctx, module.CourseID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return enrollment, nil
	}

	return s.enrollments.AdvanceProgress(ctx, enrollment.ID, 100/int(total))
}
