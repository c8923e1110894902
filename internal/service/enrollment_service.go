package service

import (
	"context"
	"errors"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, caller *model.User, courseID uuid.UUID) (*model.Enrollment, error)
	MyEnrollments(ctx context.Context, caller *model.User, completed *bool) ([]*model.Enrollment, error)
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Enrollment, error)
	Unenroll(ctx context.Context, caller *model.User, id uuid.UUID) error
	CourseEnrollments(ctx context.Context, caller *model.User, courseID uuid.UUID) ([]*model.Enrollment, error)
}

type enrollmentService struct {
	repo    repository.EnrollmentRepository
	courses repository.CourseRepository
}

func NewEnrollmentService(repo repository.EnrollmentRepository, courses repository.CourseRepository) EnrollmentService {
	return &enrollmentService{repo: repo, courses: courses}
}

func (s *enrollmentService) Enroll(ctx context.Context, caller *model.User, courseID uuid.UUID) (*model.Enrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "course not found or not published")
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, apperror.Wrap(apperror.ErrNotFound, "course not found or not published")
	}

	if _, err := s.repo.FindByUserAndCourse(ctx, caller.ID, courseID); err == nil {
		return nil, apperror.Wrap(apperror.ErrConflict, "already enrolled in this course")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:   caller.ID,
		CourseID: courseID,
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		// The unique (user, course) index catches concurrent duplicates the
		// read above raced with.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.ErrConflict, "already enrolled in this course")
		}
		return nil, err
	}

	enrollment.Course = course
	return enrollment, nil
}

func (s *enrollmentService) MyEnrollments(ctx context.Context, caller *model.User, completed *bool) ([]*model.Enrollment, error) {
	return s.repo.FindByUser(ctx, caller.ID, completed)
}

func (s *enrollmentService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "enrollment not found")
		}
		return nil, err
	}

	if enrollment.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return nil, apperror.Wrap(apperror.ErrForbidden, "not your enrollment")
	}

	return enrollment, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, caller *model.User, id uuid.UUID) error {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "enrollment not found")
		}
		return err
	}

	if enrollment.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return apperror.Wrap(apperror.ErrForbidden, "not your enrollment")
	}

	return s.repo.Delete(ctx, id)
}

func (s *enrollmentService) CourseEnrollments(ctx context.Context, caller *model.User, courseID uuid.UUID) ([]*model.Enrollment, error) {
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

	return s.repo.FindByCourse(ctx, courseID)
}
