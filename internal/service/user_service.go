package service

import (
	"context"
	"errors"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/edupress/lms-backend/pkg/password"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetAll(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.User, error)
	UpdateSelf(ctx context.Context, user *model.User, input dto.UpdateProfileInput) (*model.User, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, input dto.AdminUpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Progress(ctx context.Context, userID uuid.UUID) (*dto.UserProgressResponse, error)
}

type userService struct {
	repo        repository.UserRepository
	enrollments repository.EnrollmentRepository
}

func NewUserService(repo repository.UserRepository, enrollments repository.EnrollmentRepository) UserService {
	return &userService{repo: repo, enrollments: enrollments}
}

func (s *userService) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.User, error) {
	if caller.ID != id && caller.Role != model.RoleAdmin {
		return nil, apperror.Wrap(apperror.ErrForbidden, "not enough privileges")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "user not found")
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateSelf(ctx context.Context, user *model.User, input dto.UpdateProfileInput) (*model.User, error) {
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Institution != nil {
		user.Institution = input.Institution
	}
	if input.Password != nil {
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) AdminUpdate(ctx context.Context, id uuid.UUID, input dto.AdminUpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "user not found")
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Institution != nil {
		user.Institution = input.Institution
	}
	if input.Password != nil {
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	if input.Role != nil {
		role := model.Role(*input.Role)
		if !role.Valid() {
			return nil, apperror.Wrap(apperror.ErrInvalidInput, "invalid role")
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "user not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *userService) Progress(ctx context.Context, userID uuid.UUID) (*dto.UserProgressResponse, error) {
	enrollments, err := s.enrollments.FindByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	total := len(enrollments)
	completed := 0
	sum := 0
	for _, e := range enrollments {
		if e.Completed {
			completed++
		}
		sum += e.Progress
	}

	avg := 0.0
	if total > 0 {
		avg = float64(sum) / float64(total)
	}

	return &dto.UserProgressResponse{
		TotalCourses:      total,
		CompletedCourses:  completed,
		InProgressCourses: total - completed,
		AverageProgress:   avg,
		Enrollments:       enrollments,
	}, nil
}
