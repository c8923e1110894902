package repository

import (
	"context"
	"time"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error)
	FindByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]*model.Enrollment, error)
	FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Enrollment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// RecordScore appends the attempts and applies the score to the
	// enrollment in one transaction. The enrollment row is locked for the
	// duration so concurrent submissions cannot lose an update. Progress
	// never decreases; completion is stamped at most once.
	RecordScore(ctx context.Context, enrollmentID uuid.UUID, attempts []model.QuizAttempt, score int, passed bool) (*model.Enrollment, error)

	// AdvanceProgress bumps progress by delta (capped at 100) under the same
	// row lock, stamping completion when 100 is reached.
	AdvanceProgress(ctx context.Context, enrollmentID uuid.UUID, delta int) (*model.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("id = ?", id).
		First(&enrollment).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) FindByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]*model.Enrollment, error) {
	tx := r.db.WithContext(ctx).Preload("Course").Where("user_id = ?", userID)
	if completed != nil {
		tx = tx.Where("completed = ?", *completed)
	}

	var enrollments []*model.Enrollment
	if err := tx.Order("enrolled_at").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrolled_at").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Enrollment{}, "id = ?", id).Error
}

func (r *enrollmentRepository) RecordScore(ctx context.Context, enrollmentID uuid.UUID, attempts []model.QuizAttempt, score int, passed bool) (*model.Enrollment, error) {
	var enrollment model.Enrollment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", enrollmentID).
			First(&enrollment).Error; err != nil {
			return err
		}

		if len(attempts) > 0 {
			if err := tx.Create(&attempts).Error; err != nil {
				return err
			}
		}

		if score > enrollment.Progress {
			enrollment.Progress = score
		}
		if passed && !enrollment.Completed {
			now := time.Now()
			enrollment.Completed = true
			enrollment.CompletedAt = &now
		}

		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) AdvanceProgress(ctx context.Context, enrollmentID uuid.UUID, delta int) (*model.Enrollment, error) {
	var enrollment model.Enrollment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", enrollmentID).
			First(&enrollment).Error; err != nil {
			return err
		}

		if enrollment.Progress >= 100 {
			return nil
		}

		enrollment.Progress += delta
		if enrollment.Progress > 100 {
			enrollment.Progress = 100
		}
		if enrollment.Progress >= 100 && !enrollment.Completed {
			now := time.Now()
			enrollment.Completed = true
			enrollment.CompletedAt = &now
		}

		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}
