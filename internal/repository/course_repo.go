package repository

import (
	"context"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseQuery narrows FindAll. Nil fields are ignored.
type CourseQuery struct {
	Published *bool
	TeacherID *uuid.UUID
	// VisibleToTeacher matches courses that are published or owned by the
	// given teacher, in one disjunction.
	VisibleToTeacher *uuid.UUID
	Search           string
	IDs              []uuid.UUID
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindAll(ctx context.Context, q CourseQuery) ([]*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("id = ?", id).
		First(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseRepository) FindAll(ctx context.Context, q CourseQuery) ([]*model.Course, error) {
	tx := r.db.WithContext(ctx).Preload("Teacher")

	if q.Published != nil {
		tx = tx.Where("is_published = ?", *q.Published)
	}
	if q.TeacherID != nil {
		tx = tx.Where("teacher_id = ?", *q.TeacherID)
	}
	if q.VisibleToTeacher != nil {
		tx = tx.Where("is_published = ? OR teacher_id = ?", true, *q.VisibleToTeacher)
	}
	if len(q.IDs) > 0 {
		tx = tx.Where("id IN ?", q.IDs)
	}
	if q.Search != "" {
		tx = tx.Where("title ILIKE ?", "%"+q.Search+"%")
	}

	var courses []*model.Course
	if err := tx.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, "id = ?", id).Error
}
