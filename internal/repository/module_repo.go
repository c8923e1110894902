package repository

import (
	"context"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModuleRepository interface {
	Create(ctx context.Context, module *model.Module) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Module, error)
	FindByCourse(ctx context.Context, courseID uuid.UUID, publishedOnly bool) ([]*model.Module, error)
	CountPublished(ctx context.Context, courseID uuid.UUID) (int64, error)
	Update(ctx context.Context, module *model.Module) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	var module model.Module
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&module).Error; err != nil {
		return nil, err
	}

	return &module, nil
}

func (r *moduleRepository) FindByCourse(ctx context.Context, courseID uuid.UUID, publishedOnly bool) ([]*model.Module, error) {
	tx := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if publishedOnly {
		tx = tx.Where("is_published = ?", true)
	}

	var modules []*model.Module
	if err := tx.Order("position").Find(&modules).Error; err != nil {
		return nil, err
	}

	return modules, nil
}

func (r *moduleRepository) CountPublished(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Module{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *moduleRepository) Update(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Save(module).Error
}

func (r *moduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Module{}, "id = ?", id).Error
}
