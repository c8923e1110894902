package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:200;index;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	ThumbnailURL *string   `gorm:"type:text" json:"thumbnail_url,omitempty"`
	IsPublished  bool      `gorm:"not null;default:false" json:"is_published"`
	TeacherID    uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher      *User     `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Modules      []Module  `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
	ContentQuiz  ContentType = "quiz"
)

type Module struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string      `gorm:"size:200;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Content     string      `gorm:"type:text" json:"content"`
	ContentType ContentType `gorm:"size:20;not null;default:'text'" json:"content_type"`
	Position    int         `gorm:"not null;default:0" json:"position"`
	IsPublished bool        `gorm:"not null;default:false" json:"is_published"`
	// PassingScore of 0 means the configured default threshold applies.
	PassingScore int            `gorm:"not null;default:0" json:"passing_score"`
	Questions    []QuizQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
