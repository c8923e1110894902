package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizQuestion struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"module_id"`
	Question  string       `gorm:"type:text;not null" json:"question"`
	Points    int          `gorm:"not null;default:1" json:"points"`
	Options   []QuizOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type QuizOption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	OptionText string    `gorm:"type:text;not null" json:"option_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"-"`
}

func (o *QuizOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// QuizAttempt rows are append-only; a resubmission adds new rows rather than
// updating old ones.
type QuizAttempt struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionID       uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	SelectedOptionID uuid.UUID `gorm:"type:uuid;not null" json:"selected_option_id"`
	IsCorrect        bool      `gorm:"not null" json:"is_correct"`
	AttemptedAt      time.Time `gorm:"autoCreateTime" json:"attempted_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
