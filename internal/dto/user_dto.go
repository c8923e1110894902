package dto

import "github.com/edupress/lms-backend/internal/model"

type UpdateProfileInput struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
	Institution *string `json:"institution" binding:"omitempty,max=200"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
}

// AdminUpdateUserInput additionally allows role and active-flag changes.
type AdminUpdateUserInput struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
	Institution *string `json:"institution" binding:"omitempty,max=200"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
	Role        *string `json:"role" binding:"omitempty,oneof=student teacher admin"`
	IsActive    *bool   `json:"is_active"`
}

type UserProgressResponse struct {
	TotalCourses      int                 `json:"total_courses"`
	CompletedCourses  int                 `json:"completed_courses"`
	InProgressCourses int                 `json:"in_progress_courses"`
	AverageProgress   float64             `json:"average_progress"`
	Enrollments       []*model.Enrollment `json:"enrollments"`
}
