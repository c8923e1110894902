package dto

import "io"

type CreateCourseInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published"`
	// TeacherID is honored only when the caller is an admin.
	TeacherID string `json:"teacher_id" binding:"omitempty,uuid"`
}

type UpdateCourseInput struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	IsPublished *bool   `json:"is_published"`
}

type CourseFilter struct {
	Search    string `form:"search"`
	Published *bool  `form:"published"`
}

type ThumbnailFile struct {
	Reader   io.Reader
	FileName string
}

type CreateModuleInput struct {
	Title        string  `json:"title" binding:"required,max=200"`
	Description  string  `json:"description"`
	Content      string  `json:"content"`
	ContentType  string  `json:"content_type" binding:"omitempty,oneof=text video quiz"`
	Position     int     `json:"position" binding:"min=0"`
	IsPublished  bool    `json:"is_published"`
	PassingScore int     `json:"passing_score" binding:"min=0,max=100"`
}

type UpdateModuleInput struct {
	Title        *string `json:"title" binding:"omitempty,max=200"`
	Description  *string `json:"description"`
	Content      *string `json:"content"`
	ContentType  *string `json:"content_type" binding:"omitempty,oneof=text video quiz"`
	Position     *int    `json:"position" binding:"omitempty,min=0"`
	IsPublished  *bool   `json:"is_published"`
	PassingScore *int    `json:"passing_score" binding:"omitempty,min=0,max=100"`
}
