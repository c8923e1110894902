package dto

type EnrollInput struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

type EnrollmentFilter struct {
	Completed *bool `form:"completed"`
}
