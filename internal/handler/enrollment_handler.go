package handler

import (
	"net/http"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/middleware"
	"github.com/edupress/lms-backend/internal/service"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/edupress/lms-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var input dto.EnrollInput
	if !bindJSON(c, &input) {
		return
	}

	courseID, err := uuid.Parse(input.CourseID)
	if err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrInvalidInput, "invalid course id"))
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), middleware.CurrentUser(c), courseID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) My(c *gin.Context) {
	var filter dto.EnrollmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	enrollments, err := h.enrollmentService.MyEnrollments(c.Request.Context(), middleware.CurrentUser(c), filter.Completed)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.enrollmentService.Unenroll(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
