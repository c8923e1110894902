package handler

import (
	"net/http"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/middleware"
	"github.com/edupress/lms-backend/internal/service"
	"github.com/edupress/lms-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService       service.UserService
	enrollmentService service.EnrollmentService
}

func NewUserHandler(userService service.UserService, enrollmentService service.EnrollmentService) *UserHandler {
	return &UserHandler{
		userService:       userService,
		enrollmentService: enrollmentService,
	}
}

func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userService.GetAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input dto.UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.UpdateSelf(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AdminUpdate(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input dto.AdminUpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.AdminUpdate(c.Request.Context(), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) MyProgress(c *gin.Context) {
	user := middleware.CurrentUser(c)

	progress, err := h.userService.Progress(c.Request.Context(), user.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *UserHandler) MyCourses(c *gin.Context) {
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
