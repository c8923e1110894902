package handler

import (
	"net/http"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/middleware"
	"github.com/edupress/lms-backend/internal/service"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/edupress/lms-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService     service.CourseService
	moduleService     service.ModuleService
	enrollmentService service.EnrollmentService
}

func NewCourseHandler(courseService service.CourseService, moduleService service.ModuleService, enrollmentService service.EnrollmentService) *CourseHandler {
	return &CourseHandler{
		courseService:     courseService,
		moduleService:     moduleService,
		enrollmentService: enrollmentService,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	var filter dto.CourseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	courses, err := h.courseService.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var input dto.CreateCourseInput
	if !bindJSON(c, &input) {
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input dto.UpdateCourseInput
	if !bindJSON(c, &input) {
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) UploadThumbnail(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrInvalidInput, "thumbnail file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer file.Close()

	course, err := h.courseService.UploadThumbnail(c.Request.Context(), middleware.CurrentUser(c), id, dto.ThumbnailFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) ListModules(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	modules, err := h.moduleService.ListByCourse(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, modules)
}

func (h *CourseHandler) CreateModule(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input dto.CreateModuleInput
	if !bindJSON(c, &input) {
		return
	}

	module, err := h.moduleService.Create(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, module)
}

func (h *CourseHandler) ListEnrollments(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.CourseEnrollments(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}
