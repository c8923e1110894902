package handler

import (
	"net/http"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/middleware"
	"github.com/edupress/lms-backend/internal/service"
	"github.com/edupress/lms-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type ModuleHandler struct {
	moduleService service.ModuleService
}

func NewModuleHandler(moduleService service.ModuleService) *ModuleHandler {
	return &ModuleHandler{
		moduleService: moduleService,
	}
}

func (h *ModuleHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	module, err := h.moduleService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, module)
}

func (h *ModuleHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input dto.UpdateModuleInput
	if !bindJSON(c, &input) {
		return
	}

	module, err := h.moduleService.Update(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, module)
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.moduleService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ModuleHandler) Complete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.moduleService.Complete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "module marked as completed",
		"progress": enrollment.Progress,
	})
}
