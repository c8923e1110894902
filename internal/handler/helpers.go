package handler

import (
	"net/http"

	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/edupress/lms-backend/pkg/response"
	"github.com/edupress/lms-backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func formatValidationError(err error) string {
	return validator.FormatValidationError(err)
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return false
	}
	return true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrInvalidInput, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
