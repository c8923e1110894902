package handler

import (
	"net/http"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/middleware"
	"github.com/edupress/lms-backend/internal/service"
	"github.com/edupress/lms-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService service.QuizService
}

func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

func (h *QuizHandler) Questions(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	questions, err := h.quizService.Questions(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

func (h *QuizHandler) CreateQuestion(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input dto.CreateQuestionInput
	if !bindJSON(c, &input) {
		return
	}

	question, err := h.quizService.CreateQuestion(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *QuizHandler) Submit(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var submission dto.QuizSubmission
	if !bindJSON(c, &submission) {
		return
	}

	result, err := h.quizService.Submit(c.Request.Context(), middleware.CurrentUser(c), id, submission)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) Results(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	review, err := h.quizService.Results(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}
