package handlers

import (
	"net/http"

	"hemicycle/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quiz *services.QuizService
}

func NewQuizHandler(quiz *services.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

func (h *QuizHandler) Questions(c *gin.Context) {
	questions, err := h.quiz.Questions(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": questions})
}

func (h *QuizHandler) Start(c *gin.Context) {
	session, err := h.quiz.StartSession(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *QuizHandler) Answer(c *gin.Context) {
	var in services.AnswerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	answer, err := h.quiz.SubmitAnswer(c.Request.Context(), c.Param("token"), in)
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, answer)
}

func (h *QuizHandler) Complete(c *gin.Context) {
	res, err := h.quiz.Complete(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, res)
}

func (h *QuizHandler) Results(c *gin.Context) {
	res, err := h.quiz.Results(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	RespondOK(c, res)
}
