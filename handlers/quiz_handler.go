package handlers

import (
	"net/http"

	"quizroom/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.CreateQuiz(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	code := c.Param("code")
	callerID := c.Query("user_id")

	view, err := h.quizService.GetPublic(c.Request.Context(), code, callerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *QuizHandler) GetQuizAdmin(c *gin.Context) {
	code := c.Param("code")

	quiz, err := h.quizService.GetAdmin(c.Request.Context(), code, bearerToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	summaries, err := h.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
