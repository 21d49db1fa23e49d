package handlers

import (
	"net/http"

	"quizroom/services"

	"github.com/gin-gonic/gin"
)

type PlayHandler struct {
	playService *services.PlayService
}

func NewPlayHandler(playService *services.PlayService) *PlayHandler {
	return &PlayHandler{playService: playService}
}

func (h *PlayHandler) Join(c *gin.Context) {
	var req services.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.playService.Join(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type startRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *PlayHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.playService.Start(c.Request.Context(), req.Code, bearerToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *PlayHandler) SubmitAnswer(c *gin.Context) {
	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.playService.SubmitAnswer(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) SubmitScore(c *gin.Context) {
	var req services.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.playService.SubmitScore(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) Leaderboard(c *gin.Context) {
	code := c.Param("code")

	entries, err := h.playService.Leaderboard(c.Request.Context(), code)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
