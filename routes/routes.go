package routes

import (
	"net/http"

	"quizroom/handlers"
	"quizroom/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	playHandler *handlers.PlayHandler,
	quizService *services.QuizService,
	hub *services.Hub,
	logger *zap.Logger,
) {
	api := router.Group("/api")
	{
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.POST("/join", playHandler.Join)
			quizzes.POST("/start", playHandler.Start)
			quizzes.POST("/submit-answer", playHandler.SubmitAnswer)
			quizzes.POST("/submit-score", playHandler.SubmitScore)
			quizzes.GET("/:code", quizHandler.GetQuiz)
			quizzes.GET("/:code/admin", quizHandler.GetQuizAdmin)
			quizzes.GET("/:code/leaderboard", playHandler.Leaderboard)
		}
	}

	// WebSocket endpoint for live quiz events. Clients subscribe per join
	// code and receive participant, start and score events plus an initial
	// state snapshot.
	router.GET("/ws/:code", func(c *gin.Context) {
		code := c.Param("code")
		if _, err := quizService.GetPublic(c.Request.Context(), code, ""); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", zap.String("code", code), zap.Error(err))
			return
		}
		hub.RegisterClient(conn, code)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
