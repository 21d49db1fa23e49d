package main

import (
	"time"

	"quizroom/config"
	"quizroom/handlers"
	"quizroom/middleware"
	"quizroom/models"
	"quizroom/routes"
	"quizroom/services"
	"quizroom/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const creatorTokenTTL = 24 * time.Hour

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
		&models.Participant{},
		&models.Score{},
		&models.Answer{},
	)
	if err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient := config.InitRedis(cfg)

	quizStore := store.NewGormStore(db)
	tokens := services.NewTokenService(cfg.JWTSecret, creatorTokenTTL)
	live := services.NewLiveState(redisClient, logger)

	hub := services.NewHub(live, logger)
	go hub.Run()

	quizService := services.NewQuizService(quizStore, tokens, logger)
	playService := services.NewPlayService(quizStore, tokens, live, hub, logger)

	quizHandler := handlers.NewQuizHandler(quizService)
	playHandler := handlers.NewPlayHandler(playService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	routes.SetupRoutes(router, quizHandler, playHandler, quizService, hub, logger)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
