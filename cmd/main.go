package main

import (
	"context"
	"os"

	"github.com/KibitoU7xC/recover.ai-app/config"
	"github.com/KibitoU7xC/recover.ai-app/controllers"
	"github.com/KibitoU7xC/recover.ai-app/routes"
	"github.com/KibitoU7xC/recover.ai-app/services"
	"github.com/KibitoU7xC/recover.ai-app/utils"
)

func main() {
	config.LoadEnv()
	logger := utils.NewLogger(os.Getenv("APP_ENV"))

	config.InitDB()
	utils.InitSES()

	ctx := context.Background()

	userStore := services.NewGormUserStore(config.DB)
	reminderStore := services.NewGormReminderStore(config.DB)
	messageStore := services.NewGormMessageStore(config.DB)

	uploads, err := utils.NewS3Store(ctx)
	if err != nil {
		logger.WithError(err).Fatal("S3 init failed")
	}

	sms, err := services.NewSNSSender(ctx)
	if err != nil {
		logger.WithError(err).Fatal("SNS init failed")
	}

	nutrition := services.NewNutritionService(userStore)
	vision := services.NewGeminiClient(os.Getenv("GEMINI_API_KEY"))
	analysis := services.NewAnalysisService(nutrition, vision, uploads, logger)
	reminders := services.NewReminderService(reminderStore, userStore)
	fitness := services.NewFitnessService(logger)
	hub := services.NewChatHub(messageStore, logger)

	delivery := services.NewDeliveryService(
		reminderStore,
		userStore,
		sms,
		logger,
		os.Getenv("DEFAULT_NOTIFY_PHONE"),
		os.Getenv("SMS_COUNTRY_CODE"),
	)
	go delivery.Run(ctx)

	r := routes.SetupRouter(routes.Controllers{
		Analyze:   controllers.NewAnalyzeController(analysis, logger),
		Reminders: controllers.NewReminderController(reminders),
		Dashboard: controllers.NewDashboardController(userStore, fitness, logger),
		Chat:      controllers.NewChatController(hub, userStore),
		User:      controllers.NewUserController(userStore),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}
