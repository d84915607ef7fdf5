package main

import (
	"log"
	"strings"
	"time"

	"payment-service/config"
	"payment-service/controllers"
	"payment-service/database"
	"payment-service/kafka"
	"payment-service/models"
	"payment-service/providers"
	"payment-service/repository"
	"payment-service/routes"
	"payment-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[PaymentService] Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("[PaymentService] Failed to initialize logger:", err)
	}
	defer logger.Sync()

	db, err := database.ConnectPostgres(cfg, logger, &models.Payment{})
	if err != nil {
		logger.Fatal("Failed to connect to DB", zap.Error(err))
	}

	paymentRepo := repository.NewGormPaymentRepo(db)
	providerRegistry := providers.NewRegistry(cfg.WebhookSecrets, logger)

	producer := kafka.NewPaymentEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, logger)
	defer producer.Close()

	guard := services.NewIdempotencyGuard(10 * time.Minute)
	processor := services.NewWebhookProcessor(paymentRepo, guard, producer, logger)

	r := gin.New()
	r.Use(gin.Recovery())

	wc := &controllers.WebhookController{
		Providers: providerRegistry,
		Processor: processor,
		Logger:    logger,
	}
	pc := &controllers.PaymentController{
		Repo:   paymentRepo,
		Logger: logger,
	}
	routes.RegisterRoutes(r, wc, pc, cfg.WebhookTimeout)

	logger.Info("Payment webhook service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
