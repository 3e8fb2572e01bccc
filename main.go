package main

import (
	"context"
	"log"
	"time"

	"github.com/Shakilofficial/nextmart-server/config"
	"github.com/Shakilofficial/nextmart-server/controllers"
	"github.com/Shakilofficial/nextmart-server/database"
	"github.com/Shakilofficial/nextmart-server/gateway"
	"github.com/Shakilofficial/nextmart-server/invoice"
	"github.com/Shakilofficial/nextmart-server/notification"
	"github.com/Shakilofficial/nextmart-server/repository"
	"github.com/Shakilofficial/nextmart-server/routes"
	"github.com/Shakilofficial/nextmart-server/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Server] Failed to load config:", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("[Server] Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	mongoClient, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal("[Server] Failed to connect to MongoDB:", err)
	}
	defer database.Close(ctx, mongoClient)
	db := mongoClient.Database(cfg.MongoDB)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("[Server] Invalid REDIS_URL:", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	mailer, err := notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSenderName)
	if err != nil {
		log.Fatal("[Server] Failed to configure SMTP sender:", err)
	}

	publisher, err := services.NewSNSPublisher(ctx, cfg.PaymentSNSTopicARN)
	if err != nil {
		log.Fatal("[Server] Failed to configure SNS publisher:", err)
	}

	sslClient := gateway.NewClient(cfg.SSLStoreID, cfg.SSLStorePassword, cfg.SSLSandbox, gateway.CallbackURLs{
		Success: cfg.SSLValidationURL,
		Fail:    cfg.SSLFailURL,
		Cancel:  cfg.SSLCancelURL,
		IPN:     cfg.SSLIPNURL,
	})

	svc := services.NewReconciliationService(
		sslClient,
		repository.NewPaymentRepository(db),
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewProductRepository(db),
		database.NewTxnRunner(mongoClient),
		repository.NewNotificationGuard(redisClient, 30*24*time.Hour),
		invoice.NewRenderer(cfg.InvoiceLogoURL),
		mailer,
		publisher,
		logger,
	)

	r := gin.New()
	r.Use(gin.Recovery())

	pc := &controllers.PaymentController{
		Service:    svc,
		Logger:     logger,
		SuccessURL: cfg.PaymentSuccessURL,
		FailURL:    cfg.PaymentFailURL,
	}
	routes.RegisterPaymentRoutes(r, pc)

	logger.Info("Server running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[Server] Server failed:", err)
	}
}
