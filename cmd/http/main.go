package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/delivery/http/controllers"
	"myserv-service/internal/app/delivery/http/middlewares"
	"myserv-service/internal/app/delivery/http/routers"
	"myserv-service/internal/app/drivers/database"
	"myserv-service/internal/app/drivers/logger"
	"myserv-service/internal/app/drivers/mailer"
	"myserv-service/internal/app/drivers/messaging"
	"myserv-service/internal/app/services/core/bookings"
	"myserv-service/internal/app/services/core/notifications"
	"myserv-service/internal/app/services/core/payments"
	"myserv-service/internal/app/services/core/subscriptions"
	"myserv-service/internal/app/services/shared/directory"
	"myserv-service/internal/app/services/shared/locker"
	mailerService "myserv-service/internal/app/services/shared/mailer"
	paymentgateway "myserv-service/internal/app/services/shared/payment_gateway"
	"myserv-service/internal/app/services/shared/pricing"
	redisService "myserv-service/internal/app/services/shared/redis"
	"myserv-service/internal/app/services/shared/retryqueue"
	"myserv-service/internal/app/services/shared/whatsapp"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) {
	runCtx := context.Background()

	// Shared infrastructure
	redisRepository := redisService.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	smtpClient := mailer.NewSMTPClient(bootstrap.DriverConfig)
	emailSender := mailerService.NewMailerService(smtpClient, bootstrap.Logger)
	whatsAppSender := whatsapp.NewWhatsAppService(bootstrap.InternalConfig, bootstrap.Logger)
	pricingService := pricing.NewPricingService(bootstrap.InternalConfig)
	partyDirectory := directory.NewDirectoryService(bootstrap.InternalConfig, bootstrap.Logger)
	gatewayClient := paymentgateway.NewMercadoPagoService(bootstrap.InternalConfig, bootstrap.Logger)

	// Retry queue and its sweep worker
	retryQueue, err := retryqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger, bootstrap.InternalConfig.Retry.MaxQueue)
	if err != nil {
		log.Fatalf("Failed to initialize retry queue: %v", err)
	}
	retryWorker := retryqueue.NewWorker(bootstrap.Logger, bootstrap.InternalConfig, lockerService, retryQueue, emailSender, whatsAppSender)
	bootstrap.RetryWorkerStop = retryWorker.Start(runCtx)

	// Notifications
	notificationDispatcher := notifications.NewNotificationDispatcher(
		emailSender,
		whatsAppSender,
		retryQueue,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Repositories
	dbName := bootstrap.DriverConfig.MongoDB.DbName
	bookingRepository := bookings.NewBookingMongoRepository(bootstrap.MongoDB, dbName)
	paymentRepository := payments.NewPaymentMongoRepository(bootstrap.MongoDB, dbName)
	subscriptionRepository := subscriptions.NewSubscriptionMongoRepository(bootstrap.MongoDB, dbName)

	indexCtx, cancelIndexes := context.WithTimeout(runCtx, 30*time.Second)
	defer cancelIndexes()
	if repo, ok := bookingRepository.(*bookings.BookingMongoRepository); ok {
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			log.Fatalf("Failed to ensure booking indexes: %v", err)
		}
	}
	if repo, ok := paymentRepository.(*payments.PaymentMongoRepository); ok {
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			log.Fatalf("Failed to ensure payment indexes: %v", err)
		}
	}

	// Bookings
	slotAllocator := bookings.NewSlotAllocator(bookingRepository, bootstrap.Logger)
	acceptanceGate := bookings.NewAcceptanceGate(
		bookingRepository,
		subscriptionRepository,
		paymentRepository,
		pricingService,
		bootstrap.Logger,
	)
	bookingUsecase := bookings.NewBookingUsecase(
		bookingRepository,
		slotAllocator,
		acceptanceGate,
		notificationDispatcher,
		partyDirectory,
		bootstrap.Logger,
	)
	bookingController := controllers.NewBookingController(bootstrap.Logger, bookingUsecase)

	expiryWorker := bookings.NewExpiryWorker(bootstrap.Logger, bootstrap.InternalConfig, lockerService, bookingRepository)
	expiryWorker.Start(runCtx)
	bootstrap.ExpiryWorkerStop = expiryWorker.Stop

	// Payments
	paymentUsecase := payments.NewPaymentUsecase(
		paymentRepository,
		subscriptionRepository,
		gatewayClient,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	paymentController := controllers.NewPaymentController(bootstrap.Logger, paymentUsecase)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, paymentUsecase)

	// HTTP
	mw := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, mw, bookingController, paymentController, webhookController)
}
