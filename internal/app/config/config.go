package config

import (
	"myserv-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "myserv"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", "smtp_host"),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", ""),
			Port:        utils.GetEnvInt("SMTP_PORT", 2525),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1"),
			Address:                  utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                 utils.GetEnvString("APP_TIMEZONE", "America/Sao_Paulo"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			BaseUrl:                  utils.GetEnvString("APP_BASE_URL", "http://localhost:8080"),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
		},
		PaymentGateway: AppPaymentGateway{
			BaseUrl:                 utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "https://api.mercadopago.com"),
			AccessToken:             utils.GetEnvString("PAYMENT_GATEWAY_ACCESS_TOKEN", ""),
			NotificationURL:         utils.GetEnvString("PAYMENT_GATEWAY_NOTIFICATION_URL", ""),
			RequestTimeoutInSeconds: utils.GetEnvInt("PAYMENT_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 10),
		},
		Pricing: AppPricing{
			UnlockPrice:              utils.GetEnvFloat("PRICING_UNLOCK_PRICE", 9.9),
			ProfessionalMonthlyPrice: utils.GetEnvFloat("PRICING_PROFESSIONAL_MONTHLY_PRICE", 49.9),
		},
		Retry: AppRetry{
			SweepIntervalInSeconds: utils.GetEnvInt("RETRY_SWEEP_INTERVAL_IN_SECONDS", 5),
			InitialDelayInSeconds:  utils.GetEnvInt("RETRY_INITIAL_DELAY_IN_SECONDS", 5),
			MaxDelayInSeconds:      utils.GetEnvInt("RETRY_MAX_DELAY_IN_SECONDS", 300),
			BackoffMultiplier:      utils.GetEnvFloat("RETRY_BACKOFF_MULTIPLIER", 2),
			EmailMaxRetries:        utils.GetEnvInt("RETRY_EMAIL_MAX_RETRIES", 3),
			WhatsAppMaxRetries:     utils.GetEnvInt("RETRY_WHATSAPP_MAX_RETRIES", 5),
			MaxQueue:               utils.GetEnvInt("RETRY_MAX_QUEUE", 20),
		},
		WhatsApp: AppWhatsApp{
			BaseUrl:              utils.GetEnvString("WHATSAPP_BASE_URL", ""),
			ApiKey:               utils.GetEnvString("WHATSAPP_API_KEY", ""),
			HTTPTimeoutInSeconds: utils.GetEnvInt("WHATSAPP_HTTP_TIMEOUT_IN_SECONDS", 10),
		},
		Directory: AppDirectory{
			BaseUrl:              utils.GetEnvString("DIRECTORY_BASE_URL", ""),
			ApiKey:               utils.GetEnvString("DIRECTORY_API_KEY", ""),
			HTTPTimeoutInSeconds: utils.GetEnvInt("DIRECTORY_HTTP_TIMEOUT_IN_SECONDS", 10),
		},
		Booking: AppBooking{
			HoldExpiryCronSpec: utils.GetEnvString("BOOKING_HOLD_EXPIRY_CRON_SPEC", "@every 1m"),
		},
	}
}
