package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		RabbitMQ RabbitMQ
		SMTP     SMTP
		Logger   Logger
	}
	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	SMTP struct {
		Host        string
		Username    string
		Password    string
		EmailSender string
		Port        int
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)

type InternalConfig struct {
	App            App
	PaymentGateway AppPaymentGateway
	Pricing        AppPricing
	Retry          AppRetry
	WhatsApp       AppWhatsApp
	Directory      AppDirectory
	Booking        AppBooking
}

type App struct {
	Env                      string
	Port                     string
	Version                  string
	Address                  string
	Timezone                 string
	EndpointPrefix           string
	BaseUrl                  string
	MaxRequests              int
	ShutdownTimeoutInSeconds int
}

type AppPaymentGateway struct {
	BaseUrl                 string
	AccessToken             string
	NotificationURL         string
	RequestTimeoutInSeconds int
}

// AppPricing holds marketplace prices the acceptance gate reports to
// providers without a subscription.
type AppPricing struct {
	UnlockPrice              float64
	ProfessionalMonthlyPrice float64
}

// AppRetry configures the notification retry queue backoff policy.
type AppRetry struct {
	SweepIntervalInSeconds int
	InitialDelayInSeconds  int
	MaxDelayInSeconds      int
	BackoffMultiplier      float64
	EmailMaxRetries        int
	WhatsAppMaxRetries     int
	MaxQueue               int
}

// AppDirectory points at the accounts service that owns user contact data.
type AppDirectory struct {
	BaseUrl              string
	ApiKey               string
	HTTPTimeoutInSeconds int
}

type AppWhatsApp struct {
	BaseUrl              string
	ApiKey               string
	HTTPTimeoutInSeconds int
}

type AppBooking struct {
	// HoldExpiryCronSpec drives the sweep that expires overdue PENDING holds.
	HoldExpiryCronSpec string
}
