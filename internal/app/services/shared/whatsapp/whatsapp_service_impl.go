package whatsapp

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type whatsAppService struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Log        *zap.Logger
}

var (
	whatsAppServiceInstance contracts.WhatsAppSender
	onceWhatsAppService     sync.Once
)

func NewWhatsAppService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.WhatsAppSender {
	onceWhatsAppService.Do(func() {
		instance := &whatsAppService{
			BaseURL: internalConfig.WhatsApp.BaseUrl,
			APIKey:  internalConfig.WhatsApp.ApiKey,
			HTTPClient: &http.Client{
				Timeout: time.Duration(internalConfig.WhatsApp.HTTPTimeoutInSeconds) * time.Second,
			},
			Log: logger,
		}
		whatsAppServiceInstance = instance
	})
	return whatsAppServiceInstance
}

func (s *whatsAppService) SendWhatsAppMessage(ctx context.Context, request *requests.WhatsAppMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("whatsAppService.SendWhatsAppMessage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	body, err := json.Marshal(request)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	url := fmt.Sprintf("%s/messages", s.BaseURL)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	httpRequest.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	httpRequest.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf("Bearer %s", s.APIKey))

	httpResponse, err := s.HTTPClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("whatsAppService.SendWhatsAppMessage error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrWhatsAppSendMessage(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf("whatsapp gateway responded with status %d", httpResponse.StatusCode)
		s.Log.Error("whatsAppService.SendWhatsAppMessage unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return exceptions.ErrWhatsAppSendMessage(err)
	}
	return nil
}
