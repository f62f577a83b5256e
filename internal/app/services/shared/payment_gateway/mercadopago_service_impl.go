package payment_gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/dto/responses"
	"myserv-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type mercadoPagoService struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
	Log         *zap.Logger
}

var (
	mercadoPagoServiceInstance contracts.PaymentGatewayClient
	onceMercadoPagoService     sync.Once
)

func NewMercadoPagoService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayClient {
	onceMercadoPagoService.Do(func() {
		instance := &mercadoPagoService{
			BaseURL:     internalConfig.PaymentGateway.BaseUrl,
			AccessToken: internalConfig.PaymentGateway.AccessToken,
			HTTPClient: &http.Client{
				Timeout: time.Duration(internalConfig.PaymentGateway.RequestTimeoutInSeconds) * time.Second,
			},
			Log: logger,
		}
		mercadoPagoServiceInstance = instance
	})
	return mercadoPagoServiceInstance
}

func (s *mercadoPagoService) CreatePreference(ctx context.Context, request *requests.CreatePreferenceRequest) (*responses.PreferenceResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("mercadoPagoService.CreatePreference called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingExternalReferenceKey, request.ExternalReference),
	)

	body, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	url := fmt.Sprintf("%s/checkout/preferences", s.BaseURL)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	httpRequest.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	httpRequest.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf("Bearer %s", s.AccessToken))

	httpResponse, err := s.HTTPClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("mercadoPagoService.CreatePreference error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreatePreference(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != constvars.StatusCreated && httpResponse.StatusCode != constvars.StatusOK {
		bodyBytes, _ := io.ReadAll(httpResponse.Body)
		err := fmt.Errorf("gateway responded with status %d: %s", httpResponse.StatusCode, string(bodyBytes))
		s.Log.Error("mercadoPagoService.CreatePreference unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return nil, exceptions.ErrGatewayCreatePreference(err)
	}

	preference := new(responses.PreferenceResponse)
	err = json.NewDecoder(httpResponse.Body).Decode(preference)
	if err != nil {
		return nil, exceptions.ErrGatewayCreatePreference(err)
	}
	return preference, nil
}

func (s *mercadoPagoService) FetchPayment(ctx context.Context, gatewayPaymentID string) (*responses.GatewayPayment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("mercadoPagoService.FetchPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGatewayPaymentIDKey, gatewayPaymentID),
	)

	url := fmt.Sprintf("%s/v1/payments/%s", s.BaseURL, gatewayPaymentID)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	httpRequest.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf("Bearer %s", s.AccessToken))

	httpResponse, err := s.HTTPClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("mercadoPagoService.FetchPayment error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayFetchPayment(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != constvars.StatusOK {
		bodyBytes, _ := io.ReadAll(httpResponse.Body)
		err := fmt.Errorf("gateway responded with status %d: %s", httpResponse.StatusCode, string(bodyBytes))
		s.Log.Error("mercadoPagoService.FetchPayment unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return nil, exceptions.ErrGatewayFetchPayment(err)
	}

	// The gateway serializes the payment id as a number.
	var raw struct {
		ID                json.Number       `json:"id"`
		Status            string            `json:"status"`
		StatusDetail      string            `json:"status_detail"`
		TransactionAmount float64           `json:"transaction_amount"`
		ExternalReference string            `json:"external_reference"`
		Metadata          map[string]string `json:"metadata"`
		Payer             struct {
			Email string `json:"email"`
		} `json:"payer"`
	}
	err = json.NewDecoder(httpResponse.Body).Decode(&raw)
	if err != nil {
		return nil, exceptions.ErrGatewayFetchPayment(err)
	}

	payment := &responses.GatewayPayment{
		ID:                raw.ID.String(),
		Status:            raw.Status,
		StatusDetail:      raw.StatusDetail,
		TransactionAmount: raw.TransactionAmount,
		ExternalReference: raw.ExternalReference,
		Metadata:          raw.Metadata,
		PayerEmail:        raw.Payer.Email,
	}
	return payment, nil
}
