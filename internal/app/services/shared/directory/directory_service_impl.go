package directory

import (
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

type directoryService struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Log        *zap.Logger
}

var (
	directoryServiceInstance contracts.PartyDirectory
	onceDirectoryService     sync.Once
)

func NewDirectoryService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PartyDirectory {
	onceDirectoryService.Do(func() {
		instance := &directoryService{
			BaseURL: internalConfig.Directory.BaseUrl,
			APIKey:  internalConfig.Directory.ApiKey,
			HTTPClient: &http.Client{
				Timeout: time.Duration(internalConfig.Directory.HTTPTimeoutInSeconds) * time.Second,
			},
			Log: logger,
		}
		directoryServiceInstance = instance
	})
	return directoryServiceInstance
}

func (s *directoryService) GetNotificationParty(ctx context.Context, userID string) (*requests.NotificationParty, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("directoryService.GetNotificationParty called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	url := fmt.Sprintf("%s/internal/users/%s", s.BaseURL, userID)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	httpRequest.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf("Bearer %s", s.APIKey))

	httpResponse, err := s.HTTPClient.Do(httpRequest)
	if err != nil {
		s.Log.Error("directoryService.GetNotificationParty error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode == constvars.StatusNotFound {
		return nil, nil
	}
	if httpResponse.StatusCode != constvars.StatusOK {
		err := fmt.Errorf("directory responded with status %d", httpResponse.StatusCode)
		s.Log.Error("directoryService.GetNotificationParty unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}

	party := new(requests.NotificationParty)
	err = json.NewDecoder(httpResponse.Body).Decode(party)
	if err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return party, nil
}
