package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"sync"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/app/drivers/mailer"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

const emailMessageFormat = "To: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n"

type mailerService struct {
	Client *mailer.SMTPClient
	Log    *zap.Logger
}

var (
	mailerServiceInstance contracts.EmailSender
	onceMailerService     sync.Once
)

func NewMailerService(client *mailer.SMTPClient, logger *zap.Logger) contracts.EmailSender {
	onceMailerService.Do(func() {
		instance := &mailerService{
			Client: client,
			Log:    logger,
		}
		mailerServiceInstance = instance
	})
	return mailerServiceInstance
}

func (s *mailerService) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("mailerService.SendEmail called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	from := s.Client.EmailSender
	msg := []byte(fmt.Sprintf(emailMessageFormat, request.To, request.Subject, request.Body))
	addr := fmt.Sprintf("%s:%d", s.Client.Host, s.Client.Port)
	err := smtp.SendMail(addr, s.Client.Auth, from, []string{request.To}, msg)
	if err != nil {
		s.Log.Error("mailerService.SendEmail error sending email",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSMTPSendEmail(err, s.Client.Host)
	}
	return nil
}
