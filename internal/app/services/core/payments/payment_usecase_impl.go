package payments

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/contracts"
	"myserv-service/internal/app/models"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/dto/responses"
	"myserv-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type paymentUsecase struct {
	PaymentRepository      contracts.PaymentRepository
	SubscriptionRepository contracts.SubscriptionRepository
	GatewayClient          contracts.PaymentGatewayClient
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(
	paymentRepository contracts.PaymentRepository,
	subscriptionRepository contracts.SubscriptionRepository,
	gatewayClient contracts.PaymentGatewayClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		instance := &paymentUsecase{
			PaymentRepository:      paymentRepository,
			SubscriptionRepository: subscriptionRepository,
			GatewayClient:          gatewayClient,
			InternalConfig:         internalConfig,
			Log:                    logger,
		}
		paymentUsecaseInstance = instance
	})
	return paymentUsecaseInstance
}

// CreateIntent creates the local PENDING payment row first, then the gateway
// preference. The external reference embeds purpose, local payment id and
// correlation id so the webhook can reconcile without guessing.
func (uc *paymentUsecase) CreateIntent(ctx context.Context, request *requests.CreateIntentRequest) (*responses.CreateIntentResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.CreateIntent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("purpose", request.Purpose),
	)

	purpose, ok := models.ParsePaymentPurpose(request.Purpose)
	if !ok {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("unknown payment purpose %q", request.Purpose))
	}

	var correlation string
	switch purpose {
	case models.PaymentPurposeBooking, models.PaymentPurposeUnlock:
		if request.BookingID == "" {
			return nil, exceptions.ErrInputValidation(fmt.Errorf("booking id is required for %s payments", purpose))
		}
		correlation = request.BookingID
	case models.PaymentPurposeSubscription:
		if request.PlanID == "" {
			return nil, exceptions.ErrInputValidation(fmt.Errorf("plan id is required for subscription payments"))
		}
		correlation = request.PlanID
	}

	payment := &models.Payment{
		UserID:           request.PayerID,
		ServiceRequestID: request.BookingID,
		Purpose:          purpose,
		PlanID:           request.PlanID,
		Amount:           request.Amount,
		Gateway:          constvars.GatewayNameMercadoPago,
		Status:           models.PaymentPending,
	}
	paymentID, err := uc.PaymentRepository.Insert(ctx, payment)
	if err != nil {
		return nil, err
	}

	externalReference := strings.Join(
		[]string{string(purpose), paymentID, correlation},
		constvars.ExternalReferenceSeparator,
	)

	title := request.Title
	if title == "" {
		title = fmt.Sprintf("%s payment", purpose)
	}
	preference, err := uc.GatewayClient.CreatePreference(ctx, &requests.CreatePreferenceRequest{
		Items: []requests.PreferenceItem{
			{Title: title, Quantity: 1, UnitPrice: request.Amount},
		},
		Payer:             requests.PreferencePayer{Email: request.PayerEmail},
		ExternalReference: externalReference,
		NotificationURL:   uc.InternalConfig.PaymentGateway.NotificationURL,
		Metadata: map[string]string{
			"purpose":            string(purpose),
			"payment_id":         paymentID,
			"user_id":            request.PayerID,
			"service_request_id": request.BookingID,
			"plan_id":            request.PlanID,
		},
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("payment intent created",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
		zap.String(constvars.LoggingExternalReferenceKey, externalReference),
	)
	return &responses.CreateIntentResponse{
		PaymentID:   paymentID,
		ExternalID:  preference.ID,
		CheckoutURL: preference.InitPoint,
	}, nil
}

// HandleGatewayWebhook reconciles a gateway event against local payment rows.
// The envelope is never trusted beyond the event type and payment id; the
// payment object is re-fetched from the gateway. Data problems are logged and
// swallowed so the gateway stops redelivering; only infrastructure failures
// propagate.
func (uc *paymentUsecase) HandleGatewayWebhook(ctx context.Context, event *requests.GatewayWebhookEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.HandleGatewayWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("event_type", event.Type),
		zap.String(constvars.LoggingGatewayPaymentIDKey, event.Data.ID),
	)

	if event.Type != constvars.MPWebhookTypePayment {
		uc.Log.Info("ignoring non-payment webhook event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("event_type", event.Type),
		)
		return nil
	}
	if event.Data.ID == "" {
		uc.Log.Warn("payment webhook without a payment id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil
	}

	gatewayPayment, err := uc.GatewayClient.FetchPayment(ctx, event.Data.ID)
	if err != nil {
		return err
	}

	status := mapGatewayStatus(constvars.MPPaymentStatus(gatewayPayment.Status))
	purpose, localPaymentID, correlation := parseExternalReference(gatewayPayment.ExternalReference)

	payment, err := uc.reconcile(ctx, gatewayPayment, status, localPaymentID, correlation)
	if err != nil {
		return err
	}
	if payment == nil {
		return nil
	}

	if payment.Purpose != "" {
		purpose = payment.Purpose
	}
	if status == models.PaymentApproved && purpose == models.PaymentPurposeSubscription {
		if err := uc.upsertSubscription(ctx, payment); err != nil {
			return err
		}
	}
	return nil
}

// reconcile binds the gateway payment to exactly one local row: exact id
// match, then atomic claim of the newest open intent, then defensive insert.
func (uc *paymentUsecase) reconcile(ctx context.Context, gatewayPayment *responses.GatewayPayment, status models.PaymentStatus, localPaymentID string, correlation string) (*models.Payment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	existing, err := uc.PaymentRepository.FindByGatewayPaymentID(ctx, constvars.GatewayNameMercadoPago, gatewayPayment.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == status {
			return existing, nil
		}
		updated, err := uc.PaymentRepository.UpdateStatus(ctx, existing.ID, status)
		if err != nil {
			return nil, err
		}
		uc.Log.Info("webhook matched existing payment by gateway id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, existing.ID),
			zap.String(constvars.LoggingPaymentStatusKey, string(status)),
		)
		return updated, nil
	}

	userID := gatewayPayment.Metadata["user_id"]
	serviceRequestID := gatewayPayment.Metadata["service_request_id"]
	if userID == "" && localPaymentID != "" {
		// Metadata got lost in transit; recover the correlation key from the
		// row the external reference points at.
		local, err := uc.PaymentRepository.FindByID(ctx, localPaymentID)
		if err != nil {
			return nil, err
		}
		if local != nil {
			userID = local.UserID
			serviceRequestID = local.ServiceRequestID
		}
	}
	if userID != "" {
		claimed, err := uc.PaymentRepository.ClaimPendingIntent(ctx, serviceRequestID, userID, constvars.GatewayNameMercadoPago, gatewayPayment.ID, status)
		if err != nil {
			return nil, err
		}
		if claimed != nil {
			uc.Log.Info("webhook claimed open payment intent",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, claimed.ID),
				zap.String(constvars.LoggingGatewayPaymentIDKey, gatewayPayment.ID),
			)
			return claimed, nil
		}
	}

	// No local row matches; record what the gateway told us so money is
	// never invisible.
	purpose, ok := models.ParsePaymentPurpose(gatewayPayment.Metadata["purpose"])
	if !ok {
		if p, _, _ := splitReference(gatewayPayment.ExternalReference); p != "" {
			purpose, ok = models.ParsePaymentPurpose(p)
		}
	}
	if !ok {
		uc.Log.Warn("webhook for unknown payment without recoverable purpose",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGatewayPaymentIDKey, gatewayPayment.ID),
			zap.String(constvars.LoggingExternalReferenceKey, gatewayPayment.ExternalReference),
		)
		return nil, nil
	}

	gatewayPaymentID := gatewayPayment.ID
	inserted := &models.Payment{
		UserID:           userID,
		ServiceRequestID: serviceRequestID,
		Purpose:          purpose,
		PlanID:           gatewayPayment.Metadata["plan_id"],
		Amount:           gatewayPayment.TransactionAmount,
		Gateway:          constvars.GatewayNameMercadoPago,
		GatewayPaymentID: &gatewayPaymentID,
		Status:           status,
	}
	if inserted.ServiceRequestID == "" && (purpose == models.PaymentPurposeBooking || purpose == models.PaymentPurposeUnlock) {
		inserted.ServiceRequestID = correlation
	}
	if inserted.PlanID == "" && purpose == models.PaymentPurposeSubscription {
		inserted.PlanID = correlation
	}
	if _, err := uc.PaymentRepository.Insert(ctx, inserted); err != nil {
		return nil, err
	}
	uc.Log.Warn("webhook inserted defensive payment row",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, inserted.ID),
		zap.String(constvars.LoggingGatewayPaymentIDKey, gatewayPayment.ID),
	)
	return inserted, nil
}

// upsertSubscription applies an approved subscription payment: start a new
// subscription, extend the same plan, or replace a different one.
func (uc *paymentUsecase) upsertSubscription(ctx context.Context, payment *models.Payment) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	now := time.Now()

	planID := payment.PlanID
	if planID == "" {
		uc.Log.Warn("approved subscription payment without a plan id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		)
		return nil
	}

	active, err := uc.SubscriptionRepository.FindActiveByProvider(ctx, payment.UserID)
	if err != nil {
		return err
	}

	if active != nil && active.PlanID == planID {
		base := now
		if active.EndDate != nil && active.EndDate.After(now) {
			base = *active.EndDate
		}
		endDate := base.AddDate(0, 1, 0)
		if err := uc.SubscriptionRepository.UpdateEndDate(ctx, active.ID, endDate); err != nil {
			return err
		}
		uc.Log.Info("subscription extended",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSubscriptionIDKey, active.ID),
			zap.Time("end_date", endDate),
		)
		return uc.PaymentRepository.LinkSubscription(ctx, payment.ID, active.ID)
	}

	if active != nil {
		if err := uc.SubscriptionRepository.Cancel(ctx, active.ID); err != nil {
			return err
		}
		uc.Log.Info("previous subscription cancelled on plan change",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSubscriptionIDKey, active.ID),
		)
	}

	endDate := now.AddDate(0, 1, 0)
	subscription := &models.Subscription{
		ServiceProviderID: payment.UserID,
		PlanID:            planID,
		Status:            models.SubscriptionActive,
		StartDate:         now,
		EndDate:           &endDate,
	}
	subscriptionID, err := uc.SubscriptionRepository.Insert(ctx, subscription)
	if err != nil {
		return err
	}
	uc.Log.Info("subscription started",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubscriptionIDKey, subscriptionID),
		zap.Time("end_date", endDate),
	)
	return uc.PaymentRepository.LinkSubscription(ctx, payment.ID, subscriptionID)
}

// mapGatewayStatus translates the gateway's status vocabulary into ours.
func mapGatewayStatus(status constvars.MPPaymentStatus) models.PaymentStatus {
	switch status {
	case constvars.MPPaymentStatusApproved:
		return models.PaymentApproved
	case constvars.MPPaymentStatusPending:
		return models.PaymentPending
	case constvars.MPPaymentStatusInProcess:
		return models.PaymentProcessing
	case constvars.MPPaymentStatusRejected, constvars.MPPaymentStatusCancelled:
		return models.PaymentRejected
	case constvars.MPPaymentStatusRefunded:
		return models.PaymentRefunded
	default:
		return models.PaymentPending
	}
}

// parseExternalReference recovers (purpose, localPaymentID, correlation) from
// the reference written at intent creation. Foreign references come back
// empty.
func parseExternalReference(reference string) (models.PaymentPurpose, string, string) {
	rawPurpose, paymentID, correlation := splitReference(reference)
	purpose, ok := models.ParsePaymentPurpose(rawPurpose)
	if !ok {
		return "", "", ""
	}
	return purpose, paymentID, correlation
}

func splitReference(reference string) (string, string, string) {
	parts := strings.SplitN(reference, constvars.ExternalReferenceSeparator, 3)
	if len(parts) != 3 {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}
