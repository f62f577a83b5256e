package retryqueue

import (
	"context"
	"fmt"
	"sync"

	"myserv-service/internal/app/contracts"
	"myserv-service/internal/pkg/constvars"
	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	StandardQueueName   = "notification_retry_queue"
	DeadLetterQueueName = "notification_retry_dlq"
)

// Service stores pending notification retries in durable RabbitMQ queues so
// scheduled work survives process restarts.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	prefetch int
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

var _ contracts.RetryQueue = (*Service)(nil)

// NewService declares the durable queues, enables publisher confirms, and
// sets QoS on a dedicated channel.
func NewService(conn *amqp.Connection, log *zap.Logger, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		StandardQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	)
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		DeadLetterQueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:       ch,
		log:      log,
		prefetch: prefetch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

// QueuedItem represents a fetched delivery and its decoded operation.
type QueuedItem struct {
	DeliveryTag uint64
	Operation   requests.RetryOperation
}

// Register publishes an operation to the standard queue with persistence and
// waits for the broker confirm.
func (s *Service) Register(ctx context.Context, operation *requests.RetryOperation) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("RetryQueue.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationIDKey, operation.ID),
		zap.String(constvars.LoggingChannelKey, operation.Channel),
	)
	return s.publish(ctx, StandardQueueName, operation)
}

// Reenqueue returns a (possibly modified) operation to the tail of the
// standard queue.
func (s *Service) Reenqueue(ctx context.Context, operation *requests.RetryOperation) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("RetryQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationIDKey, operation.ID),
		zap.Int(constvars.LoggingRetriesKey, operation.Retries),
	)
	return s.publish(ctx, StandardQueueName, operation)
}

// EnqueueToDeadQueue parks an operation that exhausted its retry cap.
func (s *Service) EnqueueToDeadQueue(ctx context.Context, operation *requests.RetryOperation) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("RetryQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationIDKey, operation.ID),
		zap.Int(constvars.LoggingRetriesKey, operation.Retries),
	)
	return s.publish(ctx, DeadLetterQueueName, operation)
}

// FetchN retrieves up to N operations using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, max int) ([]QueuedItem, error) {
	n := max
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(StandardQueueName, false)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		var operation requests.RetryOperation
		if err := json.Unmarshal(d.Body, &operation); err != nil {
			// Invalid JSON would loop forever; park it in the DLQ.
			_ = d.Ack(false)
			_ = s.publishRaw(ctx, DeadLetterQueueName, d.Body)
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Operation: operation})
	}

	return items, nil
}

// AckMessage acknowledges a delivery so it is removed from the queue.
func (s *Service) AckMessage(ctx context.Context, deliveryTag uint64) error {
	return s.ch.Ack(deliveryTag, false)
}

func (s *Service) publish(ctx context.Context, queue string, operation *requests.RetryOperation) error {
	body, err := json.Marshal(operation)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
