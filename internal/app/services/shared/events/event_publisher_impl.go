package events

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	eventPublisherInstance contracts.EventPublisher
	onceEventPublisher     sync.Once
)

type eventPublisher struct {
	conn      *amqp091.Connection
	queueName string
	Log       *zap.Logger
}

func NewEventPublisher(conn *amqp091.Connection, queueName string, logger *zap.Logger) contracts.EventPublisher {
	onceEventPublisher.Do(func() {
		instance := &eventPublisher{
			conn:      conn,
			queueName: queueName,
			Log:       logger,
		}
		eventPublisherInstance = instance
	})
	return eventPublisherInstance
}

func (p *eventPublisher) PublishAppointmentEvent(ctx context.Context, event contracts.AppointmentEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	channel, err := p.conn.Channel()
	if err != nil {
		p.Log.Error("eventPublisher.PublishAppointmentEvent error opening channel",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrPublishEvent(err)
	}
	defer channel.Close()

	_, err = channel.QueueDeclare(p.queueName, true, false, false, false, nil)
	if err != nil {
		p.Log.Error("eventPublisher.PublishAppointmentEvent error declaring queue",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, p.queueName),
			zap.Error(err),
		)
		return exceptions.ErrPublishEvent(err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = channel.PublishWithContext(ctx, "", p.queueName, false, false, amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.Log.Error("eventPublisher.PublishAppointmentEvent error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, p.queueName),
			zap.Error(err),
		)
		return exceptions.ErrPublishEvent(err)
	}

	p.Log.Info("eventPublisher.PublishAppointmentEvent published",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventKey, event.Name),
		zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
	)
	return nil
}
