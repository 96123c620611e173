package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tourvista/service-tours/internal/application"
	bookingDomain "github.com/tourvista/service-tours/internal/domain/booking"
	"github.com/tourvista/service-tours/pkg/domain"
	"github.com/tourvista/service-tours/pkg/events"
	"github.com/tourvista/service-tours/pkg/kafka"
)

// paymentActor is the updatedBy identity recorded for gateway-driven changes.
const paymentActor = "service-payment"

// PaymentEventConsumer listens to payment gateway events and applies the
// resulting payment-status transitions through the booking service.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentCaptured:
		var evt events.PaymentCapturedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse PaymentCapturedEvent data", zap.Error(err))
			return nil
		}
		return c.applyPaymentChange(ctx, evt.BookingID, bookingDomain.PaymentPaid,
			"payment captured by gateway")

	case events.PaymentCancelled:
		var evt events.PaymentCancelledEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse PaymentCancelledEvent data", zap.Error(err))
			return nil
		}
		return c.applyPaymentChange(ctx, evt.BookingID, bookingDomain.PaymentCancelled,
			"payment cancelled by gateway")

	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) applyPaymentChange(ctx context.Context, bookingID uuid.UUID, target bookingDomain.PaymentStatus, note string) error {
	_, err := c.service.ChangePaymentStatus(ctx, bookingID, target, paymentActor, note)
	if err != nil {
		// Transition rejections are final; retrying would reproduce the same
		// outcome, so drop the message. Infrastructure errors are retried.
		switch domain.CodeOf(err) {
		case domain.CodeTerminalState, domain.CodeIllegalTransition, domain.CodeValidation, domain.CodeNotFound:
			c.logger.Warn("payment event rejected by transition rules",
				zap.String("booking_id", bookingID.String()),
				zap.String("target", target.String()),
				zap.Error(err),
			)
			return nil
		default:
			c.logger.Error("failed to apply payment event",
				zap.String("booking_id", bookingID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	c.logger.Info("payment event applied",
		zap.String("booking_id", bookingID.String()),
		zap.String("payment_status", target.String()),
	)
	return nil
}
