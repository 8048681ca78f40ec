package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
)

var (
	errMalformedEvent   = errors.New("malformed order event")
	errDeliveriesClosed = errors.New("delivery channel closed by broker")
)

type Worker struct {
	id      int
	channel *amqp.Channel
	queue   string
	tracker *Tracker
	metrics *metrics.Metrics
}

// NewWorker opens a dedicated channel that receives one unacknowledged
// message at a time.
func NewWorker(id int, conn *amqp.Connection, queue string, tracker *Tracker, m *metrics.Metrics) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed opening channel for worker=%d with error=%w", id, err)
	}
	if err = ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed setting qos for worker=%d with error=%w", id, err)
	}
	return &Worker{id: id, channel: ch, queue: queue, tracker: tracker, metrics: m}, nil
}

// Start consumes until c is done. A delivery channel closed by the broker is
// returned as an error so the other workers stop too.
func (w *Worker) Start(c context.Context) error {
	defer w.channel.Close()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Worker Start").
		Int(constants.KEY_WORKER_ID, w.id).
		Str(constants.KEY_QUEUE, w.queue).
		Logger()

	deliveries, err := w.channel.ConsumeWithContext(
		c,
		w.queue,
		fmt.Sprintf("%s-%d", constants.APP_WAREHOUSE_CONSUMER, w.id),
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		err = fmt.Errorf("failed registering consumer with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("worker started")

	c = logger.WithContext(c)
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("worker stopped")
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				if c.Err() != nil {
					logger.Info().Msg("worker stopped")
					return nil
				}
				logger.Warn().Err(errDeliveriesClosed).Msg(errDeliveriesClosed.Error())
				return errDeliveriesClosed
			}
			_ = w.Handle(c, delivery)
		}
	}
}

// Handle acks a recorded order and drops malformed messages without
// requeueing them.
func (w *Worker) Handle(c context.Context, delivery amqp.Delivery) error {
	c, span := otel.Tracer.Start(c, "Worker Handle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Worker Handle").
		Uint64("deliveryTag", delivery.DeliveryTag).
		Logger()

	evt := event.OrderEvent{}
	err := json.Unmarshal(delivery.Body, &evt)
	if err == nil && (evt.Type != event.TypeOrderPaid || evt.OrderID == uuid.Nil) {
		err = fmt.Errorf("type=%s orderId=%s with error=%w", evt.Type, evt.OrderID, errMalformedEvent)
	}
	if err != nil {
		err = fmt.Errorf("failed decoding order event with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if w.metrics != nil {
			w.metrics.WarehouseRejectedMsgs.Inc()
		}
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			logger.Error().Err(nackErr).Msg("failed rejecting message")
		}
		return err
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, evt.OrderID.String()).Logger()

	total := w.tracker.Record(evt.Items)
	if w.metrics != nil {
		w.metrics.WarehouseOrders.Inc()
	}

	if err = delivery.Ack(false); err != nil {
		err = fmt.Errorf("failed acknowledging message with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int64(constants.KEY_ORDERS, total).Msg("recorded paid order")
	return nil
}
