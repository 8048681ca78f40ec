package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

type queue interface {
	Publish(c context.Context, body []byte) error
}

// AmqpPublisher writes events as persistent messages through a channel pool.
type AmqpPublisher struct {
	pool queue
}

func NewAmqpPublisher(pool queue) AmqpPublisher {
	return AmqpPublisher{pool: pool}
}

func (p AmqpPublisher) Publish(c context.Context, evt OrderEvent) error {
	c, span := otel.Tracer.Start(c, "AmqpPublisher Publish")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AmqpPublisher Publish").
		Str(constants.KEY_EVENT, string(evt.Type)).
		Str(constants.KEY_ORDER_ID, evt.OrderID.String()).
		Logger()

	body, err := json.Marshal(evt)
	if err != nil {
		err = fmt.Errorf("failed marshaling event with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "publishing event").Logger()
	logger.Debug().Msg("publishing event")
	if err = p.pool.Publish(c, body); err != nil {
		err = fmt.Errorf("failed publishing event with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Debug().Msg("published event")

	return nil
}
