package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

type RedisPublisher struct {
	cache   *redis.Client
	channel string
}

func NewRedisPublisher(cache *redis.Client, channel string) RedisPublisher {
	return RedisPublisher{cache: cache, channel: channel}
}

func (p RedisPublisher) Publish(c context.Context, evt OrderEvent) error {
	c, span := otel.Tracer.Start(c, "RedisPublisher Publish")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RedisPublisher Publish").
		Str(constants.KEY_CHANNEL, p.channel).
		Str(constants.KEY_EVENT, string(evt.Type)).
		Str(constants.KEY_ORDER_ID, evt.OrderID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "marshaling event").Logger()
	body, err := json.Marshal(evt)
	if err != nil {
		err = fmt.Errorf("failed marshaling event with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "publishing event").Logger()
	logger.Debug().Msg("publishing event")
	if err = p.cache.Publish(c, p.channel, body).Err(); err != nil {
		err = fmt.Errorf("failed publishing event to channel=%s with error=%w", p.channel, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Debug().Msg("published event")

	return nil
}
