package listener

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/otel"
)

// Listener forwards order events from a redis channel to a webhook. Without a
// webhook url events are only logged.
type Listener struct {
	cache      *redis.Client
	client     *http.Client
	webhookURL string
}

// webhookTimeout bounds a single delivery. Events are handled one at a time.
const webhookTimeout = 10 * time.Second

func NewListener(cache *redis.Client, webhookURL string) *Listener {
	return &Listener{
		cache: cache,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   webhookTimeout,
		},
		webhookURL: webhookURL,
	}
}

// Run blocks until c is done or the subscription fails.
func (l *Listener) Run(c context.Context, channel string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Listener Run").
		Str(constants.KEY_CHANNEL, channel).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "subscribing").Logger()
	logger.Info().Msg("subscribing")
	sub := l.cache.Subscribe(c, channel)
	defer sub.Close()
	if _, err := sub.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing to channel=%s with error=%w", channel, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed")

	messages := sub.Channel()
	c = logger.WithContext(c)
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped listening")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("subscription to channel=%s closed", channel)
			}
			_ = l.Handle(c, []byte(msg.Payload))
		}
	}
}

// Handle forwards a single event. Failures are logged and dropped.
func (l *Listener) Handle(c context.Context, payload []byte) error {
	c, span := otel.Tracer.Start(c, "Listener Handle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Listener Handle").
		Logger()

	evt := event.OrderEvent{}
	if err := json.Unmarshal(payload, &evt); err != nil {
		err = fmt.Errorf("failed decoding order event with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().
		Str(constants.KEY_EVENT, string(evt.Type)).
		Str(constants.KEY_ORDER_ID, evt.OrderID.String()).
		Str(constants.KEY_USER_ID, evt.UserID.String()).
		Logger()

	if l.webhookURL == "" {
		logger.Info().Str(constants.KEY_STATUS, evt.FulfillmentStatus).Msg("received order event")
		return nil
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "posting webhook").Logger()
	req, err := http.NewRequestWithContext(c, http.MethodPost, l.webhookURL, bytes.NewReader(payload))
	if err != nil {
		err = fmt.Errorf("failed creating webhook request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := l.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed posting webhook with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		err = fmt.Errorf("webhook responded with statusCode=%d", res.StatusCode)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int(constants.KEY_STATUS_CODE, res.StatusCode).Msg("posted webhook")

	return nil
}
