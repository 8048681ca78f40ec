package infra

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
)

var ErrChannelPoolClosed = errors.New("channel pool is closed")

// ChannelPool hands out channels of a single RabbitMQ connection. Every
// channel declares the durable queue it publishes to.
type ChannelPool struct {
	conn     *amqp.Connection
	channels chan *amqp.Channel
	queue    string
	mu       sync.Mutex
	closed   bool
}

func NewChannelPool(c context.Context, cfg config.Broker) (*ChannelPool, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "infra NewChannelPool").
		Str(constants.KEY_QUEUE, cfg.Queue).
		Int("poolSize", cfg.PoolSize).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "dialing rabbitmq").Logger()
	logger.Info().Msg("dialing rabbitmq")
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		err = fmt.Errorf("failed dialing rabbitmq with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("dialed rabbitmq")

	size := cfg.PoolSize
	if size <= 0 {
		size = 1
	}
	pool := &ChannelPool{
		conn:     conn,
		channels: make(chan *amqp.Channel, size),
		queue:    cfg.Queue,
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "creating channels").Logger()
	logger.Info().Msg("creating channels")
	for i := 0; i < size; i++ {
		ch, err := pool.createChannel()
		if err != nil {
			pool.Close()
			err = fmt.Errorf("failed creating channel=%d with error=%w", i, err)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		pool.channels <- ch
	}
	logger.Info().Msg("created channels")

	return pool, nil
}

func (p *ChannelPool) Connection() *amqp.Connection {
	return p.conn
}

func (p *ChannelPool) createChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err = DeclareQueue(ch, p.queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return ch, nil
}

func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	queue, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed declaring queue=%s with error=%w", name, err)
	}
	return queue, nil
}

// Get waits for an idle channel until c is done. Closed channels are
// replaced on the way out.
func (p *ChannelPool) Get(c context.Context) (*amqp.Channel, error) {
	select {
	case <-c.Done():
		return nil, c.Err()
	case ch, ok := <-p.channels:
		if !ok {
			return nil, ErrChannelPoolClosed
		}
		if ch.IsClosed() {
			return p.createChannel()
		}
		return ch, nil
	}
}

func (p *ChannelPool) Put(ch *amqp.Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		_ = ch.Close()
	}
}

func (p *ChannelPool) Publish(c context.Context, body []byte) error {
	ch, err := p.Get(c)
	if err != nil {
		return fmt.Errorf("failed getting channel from pool with error=%w", err)
	}
	defer p.Put(ch)

	err = ch.PublishWithContext(c, "", p.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed publishing to queue=%s with error=%w", p.queue, err)
	}
	return nil
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		_ = ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
