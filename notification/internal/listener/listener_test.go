package listener

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/testutil"
)

type webhook struct {
	mu       sync.Mutex
	payloads [][]byte
	status   int
}

func (h *webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	h.mu.Lock()
	h.payloads = append(h.payloads, body)
	h.mu.Unlock()
	w.WriteHeader(h.status)
}

func (h *webhook) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payloads)
}

func orderEvent(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(event.OrderEvent{
		Type:              event.TypeOrderShipped,
		OrderID:           uuid.New(),
		UserID:            uuid.New(),
		FulfillmentStatus: "shipped",
	})
	require.NoError(t, err)
	return payload
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		payload     func(t *testing.T) []byte
		withWebhook bool
		expectedHit int
		expectErr   bool
	}{
		{
			name:        "given webhook should post event",
			status:      http.StatusNoContent,
			payload:     orderEvent,
			withWebhook: true,
			expectedHit: 1,
		},
		{
			name:        "given failing webhook should return error",
			status:      http.StatusInternalServerError,
			payload:     orderEvent,
			withWebhook: true,
			expectedHit: 1,
			expectErr:   true,
		},
		{
			name:    "given no webhook should only log",
			payload: orderEvent,
		},
		{
			name:        "given malformed payload should not post",
			status:      http.StatusOK,
			payload:     func(*testing.T) []byte { return []byte("nope") },
			withWebhook: true,
			expectErr:   true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hook := &webhook{status: test.status}
			server := httptest.NewServer(hook)
			defer server.Close()

			url := ""
			if test.withWebhook {
				url = server.URL
			}
			l := NewListener(nil, url)

			err := l.Handle(context.Background(), test.payload(t))
			if test.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.expectedHit, hook.received())
		})
	}
}

func TestHandleGivesUpOnStalledWebhook(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	l := NewListener(nil, server.URL)
	assert.Equal(t, webhookTimeout, l.client.Timeout)
	l.client.Timeout = 200 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- l.Handle(context.Background(), orderEvent(t)) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("handle did not return while the webhook stalled")
	}
}

func TestRunForwardsPublishedEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	c, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := testutil.NewRedis(c, t)
	hook := &webhook{status: http.StatusOK}
	server := httptest.NewServer(hook)
	defer server.Close()

	l := NewListener(cache, server.URL)
	done := make(chan error, 1)
	go func() { done <- l.Run(c, constants.CHANNEL_ORDER_EVENTS) }()

	publisher := event.NewRedisPublisher(cache, constants.CHANNEL_ORDER_EVENTS)
	evt := event.OrderEvent{Type: event.TypeOrderCreated, OrderID: uuid.New()}
	assert.Eventually(t, func() bool {
		_ = publisher.Publish(c, evt)
		return hook.received() > 0
	}, 10*time.Second, 200*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
