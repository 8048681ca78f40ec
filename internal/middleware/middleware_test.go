package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
)

const secret = "middleware-secret"

func bearer(t *testing.T, userId uuid.UUID, key string) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    constants.ISSUER,
		Subject:   userId.String(),
		Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuth(t *testing.T) {
	userId := uuid.New()

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
		expectedUserId uuid.UUID
	}{
		{
			name:           "given no header should return 401",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "given non bearer scheme should return 401",
			authorization:  "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "given token signed with other key should return 401",
			authorization:  bearer(t, userId, "other"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "given valid token should call next with subject",
			authorization:  bearer(t, userId, secret),
			expectedStatus: http.StatusNoContent,
			expectedUserId: userId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actualUserId uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, err := internal.UserIdFromJwtToken(r.Context())
				require.NoError(t, err)
				actualUserId = id
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/carts/x/items", nil)
			if tt.authorization != "" {
				req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, tt.authorization)
			}
			recorder := httptest.NewRecorder()
			Auth(secret)(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Equal(t, tt.expectedUserId, actualUserId)
		})
	}
}

func TestLoggingRedactsAndPreservesBody(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.TraceLevel)

	body := `{"method":"credit_card","card":{"card_number":"4111111111111111","cvv":"123"},"amount":"10.00"}`
	var (
		forwarded []byte
		requestID string
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded, _ = io.ReadAll(r.Body)
		requestID = log.RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/x/payment", strings.NewReader(body))
	req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, "req-42")
	req = req.WithContext(logger.WithContext(req.Context()))
	recorder := httptest.NewRecorder()
	Logging(next).ServeHTTP(recorder, req)

	assert.JSONEq(t, body, string(forwarded))
	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "req-42", recorder.Header().Get(inHttp.KEY_HEADER_REQUEST_ID))
	assert.NotContains(t, logs.String(), "4111111111111111")
	assert.NotContains(t, logs.String(), `"cvv":"123"`)
	assert.Contains(t, logs.String(), "credit_card")
}

func TestRecoverPanic(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	recorder := httptest.NewRecorder()
	RecoverPanic(next).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, inHttp.STATUS_ERROR, body["status"])
	assert.NotContains(t, body["message"], "boom")
}
