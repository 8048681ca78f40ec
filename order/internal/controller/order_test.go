package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/order/internal/service"
)

const secret = "order-controller-secret"

func bearer(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    constants.ISSUER,
		Subject:   userId.String(),
		Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + token
}

// The cases below are rejected before the service is reached, so a zero
// OrderService is enough.
func TestOrderControllerRejectsBeforeService(t *testing.T) {
	userId := uuid.New()
	orderId := uuid.New()

	router := mux.NewRouter()
	router.Use(middleware.Auth(secret))
	AttachOrderController(router, &service.OrderService{})

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		authorization  string
		expectedStatus int
		expectedErrors bool
	}{
		{
			name:           "given no token should return 401",
			method:         http.MethodGet,
			path:           "/users/" + userId.String() + "/orders",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "given other user path should return 401",
			method:         http.MethodPost,
			path:           "/users/" + uuid.NewString() + "/orders",
			body:           `{"cart_id":"` + uuid.NewString() + `"}`,
			authorization:  bearer(t, userId),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "given missing cart id should return 400 with field errors",
			method:         http.MethodPost,
			path:           "/users/" + userId.String() + "/orders",
			body:           `{}`,
			authorization:  bearer(t, userId),
			expectedStatus: http.StatusBadRequest,
			expectedErrors: true,
		},
		{
			name:           "given malformed order id should return 400",
			method:         http.MethodGet,
			path:           "/orders/not-a-uuid",
			authorization:  bearer(t, userId),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "given malformed payment body should return 400",
			method:         http.MethodPost,
			path:           "/orders/" + orderId.String() + "/payment",
			body:           `{"payment_method":`,
			authorization:  bearer(t, userId),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "given unknown fulfillment status should return 400",
			method:         http.MethodPatch,
			path:           "/orders/" + orderId.String() + "/fulfillment",
			body:           `{"status":"lost"}`,
			authorization:  bearer(t, userId),
			expectedStatus: http.StatusBadRequest,
			expectedErrors: true,
		},
		{
			name:           "given incomplete shipping address should return 400",
			method:         http.MethodPost,
			path:           "/orders/" + orderId.String() + "/shipping",
			body:           `{"full_name":"Ada"}`,
			authorization:  bearer(t, userId),
			expectedStatus: http.StatusBadRequest,
			expectedErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := map[string]interface{}{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, float64(tt.expectedStatus), body["statusCode"])
			assert.Nil(t, body["data"])
			_, hasErrors := body["errors"]
			assert.Equal(t, tt.expectedErrors, hasErrors)
		})
	}
}
