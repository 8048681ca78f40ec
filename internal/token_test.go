package internal

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

const secret = "secret-key"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    constants.ISSUER,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func TestVerifyToken(t *testing.T) {
	userId := uuid.New()

	tests := []struct {
		name        string
		token       func() string
		expectedErr error
	}{
		{
			name: "given valid token should return token",
			token: func() string {
				return signToken(t, jwt.SigningMethodHS256, []byte(secret), validClaims(userId.String()))
			},
		},
		{
			name: "given wrong secret should return invalid token",
			token: func() string {
				return signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims(userId.String()))
			},
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name: "given expired token should return invalid token",
			token: func() string {
				claims := validClaims(userId.String())
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return signToken(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name: "given missing expiry should return invalid token",
			token: func() string {
				claims := validClaims(userId.String())
				claims.ExpiresAt = nil
				return signToken(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name: "given wrong audience should return invalid token",
			token: func() string {
				claims := validClaims(userId.String())
				claims.Audience = jwt.ClaimStrings{"audience-admin"}
				return signToken(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name: "given wrong issuer should return invalid token",
			token: func() string {
				claims := validClaims(userId.String())
				claims.Issuer = "someone-else"
				return signToken(t, jwt.SigningMethodHS256, []byte(secret), claims)
			},
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name: "given other signing method should return invalid token",
			token: func() string {
				return signToken(t, jwt.SigningMethodHS512, []byte(secret), validClaims(userId.String()))
			},
			expectedErr: inErrors.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := VerifyToken(context.Background(), secret, tt.token())
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			assert.True(t, token.Valid)
		})
	}
}

func TestUserIdFromJwtToken(t *testing.T) {
	userId := uuid.New()

	tests := []struct {
		name        string
		ctx         func() context.Context
		expected    uuid.UUID
		expectedErr error
	}{
		{
			name:        "given no token should return empty auth",
			ctx:         context.Background,
			expectedErr: inErrors.ErrEmptyAuth,
		},
		{
			name: "given empty subject should return empty subject",
			ctx: func() context.Context {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(""))
				return AttachJwtToken(context.Background(), token)
			},
			expectedErr: inErrors.ErrEmptySubject,
		},
		{
			name: "given non uuid subject should return invalid token",
			ctx: func() context.Context {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("alice"))
				return AttachJwtToken(context.Background(), token)
			},
			expectedErr: inErrors.ErrTokenInvalid,
		},
		{
			name: "given uuid subject should return userId",
			ctx: func() context.Context {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(userId.String()))
				return AttachJwtToken(context.Background(), token)
			},
			expected: userId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := UserIdFromJwtToken(tt.ctx())
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestRequireUser(t *testing.T) {
	userId := uuid.New()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(userId.String()))
	c := AttachJwtToken(context.Background(), token)

	assert.NoError(t, RequireUser(c, userId))
	assert.ErrorIs(t, RequireUser(c, uuid.New()), inErrors.ErrForbiddenUser)
}
