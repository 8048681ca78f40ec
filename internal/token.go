package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/otel"
)

func VerifyToken(c context.Context, secretKey string, token string) (*jwt.Token, error) {
	c, span := otel.Tracer.Start(c, "VerifyToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "VerifyToken").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	jwtToken, err := jwt.ParseWithClaims(token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AUDIENCE_USER),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.ISSUER),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", errors.Join(inErrors.ErrTokenInvalid, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("parsed claims")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating token").Logger()
	logger.Trace().Msg("validating token")
	if !jwtToken.Valid {
		err = fmt.Errorf("failed validating token with error=%w", inErrors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("validated token")

	return jwtToken, nil
}

type jwtToken struct{}

func AttachJwtToken(c context.Context, jwt *jwt.Token) context.Context {
	return context.WithValue(c, jwtToken{}, jwt)
}

func JwtTokenFromContext(c context.Context) (*jwt.Token, bool) {
	token, ok := c.Value(jwtToken{}).(*jwt.Token)
	return token, ok && token != nil
}

func UserIdFromJwtToken(c context.Context) (uuid.UUID, error) {
	c, span := otel.Tracer.Start(c, "UserIdFromJwtToken")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "UserIdFromJwtToken").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting subject from jwtToken").Logger()
	logger.Trace().Msg("getting jwtToken from context")
	token, ok := JwtTokenFromContext(c)
	if !ok {
		err := fmt.Errorf("failed getting jwtToken from context with error=%w", inErrors.ErrEmptyAuth)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		err = fmt.Errorf("failed getting subject from jwt with error=%w", inErrors.ErrEmptySubject)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Trace().Msg("got subject from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing subject").Logger()
	logger.Trace().Msg("parsing subject")
	userId, err := uuid.Parse(subject)
	if err != nil {
		err = fmt.Errorf("failed parsing subject=%s with error=%w", subject, inErrors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Trace().Str(constants.KEY_USER_ID, userId.String()).Msg("parsed subject as userId")

	return userId, nil
}

// RequireUser fails with ErrForbiddenUser when the path user is not the
// token subject.
func RequireUser(c context.Context, pathUserId uuid.UUID) error {
	userId, err := UserIdFromJwtToken(c)
	if err != nil {
		return err
	}
	if userId != pathUserId {
		return fmt.Errorf("userId=%s with subject=%s error=%w", pathUserId, userId, inErrors.ErrForbiddenUser)
	}
	return nil
}
