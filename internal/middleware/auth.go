package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/internal/auth"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	inHttp "github.com/Alturino/fooddelivery/internal/http"
	"github.com/Alturino/fooddelivery/internal/log"
	"github.com/Alturino/fooddelivery/internal/otel"
)

// Auth verifies the bearer token and attaches the caller's user id to the
// request context. Requests without a valid token end with 401.
func Auth(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Auth")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Auth").Logger()

			logger = logger.With().Str(log.KeyProcess, "reading authorization header").Logger()
			token, found := inHttp.BearerToken(r)
			if !found {
				err := fmt.Errorf("missing bearer token with error=%w", inErrors.ErrUnauthorized)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, inErrors.ErrUnauthorized)
				return
			}

			logger = logger.With().Str(log.KeyProcess, "verifying token").Logger()
			jwtToken, err := auth.VerifyToken(c, secretKey, token)
			if err != nil {
				err = fmt.Errorf("failed verifying token with error=%w", err)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, inErrors.ErrUnauthorized)
				return
			}

			userId, err := auth.UserIdFromToken(jwtToken)
			if err != nil {
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, inErrors.ErrUnauthorized)
				return
			}
			logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()
			logger.Trace().Msg("verified token")

			c = auth.AttachUserIdToContext(c, userId)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
