package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/gateway/internal/otel"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
)

// SessionService keeps logged out tokens in redis until they would have
// expired anyway.
type SessionService struct {
	cache *redis.Client
	now   func() time.Time
}

func NewSessionService(cache *redis.Client) *SessionService {
	return &SessionService{cache: cache, now: time.Now}
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "gateway:revoked:" + hex.EncodeToString(sum[:])
}

// Revoke marks token as logged out. A token already past expiresAt needs no
// entry.
func (s *SessionService) Revoke(c context.Context, token string, expiresAt time.Time) error {
	c, span := otel.Tracer.Start(c, "SessionService Revoke")
	defer span.End()

	key := revokedKey(token)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService Revoke").
		Str(log.KeyProcess, "revoking token").
		Str(log.KeyCacheKey, key).
		Logger()

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		logger.Info().Msg("token already expired")
		return nil
	}

	logger.Info().Msg("revoking token")
	if err := s.cache.Set(c, key, 1, ttl).Err(); err != nil {
		err = fmt.Errorf("failed revoking token with error=%w", errors.Join(err, inErrors.ErrStoreUnavailable))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Dur("ttl", ttl).Msg("revoked token")

	return nil
}

func (s *SessionService) IsRevoked(c context.Context, token string) (bool, error) {
	c, span := otel.Tracer.Start(c, "SessionService IsRevoked")
	defer span.End()

	key := revokedKey(token)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService IsRevoked").
		Str(log.KeyProcess, "checking revoked token").
		Str(log.KeyCacheKey, key).
		Logger()

	logger.Trace().Msg("checking revoked token")
	n, err := s.cache.Exists(c, key).Result()
	if err != nil {
		err = fmt.Errorf("failed checking revoked token with error=%w", errors.Join(err, inErrors.ErrStoreUnavailable))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Trace().Bool("revoked", n > 0).Msg("checked revoked token")

	return n > 0, nil
}
