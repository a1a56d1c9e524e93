package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/tracking/internal/otel"
	"github.com/Alturino/fooddelivery/tracking/pkg/response"
)

type TrackingService struct {
	queries *repository.Queries
	now     func() time.Time
}

type Option func(*TrackingService)

// WithClock replaces the wall clock used for time left.
func WithClock(now func() time.Time) Option {
	return func(s *TrackingService) {
		s.now = now
	}
}

func NewTrackingService(queries *repository.Queries, opts ...Option) *TrackingService {
	s := &TrackingService{queries: queries, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TrackingService) ListOrders(c context.Context, userId uuid.UUID) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "TrackingService ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TrackingService ListOrders").
		Str(log.KeyProcess, "finding orders").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger.Info().Msg("finding orders")
	rows, err := s.queries.FindOrdersByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	orders := make([]response.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.Response())
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("found orders")

	return orders, nil
}

// GetOrder returns one of the caller's orders with its lines. An order owned
// by someone else is indistinguishable from a missing one.
func (s *TrackingService) GetOrder(c context.Context, userId uuid.UUID, orderId int64) (response.OrderDetail, error) {
	c, span := otel.Tracer.Start(c, "TrackingService GetOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TrackingService GetOrder").
		Str(log.KeyUserID, userId.String()).
		Int64(log.KeyOrderID, orderId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := s.queries.FindOrderByIdAndUserId(
		c,
		repository.FindOrderByIdAndUserIdParams{ID: orderId, UserID: userId},
	)
	if err != nil {
		err = fmt.Errorf("failed finding orderId=%d with error=%w", orderId, inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.OrderDetail{}, err
	}
	logger.Info().Msg("found order")

	logger = logger.With().Str(log.KeyProcess, "finding order items").Logger()
	logger.Info().Msg("finding order items")
	rows, err := s.queries.FindOrderItemsByOrderId(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding items of orderId=%d with error=%w", orderId, inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.OrderDetail{}, err
	}
	items := make([]response.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Response())
	}
	logger.Info().Int(log.KeyOrderItems, len(items)).Msg("found order items")

	return response.OrderDetail{Order: order.Response(), Items: items}, nil
}

// TimeLeft reports the remaining preparation time of an order. It is derived
// on every call and never stored.
func (s *TrackingService) TimeLeft(c context.Context, orderId int64) (string, error) {
	c, span := otel.Tracer.Start(c, "TrackingService TimeLeft")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TrackingService TimeLeft").
		Str(log.KeyProcess, "finding order createdAt").
		Int64(log.KeyOrderID, orderId).
		Logger()

	logger.Info().Msg("finding order createdAt")
	createdAt, err := s.queries.FindOrderCreatedAtById(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding createdAt of orderId=%d with error=%w", orderId, inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}

	timeLeft := FormatTimeLeft(TimeLeft(createdAt.Time, s.now()))
	logger.Info().Str(log.KeyTimeLeft, timeLeft).Msg("found order createdAt")

	return timeLeft, nil
}
