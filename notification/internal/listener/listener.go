package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/internal/constants"
	"github.com/Alturino/fooddelivery/internal/log"
	"github.com/Alturino/fooddelivery/internal/metric"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/notification/internal/otel"
	"github.com/Alturino/fooddelivery/order/pkg/event"
)

const (
	flushInterval = 300 * time.Millisecond
	maxBatch      = 50
)

type Notifier interface {
	Notify(c context.Context, events []event.OrderPlaced) error
}

// OrderPlacedListener consumes the order placed channel and hands events to
// a notifier in small batches.
type OrderPlacedListener struct {
	cache    *redis.Client
	notifier Notifier
}

func NewOrderPlacedListener(cache *redis.Client, notifier Notifier) *OrderPlacedListener {
	return &OrderPlacedListener{cache: cache, notifier: notifier}
}

// Start blocks until c is done. Events still batched at that point are
// flushed before returning.
func (l *OrderPlacedListener) Start(c context.Context, wg *sync.WaitGroup) error {
	defer wg.Done()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderPlacedListener Start").
		Str(log.KeyChannel, constants.ChannelOrderPlaced).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "subscribing").Logger()
	logger.Info().Msg("subscribing")
	sub := l.cache.Subscribe(c, constants.ChannelOrderPlaced)
	defer func() {
		if err := sub.Close(); err != nil {
			err = fmt.Errorf("failed closing subscription with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	if _, err := sub.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed")

	logger = logger.With().Str(log.KeyProcess, "listening").Logger()
	messages := sub.Channel()
	tick := time.NewTicker(flushInterval)
	defer tick.Stop()
	batch := make([]event.OrderPlaced, 0, maxBatch)

	for {
		select {
		case <-c.Done():
			logger.Info().Int(log.KeyOrders, len(batch)).Msg("stopping listener")
			l.flush(context.WithoutCancel(c), batch)
			return nil
		case <-tick.C:
			if len(batch) == 0 {
				continue
			}
			l.flush(c, batch)
			batch = batch[:0]
		case msg, ok := <-messages:
			if !ok {
				l.flush(context.WithoutCancel(c), batch)
				return fmt.Errorf("subscription to channel=%s closed", constants.ChannelOrderPlaced)
			}
			placed := event.OrderPlaced{}
			if err := json.Unmarshal([]byte(msg.Payload), &placed); err != nil {
				metric.Notifications.WithLabelValues(metric.OutcomeMalformed).Inc()
				err = fmt.Errorf("failed decoding payload=%s with error=%w", msg.Payload, err)
				logger.Error().Err(err).Msg(err.Error())
				continue
			}
			logger.Trace().Int64(log.KeyOrderID, placed.OrderID).Msg("received order placed")
			batch = append(batch, placed)
			if len(batch) >= maxBatch {
				l.flush(c, batch)
				batch = batch[:0]
			}
		}
	}
}

func (l *OrderPlacedListener) flush(c context.Context, batch []event.OrderPlaced) {
	if len(batch) == 0 {
		return
	}

	requestID := uuid.NewString()
	c = log.AttachRequestIDToContext(c, requestID)
	c, span := otel.Tracer.Start(c, "OrderPlacedListener flush")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderPlacedListener flush").
		Str(log.KeyProcess, "notifying").
		Str(log.KeyRequestID, requestID).
		Int(log.KeyOrders, len(batch)).
		Logger()

	logger.Info().Msg("notifying")
	c = logger.WithContext(c)
	if err := l.notifier.Notify(c, batch); err != nil {
		metric.Notifications.WithLabelValues(metric.OutcomeFailed).Add(float64(len(batch)))
		err = fmt.Errorf("failed notifying with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	metric.Notifications.WithLabelValues(metric.OutcomeDelivered).Add(float64(len(batch)))
	logger.Info().Msg("notified")
}

// LogNotifier writes one structured log line per event.
type LogNotifier struct{}

func (LogNotifier) Notify(c context.Context, events []event.OrderPlaced) error {
	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "LogNotifier Notify").Logger()
	for _, e := range events {
		logger.Info().
			Int64(log.KeyOrderID, e.OrderID).
			Str(log.KeyUserID, e.UserID.String()).
			Int64(log.KeyRestaurantID, e.RestaurantID).
			Str(log.KeyTotalPrice, e.TotalPrice.StringFixed(2)).
			Time("createdAt", e.CreatedAt).
			Msgf("order %d placed for %s", e.OrderID, e.TotalPrice.StringFixed(2))
	}
	return nil
}
