package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/fooddelivery/internal/constants"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/log"
	"github.com/Alturino/fooddelivery/internal/metric"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/order/internal/otel"
	"github.com/Alturino/fooddelivery/order/pkg/event"
	"github.com/Alturino/fooddelivery/order/pkg/response"
)

type OrderService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) *OrderService {
	return &OrderService{pool: pool, queries: queries, cache: cache}
}

// PlaceOrder turns the user's cart into an order in one transaction. The
// order keeps the unit price of every line as it was at checkout and the cart
// is left empty. On any failure nothing is written.
func (s *OrderService) PlaceOrder(c context.Context, userId uuid.UUID) (response.PlacedOrder, error) {
	c, span := otel.Tracer.Start(c, "OrderService PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService PlaceOrder").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", inErrors.Storage(err))
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonStorage, err)
	}
	defer func() {
		logger := logger.With().Str(log.KeyProcess, "rolling back transaction").Logger()
		err := tx.Rollback(c)
		if err != nil {
			if errors.Is(err, pgx.ErrTxClosed) {
				return
			}
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("rolled back transaction")
	}()
	logger.Info().Msg("initialized transaction")

	queries := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "locking cart").Logger()
	logger.Info().Msg("locking cart")
	cartId, err := queries.FindCartIdByUserIdForUpdate(c, userId)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed locking cart with error=%w", inErrors.ErrEmptyCart)
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonEmptyCart, err)
	}
	if err != nil {
		err = fmt.Errorf("failed locking cart with error=%w", inErrors.Storage(err))
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonStorage, err)
	}
	logger = logger.With().Int64(log.KeyCartID, cartId).Logger()
	logger.Info().Msg("locked cart")

	logger = logger.With().Str(log.KeyProcess, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	lines, err := queries.FindCartItemsForCheckout(c, cartId)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", inErrors.Storage(err))
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonStorage, err)
	}
	if len(lines) == 0 {
		err = fmt.Errorf("cartId=%d has no items with error=%w", cartId, inErrors.ErrEmptyCart)
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonEmptyCart, err)
	}
	logger = logger.With().Int(log.KeyCartItemCount, len(lines)).Logger()
	logger.Info().Msg("found cart items")

	logger = logger.With().Str(log.KeyProcess, "pricing order").Logger()
	logger.Info().Msg("pricing order")
	restaurantId := lines[0].RestaurantID
	total := decimal.Zero
	orderItems := make([]repository.InsertOrderItemsParams, len(lines))
	for i, line := range lines {
		if line.RestaurantID != restaurantId {
			err = fmt.Errorf(
				"itemId=%d belongs to restaurantId=%d not restaurantId=%d with error=%w",
				line.ItemID,
				line.RestaurantID,
				restaurantId,
				inErrors.ErrMixedRestaurants,
			)
			return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonMixedRestaurants, err)
		}
		price := repository.NumericToDecimal(line.Price)
		total = total.Add(price.Mul(decimal.NewFromInt32(line.Quantity)))
		orderItems[i] = repository.InsertOrderItemsParams{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
	}
	logger = logger.With().
		Int64(log.KeyRestaurantID, restaurantId).
		Str(log.KeyTotalPrice, total.StringFixed(2)).
		Logger()
	logger.Info().Msg("priced order")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, err := queries.InsertOrder(c, repository.InsertOrderParams{
		UserID:       userId,
		RestaurantID: restaurantId,
		TotalPrice:   repository.DecimalToNumeric(total),
		Status:       repository.OrderStatusPending,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", inErrors.Storage(err))
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonStorage, err)
	}
	logger = logger.With().Int64(log.KeyOrderID, order.ID).Logger()
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
	logger.Info().Msg("inserting order items")
	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	inserted, err := queries.InsertOrderItems(c, orderItems)
	if err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", inErrors.Storage(err))
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonStorage, err)
	}
	logger.Info().Int64(log.KeyInsertedCount, inserted).Msg("inserted order items")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	deleted, err := queries.DeleteCartItemsByCartId(c, cartId)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", inErrors.Storage(err))
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonStorage, err)
	}
	logger.Info().Int64(log.KeyDeletedCount, deleted).Msg("cleared cart")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", inErrors.Storage(err))
		return response.PlacedOrder{}, s.fail(logger, span, metric.ReasonStorage, err)
	}
	logger.Info().Msg("committed transaction")

	placed := order.Response()
	metric.OrdersPlaced.Inc()
	metric.OrderTotalPrice.Observe(total.InexactFloat64())

	c = logger.WithContext(c)
	s.publishOrderPlaced(c, placed)

	return placed, nil
}

// publishOrderPlaced announces a committed order. Delivery is best effort and
// a failure never affects the order. The caller going away after commit does
// not cancel it.
func (s *OrderService) publishOrderPlaced(c context.Context, order response.PlacedOrder) {
	c, span := otel.Tracer.Start(context.WithoutCancel(c), "OrderService publishOrderPlaced")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService publishOrderPlaced").
		Str(log.KeyProcess, "publishing order placed").
		Str(log.KeyChannel, constants.ChannelOrderPlaced).
		Logger()

	if s.cache == nil {
		logger.Warn().Msg("no cache configured skipping order placed event")
		return
	}

	logger.Info().Msg("publishing order placed")
	payload, err := json.Marshal(event.NewOrderPlaced(order))
	if err == nil {
		err = s.cache.Publish(c, constants.ChannelOrderPlaced, payload).Err()
	}
	if err != nil {
		err = fmt.Errorf("failed publishing order placed with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("published order placed")
}

func (s *OrderService) fail(logger zerolog.Logger, span trace.Span, reason string, err error) error {
	metric.CheckoutFailures.WithLabelValues(reason).Inc()
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return err
}
