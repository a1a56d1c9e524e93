package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/fooddelivery/cart/internal/otel"
	"github.com/Alturino/fooddelivery/cart/pkg/response"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/log"
	"github.com/Alturino/fooddelivery/internal/metric"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/internal/repository"
)

type CartService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
}

func NewCartService(pool *pgxpool.Pool, queries *repository.Queries) *CartService {
	return &CartService{pool: pool, queries: queries}
}

// GetOrCreateCart returns the id of the user's cart, creating it on first
// use. Concurrent callers for the same user always observe one cart.
func (s *CartService) GetOrCreateCart(c context.Context, userId uuid.UUID) (int64, error) {
	c, span := otel.Tracer.Start(c, "CartService GetOrCreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService GetOrCreateCart").
		Str(log.KeyProcess, "upserting cart").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger.Info().Msg("upserting cart")
	cartId, err := s.queries.UpsertCart(c, userId)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	logger.Info().Int64(log.KeyCartID, cartId).Msg("upserted cart")

	return cartId, nil
}

// MergeAdd adds one unit of every id in itemIds to the user's cart. Repeated
// ids count once per occurrence. Either every unit lands or none does.
func (s *CartService) MergeAdd(c context.Context, userId uuid.UUID, itemIds []int64) error {
	c, span := otel.Tracer.Start(c, "CartService MergeAdd")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService MergeAdd").
		Str(log.KeyUserID, userId.String()).
		Ints64(log.KeyItemIDs, itemIds).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer rollback(c, tx, logger, span)
	logger.Info().Msg("initialized transaction")

	queries := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "upserting cart").Logger()
	logger.Info().Msg("upserting cart")
	cartId, err := queries.UpsertCart(c, userId)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().Int64(log.KeyCartID, cartId).Logger()
	logger.Info().Msg("upserted cart")

	logger = logger.With().Str(log.KeyProcess, "incrementing cart items").Logger()
	logger.Info().Msg("incrementing cart items")
	for _, itemId := range itemIds {
		quantity, err := queries.IncrementCartItem(
			c,
			repository.IncrementCartItemParams{CartID: cartId, ItemID: itemId},
		)
		if err != nil {
			err = fmt.Errorf("failed incrementing itemId=%d with error=%w", itemId, inErrors.Storage(err))
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Trace().Int64(log.KeyItemID, itemId).Int32(log.KeyQuantity, quantity).Msg("incremented cart item")
	}
	logger.Info().Msg("incremented cart items")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("committed transaction")

	metric.CartMutations.WithLabelValues(metric.OperationAdd).Add(float64(len(itemIds)))
	return nil
}

// Decrement removes one unit of itemId from the user's cart and deletes the
// line once it would reach zero. A missing cart or line is a no-op.
func (s *CartService) Decrement(c context.Context, userId uuid.UUID, itemId int64) error {
	c, span := otel.Tracer.Start(c, "CartService Decrement")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Decrement").
		Str(log.KeyUserID, userId.String()).
		Int64(log.KeyItemID, itemId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer rollback(c, tx, logger, span)
	logger.Info().Msg("initialized transaction")

	queries := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "locking cart").Logger()
	logger.Info().Msg("locking cart")
	cartId, err := queries.FindCartIdByUserIdForUpdate(c, userId)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Info().Msg("cart not found nothing to decrement")
		return nil
	}
	if err != nil {
		err = fmt.Errorf("failed locking cart with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().Int64(log.KeyCartID, cartId).Logger()
	logger.Info().Msg("locked cart")

	logger = logger.With().Str(log.KeyProcess, "locking cart item").Logger()
	logger.Info().Msg("locking cart item")
	key := repository.FindCartItemQuantityForUpdateParams{CartID: cartId, ItemID: itemId}
	quantity, err := queries.FindCartItemQuantityForUpdate(c, key)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Info().Msg("cart item not found nothing to decrement")
		return nil
	}
	if err != nil {
		err = fmt.Errorf("failed locking cart item with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().Int32(log.KeyQuantity, quantity).Logger()
	logger.Info().Msg("locked cart item")

	if quantity > 1 {
		logger = logger.With().Str(log.KeyProcess, "decrementing cart item").Logger()
		logger.Info().Msg("decrementing cart item")
		quantity, err = queries.DecrementCartItem(
			c,
			repository.DecrementCartItemParams{CartID: cartId, ItemID: itemId},
		)
		if err != nil {
			err = fmt.Errorf("failed decrementing cart item with error=%w", inErrors.Storage(err))
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Int32(log.KeyQuantity, quantity).Msg("decremented cart item")
	} else {
		logger = logger.With().Str(log.KeyProcess, "deleting cart item").Logger()
		logger.Info().Msg("deleting cart item")
		deleted, err := queries.DeleteCartItem(
			c,
			repository.DeleteCartItemParams{CartID: cartId, ItemID: itemId},
		)
		if err != nil {
			err = fmt.Errorf("failed deleting cart item with error=%w", inErrors.Storage(err))
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Int64(log.KeyDeletedCount, deleted).Msg("deleted cart item")
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("committed transaction")

	metric.CartMutations.WithLabelValues(metric.OperationDecrement).Inc()
	return nil
}

// ListCart returns the user's cart lines with current catalog details. A user
// without a cart has an empty one.
func (s *CartService) ListCart(c context.Context, userId uuid.UUID) ([]response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService ListCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ListCart").
		Str(log.KeyProcess, "finding cart items").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger.Info().Msg("finding cart items")
	rows, err := s.queries.FindCartItemsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	cartItems := make([]response.CartItem, 0, len(rows))
	for _, row := range rows {
		cartItems = append(cartItems, row.Response())
	}
	logger.Info().Int(log.KeyCartItemCount, len(cartItems)).Msg("found cart items")

	return cartItems, nil
}

func rollback(c context.Context, tx pgx.Tx, logger zerolog.Logger, span trace.Span) {
	logger = logger.With().Str(log.KeyProcess, "rolling back transaction").Logger()
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
}
