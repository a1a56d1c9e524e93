package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/catalog/internal/otel"
	"github.com/Alturino/fooddelivery/catalog/pkg/response"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/internal/repository"
)

const (
	keyItem = "catalog:items:%d"
	itemTTL = 10 * time.Minute
)

type CatalogService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewCatalogService(queries *repository.Queries, cache *redis.Client) *CatalogService {
	return &CatalogService{queries: queries, cache: cache}
}

// LookupItem reads an item through the redis cache. Cache failures are
// logged and the database answers instead.
func (s *CatalogService) LookupItem(c context.Context, itemId int64) (response.Item, error) {
	c, span := otel.Tracer.Start(c, "CatalogService LookupItem")
	defer span.End()

	cacheKey := fmt.Sprintf(keyItem, itemId)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService LookupItem").
		Int64(log.KeyItemID, itemId).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding item in cache").Logger()
	logger.Info().Msg("finding item in cache")
	cached, err := s.cache.Get(c, cacheKey).Bytes()
	switch {
	case err == nil:
		item := response.Item{}
		if err = json.Unmarshal(cached, &item); err == nil {
			logger.Info().Msg("found item in cache")
			return item, nil
		}
		err = fmt.Errorf("failed unmarshaling cached item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	case errors.Is(err, redis.Nil):
		logger.Info().Msg("item not found in cache")
	default:
		err = fmt.Errorf("failed finding item in cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(log.KeyProcess, "finding item in database").Logger()
	logger.Info().Msg("finding item in database")
	dbItem, err := s.queries.FindItemById(c, itemId)
	if err != nil {
		err = fmt.Errorf("failed finding itemId=%d with error=%w", itemId, inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	item := dbItem.Response()
	logger = logger.With().Any(log.KeyItem, item).Logger()
	logger.Info().Msg("found item in database")

	logger = logger.With().Str(log.KeyProcess, "caching item").Logger()
	logger.Info().Msg("caching item")
	encoded, err := json.Marshal(item)
	if err == nil {
		err = s.cache.Set(c, cacheKey, encoded, itemTTL).Err()
	}
	if err != nil {
		err = fmt.Errorf("failed caching item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return item, nil
	}
	logger.Info().Msg("cached item")

	return item, nil
}

func (s *CatalogService) ListRestaurants(c context.Context) ([]response.Restaurant, error) {
	c, span := otel.Tracer.Start(c, "CatalogService ListRestaurants")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService ListRestaurants").
		Str(log.KeyProcess, "finding restaurants").
		Logger()

	logger.Info().Msg("finding restaurants")
	restaurants, err := s.queries.FindRestaurants(c)
	if err != nil {
		err = fmt.Errorf("failed finding restaurants with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	res := make([]response.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		res = append(res, r.Response())
	}
	logger.Info().Int(log.KeyRestaurants, len(res)).Msg("found restaurants")

	return res, nil
}

// ListMenu returns the items of one restaurant. An unknown restaurant has an
// empty menu.
func (s *CatalogService) ListMenu(c context.Context, restaurantId int64) ([]response.Item, error) {
	c, span := otel.Tracer.Start(c, "CatalogService ListMenu")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService ListMenu").
		Str(log.KeyProcess, "finding items by restaurantId").
		Int64(log.KeyRestaurantID, restaurantId).
		Logger()

	logger.Info().Msg("finding items by restaurantId")
	items, err := s.queries.FindItemsByRestaurantId(c, restaurantId)
	if err != nil {
		err = fmt.Errorf(
			"failed finding items by restaurantId=%d with error=%w",
			restaurantId,
			inErrors.Storage(err),
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	res := make([]response.Item, 0, len(items))
	for _, i := range items {
		res = append(res, i.Response())
	}
	logger.Info().Int(log.KeyItems, len(res)).Msg("found items by restaurantId")

	return res, nil
}
