package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/catalog/internal/otel"
	"github.com/Alturino/fooddelivery/catalog/pkg/response"
	inHttp "github.com/Alturino/fooddelivery/internal/http"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
)

type catalogService interface {
	LookupItem(c context.Context, itemId int64) (response.Item, error)
	ListRestaurants(c context.Context) ([]response.Restaurant, error)
	ListMenu(c context.Context, restaurantId int64) ([]response.Item, error)
}

type CatalogController struct {
	service catalogService
}

func AttachCatalogController(router *mux.Router, service catalogService) {
	controller := CatalogController{service: service}

	router.HandleFunc("/restaurants", controller.ListRestaurants).Methods(http.MethodGet)
	router.HandleFunc("/restaurants/{restaurantId}/items", controller.ListMenu).Methods(http.MethodGet)
	router.HandleFunc("/items/{itemId}", controller.LookupItem).Methods(http.MethodGet)
}

func (t CatalogController) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController ListRestaurants")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController ListRestaurants").
		Str(log.KeyProcess, "finding restaurants").
		Logger()

	logger.Info().Msg("finding restaurants")
	c = logger.WithContext(c)
	restaurants, err := t.service.ListRestaurants(c)
	if err != nil {
		err = fmt.Errorf("failed finding restaurants with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found restaurants")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"restaurants": restaurants,
	})
}

func (t CatalogController) ListMenu(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController ListMenu")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController ListMenu").
		Any(log.KeyPathValues, mux.Vars(r)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating restaurantId").Logger()
	logger.Info().Msg("validating restaurantId")
	restaurantId, err := inHttp.PathInt64(r, "restaurantId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Int64(log.KeyRestaurantID, restaurantId).Logger()
	logger.Info().Msg("validated restaurantId")

	logger = logger.With().Str(log.KeyProcess, "finding menu").Logger()
	logger.Info().Msg("finding menu")
	c = logger.WithContext(c)
	items, err := t.service.ListMenu(c, restaurantId)
	if err != nil {
		err = fmt.Errorf("failed finding menu of restaurantId=%d with error=%w", restaurantId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found menu")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"items": items,
	})
}

func (t CatalogController) LookupItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController LookupItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController LookupItem").
		Any(log.KeyPathValues, mux.Vars(r)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating itemId").Logger()
	logger.Info().Msg("validating itemId")
	itemId, err := inHttp.PathInt64(r, "itemId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Int64(log.KeyItemID, itemId).Logger()
	logger.Info().Msg("validated itemId")

	logger = logger.With().Str(log.KeyProcess, "finding item").Logger()
	logger.Info().Msg("finding item")
	c = logger.WithContext(c)
	item, err := t.service.LookupItem(c, itemId)
	if err != nil {
		err = fmt.Errorf("failed finding itemId=%d with error=%w", itemId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found item")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"item": item,
	})
}
