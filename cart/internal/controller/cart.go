package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/cart/internal/otel"
	"github.com/Alturino/fooddelivery/cart/pkg/request"
	"github.com/Alturino/fooddelivery/cart/pkg/response"
	"github.com/Alturino/fooddelivery/internal/auth"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	inHttp "github.com/Alturino/fooddelivery/internal/http"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
)

type cartService interface {
	MergeAdd(c context.Context, userId uuid.UUID, itemIds []int64) error
	Decrement(c context.Context, userId uuid.UUID, itemId int64) error
	ListCart(c context.Context, userId uuid.UUID) ([]response.CartItem, error)
}

type CartController struct {
	service  cartService
	validate *validator.Validate
}

// AttachCartController mounts the cart routes on router. Every route needs an
// authenticated caller, so router is expected to run the auth middleware.
func AttachCartController(router *mux.Router, service cartService) {
	controller := CartController{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	router.HandleFunc("/cart/add", controller.AddItems).Methods(http.MethodPost)
	router.HandleFunc("/cart", controller.ListCart).Methods(http.MethodGet)
	router.HandleFunc("/cart/items/{itemId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func (t CartController) AddItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItems").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId").Logger()
	logger.Info().Msg("getting userId")
	userId, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()
	logger.Info().Msg("got userId")

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.AddItems{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(err, inErrors.ErrBadRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := t.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", errors.Join(err, inErrors.ErrBadRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Ints64(log.KeyItemIDs, reqBody.ItemIds).Logger()
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "adding items to cart").Logger()
	logger.Info().Msg("adding items to cart")
	c = logger.WithContext(c)
	if err := t.service.MergeAdd(c, userId, reqBody.ItemIds); err != nil {
		err = fmt.Errorf("failed adding items to cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added items to cart")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"message": "Items added to cart successfully",
	})
}

func (t CartController) ListCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ListCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ListCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId").Logger()
	logger.Info().Msg("getting userId")
	userId, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()
	logger.Info().Msg("got userId")

	logger = logger.With().Str(log.KeyProcess, "listing cart").Logger()
	logger.Info().Msg("listing cart")
	c = logger.WithContext(c)
	cartItems, err := t.service.ListCart(c, userId)
	if err != nil {
		err = fmt.Errorf("failed listing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int(log.KeyCartItemCount, len(cartItems)).Msg("listed cart")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"cartItems": cartItems,
	})
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Any(log.KeyPathValues, mux.Vars(r)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId").Logger()
	logger.Info().Msg("getting userId")
	userId, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()
	logger.Info().Msg("got userId")

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

	logger = logger.With().Str(log.KeyProcess, "removing item from cart").Logger()
	logger.Info().Msg("removing item from cart")
	c = logger.WithContext(c)
	if err := t.service.Decrement(c, userId, itemId); err != nil {
		err = fmt.Errorf("failed removing itemId=%d from cart with error=%w", itemId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("removed item from cart")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"message": "Item removed from cart successfully",
	})
}
