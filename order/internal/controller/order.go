package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/internal/auth"
	inHttp "github.com/Alturino/fooddelivery/internal/http"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/order/internal/otel"
	"github.com/Alturino/fooddelivery/order/pkg/response"
)

type orderService interface {
	PlaceOrder(c context.Context, userId uuid.UUID) (response.PlacedOrder, error)
}

type OrderController struct {
	service orderService
}

func AttachOrderController(router *mux.Router, service orderService) {
	controller := OrderController{service: service}

	router.HandleFunc("/order", controller.PlaceOrder).Methods(http.MethodPost)
}

func (t OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController PlaceOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController PlaceOrder").
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

	logger = logger.With().Str(log.KeyProcess, "placing order").Logger()
	logger.Info().Msg("placing order")
	c = logger.WithContext(c)
	order, err := t.service.PlaceOrder(c, userId)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int64(log.KeyOrderID, order.ID).Msg("placed order")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"message":  "Order placed successfully",
		"order_id": order.ID,
	})
}
