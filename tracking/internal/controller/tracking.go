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
	"github.com/Alturino/fooddelivery/tracking/internal/otel"
	"github.com/Alturino/fooddelivery/tracking/pkg/response"
)

type trackingService interface {
	ListOrders(c context.Context, userId uuid.UUID) ([]response.Order, error)
	GetOrder(c context.Context, userId uuid.UUID, orderId int64) (response.OrderDetail, error)
	TimeLeft(c context.Context, orderId int64) (string, error)
}

type TrackingController struct {
	service trackingService
}

// AttachTrackingController mounts the tracking routes. Time left is public,
// the rest go through authMiddleware.
func AttachTrackingController(router *mux.Router, authMiddleware mux.MiddlewareFunc, service trackingService) {
	controller := TrackingController{service: service}

	router.HandleFunc("/orders/time-left/{orderId}", controller.TimeLeft).Methods(http.MethodGet)

	authRouter := router.NewRoute().Subrouter()
	authRouter.Use(authMiddleware)
	authRouter.HandleFunc("/orders", controller.ListOrders).Methods(http.MethodGet)
	authRouter.HandleFunc("/orders/{orderId}", controller.GetOrder).Methods(http.MethodGet)
}

func (t TrackingController) ListOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "TrackingController ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TrackingController ListOrders").
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

	logger = logger.With().Str(log.KeyProcess, "listing orders").Logger()
	logger.Info().Msg("listing orders")
	c = logger.WithContext(c)
	orders, err := t.service.ListOrders(c, userId)
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("listed orders")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"orders": orders,
	})
}

func (t TrackingController) GetOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "TrackingController GetOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TrackingController GetOrder").
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

	logger = logger.With().Str(log.KeyProcess, "validating orderId").Logger()
	logger.Info().Msg("validating orderId")
	orderId, err := inHttp.PathInt64(r, "orderId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Int64(log.KeyOrderID, orderId).Logger()
	logger.Info().Msg("validated orderId")

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := t.service.GetOrder(c, userId, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding orderId=%d with error=%w", orderId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"order": order,
	})
}

func (t TrackingController) TimeLeft(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "TrackingController TimeLeft")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TrackingController TimeLeft").
		Any(log.KeyPathValues, mux.Vars(r)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating orderId").Logger()
	logger.Info().Msg("validating orderId")
	orderId, err := inHttp.PathInt64(r, "orderId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Int64(log.KeyOrderID, orderId).Logger()
	logger.Info().Msg("validated orderId")

	logger = logger.With().Str(log.KeyProcess, "computing time left").Logger()
	logger.Info().Msg("computing time left")
	c = logger.WithContext(c)
	timeLeft, err := t.service.TimeLeft(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed computing time left of orderId=%d with error=%w", orderId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyTimeLeft, timeLeft).Msg("computed time left")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"time_left": timeLeft,
	})
}
