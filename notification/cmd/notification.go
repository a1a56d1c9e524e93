package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/fooddelivery/internal/config"
	"github.com/Alturino/fooddelivery/internal/constants"
	"github.com/Alturino/fooddelivery/internal/infra"
	"github.com/Alturino/fooddelivery/internal/log"
	"github.com/Alturino/fooddelivery/internal/middleware"
	"github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/internal/server"
	"github.com/Alturino/fooddelivery/notification/internal/listener"
	notificationOtel "github.com/Alturino/fooddelivery/notification/internal/otel"
)

func RunNotificationService(c context.Context) {
	cfg := config.Get(c, constants.AppNotificationService)

	logger := log.Get(fmt.Sprintf("/var/log/%s.log", constants.AppNotificationService), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppNotificationService).
		Str(log.KeyTag, "main RunNotificationService").
		Logger()
	c = logger.WithContext(c)

	c, span := notificationOtel.Tracer.Start(c, "RunNotificationService")
	defer span.End()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppNotificationService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.AppNotificationService), middleware.RecoverPanic, middleware.Logging)
	router.Handle("/metrics", promhttp.Handler())
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "starting listener").Logger()
	logger.Info().Msg("starting listener")
	c = logger.WithContext(c)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	orderPlacedListener := listener.NewOrderPlacedListener(cache, listener.LogNotifier{})
	listenCtx, stopListener := context.WithCancel(c)
	go func() {
		if err := orderPlacedListener.Start(listenCtx, wg); err != nil {
			err = fmt.Errorf("failed listening with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	defer func() {
		logger.Info().Msg("stopping listener")
		stopListener()
		wg.Wait()
		logger.Info().Msg("stopped listener")
	}()
	logger.Info().Msg("started listener")

	httpServer := server.New(c, cfg.Application.Host, cfg.Application.Port, router)
	if err = server.Serve(c, httpServer); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
