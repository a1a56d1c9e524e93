package cmd

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/fooddelivery/catalog/internal/controller"
	catalogOtel "github.com/Alturino/fooddelivery/catalog/internal/otel"
	"github.com/Alturino/fooddelivery/catalog/internal/service"
	"github.com/Alturino/fooddelivery/internal/config"
	"github.com/Alturino/fooddelivery/internal/constants"
	"github.com/Alturino/fooddelivery/internal/infra"
	"github.com/Alturino/fooddelivery/internal/log"
	"github.com/Alturino/fooddelivery/internal/middleware"
	"github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/internal/server"
)

func RunCatalogService(c context.Context) {
	cfg := config.Get(c, constants.AppCatalogService)

	logger := log.Get(fmt.Sprintf("/var/log/%s.log", constants.AppCatalogService), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppCatalogService).
		Str(log.KeyTag, "main RunCatalogService").
		Logger()
	c = logger.WithContext(c)

	c, span := catalogOtel.Tracer.Start(c, "RunCatalogService")
	defer span.End()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppCatalogService, cfg.Otel)
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

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger.Info().Msg("shutting down database")
		db.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

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
	router.Use(otelmux.Middleware(constants.AppCatalogService), middleware.RecoverPanic, middleware.Logging)
	router.Handle("/metrics", promhttp.Handler())
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing catalog controller").Logger()
	logger.Info().Msg("initializing catalog controller")
	catalogService := service.NewCatalogService(repository.New(db), cache)
	controller.AttachCatalogController(router, catalogService)
	logger.Info().Msg("initialized catalog controller")

	c = logger.WithContext(c)
	httpServer := server.New(c, cfg.Application.Host, cfg.Application.Port, router)
	if err = server.Serve(c, httpServer); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
