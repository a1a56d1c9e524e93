package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/fooddelivery/gateway/internal/otel"
	"github.com/Alturino/fooddelivery/internal/config"
	"github.com/Alturino/fooddelivery/internal/constants"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	inHttp "github.com/Alturino/fooddelivery/internal/http"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
)

type revocationChecker interface {
	IsRevoked(c context.Context, token string) (bool, error)
}

// New builds a reverse proxy to upstream. The request id and authorization
// header travel with the request and an unreachable upstream answers 502.
// The gateway owns the request id header of the response.
func New(name string, upstream string) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("failed parsing upstream=%s url=%s with error=%w", name, upstream, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream=%s url=%s must be absolute", name, upstream)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			if requestId := log.RequestIDFromContext(r.In.Context()); requestId != "" {
				r.Out.Header.Set(constants.HeaderRequestID, requestId)
			}
		},
		ModifyResponse: func(res *http.Response) error {
			res.Header.Del(constants.HeaderRequestID)
			return nil
		},
		Transport: otelhttp.NewTransport(
			http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return fmt.Sprintf("proxy %s %s", name, r.Method)
			}),
		),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			c, span := otel.Tracer.Start(r.Context(), "proxy ErrorHandler")
			defer span.End()

			logger := zerolog.Ctx(c).
				With().
				Str(log.KeyTag, "proxy ErrorHandler").
				Str(log.KeyProcess, "proxying request").
				Str(log.KeyUpstream, name).
				Logger()

			err = fmt.Errorf("failed proxying to upstream=%s with error=%w", name, errors.Join(err, inErrors.ErrUpstream))
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteErrorResponse(c, w, err)
		},
	}, nil
}

// Attach mounts a proxy for every upstream on router. Paths are matched on
// their first segment so /cart and /cart/add both go to the cart service.
func Attach(router *mux.Router, upstream config.Upstream, sessions revocationChecker) error {
	routes := []struct {
		name     string
		url      string
		prefixes []string
	}{
		{name: constants.AppCatalogService, url: upstream.Catalog, prefixes: []string{"/restaurants", "/items"}},
		{name: constants.AppCartService, url: upstream.Cart, prefixes: []string{"/cart"}},
		{name: constants.AppOrderService, url: upstream.Order, prefixes: []string{"/order"}},
		{name: constants.AppTrackingService, url: upstream.Tracking, prefixes: []string{"/orders"}},
	}

	proxied := router.NewRoute().Subrouter()
	proxied.Use(RejectRevoked(sessions))
	for _, route := range routes {
		p, err := New(route.name, route.url)
		if err != nil {
			return err
		}
		for _, prefix := range route.prefixes {
			proxied.Path(prefix).Handler(p)
			proxied.PathPrefix(prefix + "/").Handler(p)
		}
	}
	return nil
}

// RejectRevoked stops requests carrying a logged out bearer token before they
// reach an upstream. Token verification itself stays with the upstream.
func RejectRevoked(sessions revocationChecker) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := inHttp.BearerToken(r)
			if !found {
				next.ServeHTTP(w, r)
				return
			}

			c, span := otel.Tracer.Start(r.Context(), "proxy RejectRevoked")
			logger := zerolog.Ctx(c).
				With().
				Str(log.KeyTag, "proxy RejectRevoked").
				Str(log.KeyProcess, "checking revoked token").
				Logger()

			revoked, err := sessions.IsRevoked(c, token)
			if err != nil {
				logger.Warn().Err(err).Msg("failed checking revoked token letting upstream verify")
			}
			if revoked {
				err = fmt.Errorf("token was logged out with error=%w", inErrors.ErrUnauthorized)
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, err)
				span.End()
				return
			}
			span.End()

			next.ServeHTTP(w, r)
		})
	}
}
