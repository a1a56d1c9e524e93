package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/internal/constants"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/log"
	"github.com/Alturino/fooddelivery/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	header map[string]string,
	body any,
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WriteJsonResponse").
		Int(log.KeyStatusCode, statusCode).
		Logger()

	w.Header().Set(constants.HeaderContentType, constants.ValueJson)
	for k, v := range header {
		w.Header().Add(k, v)
	}
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msgf("failed encoding response body with error=%s", err.Error())
		return
	}
}

// WriteErrorResponse writes the stable status and message err maps to.
func WriteErrorResponse(c context.Context, w http.ResponseWriter, err error) {
	WriteJsonResponse(
		c,
		w,
		inErrors.HTTPStatus(err),
		map[string]string{},
		map[string]string{"error": inErrors.Message(err)},
	)
}

// PathInt64 reads a positive integer path variable. Anything else is a bad
// request.
func PathInt64(r *http.Request, key string) (int64, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("failed parsing %s=%s with error=%w", key, raw, err), inErrors.ErrBadRequest)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s=%d must be positive with error=%w", key, id, inErrors.ErrBadRequest)
	}
	return id, nil
}

// BearerToken reads the token of an Authorization header using the bearer
// scheme.
func BearerToken(r *http.Request) (string, bool) {
	authorization := r.Header.Get(constants.HeaderAuthorization)
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found {
		token, found = strings.CutPrefix(authorization, "bearer ")
	}
	return token, found && token != ""
}
