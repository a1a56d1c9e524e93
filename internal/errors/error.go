package errors

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrBadRequest         = errors.New("bad request")
	ErrNotFound           = errors.New("not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMixedRestaurants   = errors.New("cart contains items from more than one restaurant")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrEmailExist         = errors.New("email already exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUpstream           = errors.New("upstream unavailable")
)

var taxonomy = []struct {
	err    error
	status int
}{
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrTokenInvalid, http.StatusUnauthorized},
	{ErrBadRequest, http.StatusBadRequest},
	{ErrEmptyCart, http.StatusBadRequest},
	{ErrEmailExist, http.StatusBadRequest},
	{ErrInvalidCredentials, http.StatusBadRequest},
	{ErrNotFound, http.StatusNotFound},
	{ErrMixedRestaurants, http.StatusConflict},
	{ErrStoreUnavailable, http.StatusServiceUnavailable},
	{ErrUpstream, http.StatusBadGateway},
}

// HTTPStatus maps err to the status of the first sentinel it wraps.
// Anything outside the taxonomy is an internal server error.
func HTTPStatus(err error) int {
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.status
		}
	}
	return http.StatusInternalServerError
}

// Message returns the client facing message for err. Wrapped details never
// leave the process.
func Message(err error) string {
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.err.Error()
		}
	}
	return "internal server error"
}

// Storage classifies a database failure. A missing row is ErrNotFound, a
// constraint violation caused by caller input is ErrBadRequest and anything
// else is ErrStoreUnavailable.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Join(err, ErrNotFound)
	}
	pgErr := &pgconn.PgError{}
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation, codeCheckViolation:
			return errors.Join(err, ErrBadRequest)
		}
	}
	return errors.Join(err, ErrStoreUnavailable)
}
