package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/fooddelivery/gateway/internal/otel"
	"github.com/Alturino/fooddelivery/gateway/pkg/request"
	"github.com/Alturino/fooddelivery/gateway/pkg/response"
	"github.com/Alturino/fooddelivery/internal/auth"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	inHttp "github.com/Alturino/fooddelivery/internal/http"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
)

type userService interface {
	Register(c context.Context, param request.Register) (response.Session, error)
	Login(c context.Context, param request.Login) (response.Session, error)
	FindUser(c context.Context, userId uuid.UUID) (response.User, error)
}

type sessionService interface {
	Revoke(c context.Context, token string, expiresAt time.Time) error
	IsRevoked(c context.Context, token string) (bool, error)
}

type UserController struct {
	users     userService
	sessions  sessionService
	secretKey string
	validate  *validator.Validate
}

func AttachUserController(
	router *mux.Router,
	secretKey string,
	users userService,
	sessions sessionService,
) {
	controller := UserController{
		users:     users,
		sessions:  sessions,
		secretKey: secretKey,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}

	router.HandleFunc("/register", controller.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	router.HandleFunc("/check_login", controller.CheckLogin).Methods(http.MethodGet)
	router.HandleFunc("/logout", controller.Logout).Methods(http.MethodPost)
}

func (u UserController) Register(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController Register").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Register{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(err, inErrors.ErrBadRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := u.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", errors.Join(err, inErrors.ErrBadRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "registering user").Logger()
	logger.Info().Msg("registering user")
	c = logger.WithContext(c)
	session, err := u.users.Register(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed registering user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyUserID, session.User.ID.String()).Msg("registered user")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"message": "User registered successfully",
		"user":    session.User,
		"token":   session.Token,
	})
}

func (u UserController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController Login").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Login{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(err, inErrors.ErrBadRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := u.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", errors.Join(err, inErrors.ErrBadRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Info().Msg("logging in")
	c = logger.WithContext(c)
	session, err := u.users.Login(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyUserID, session.User.ID.String()).Msg("logged in")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"message": "Logged in successfully",
		"user":    session.User,
		"token":   session.Token,
	})
}

// CheckLogin never fails. Any problem with the token reads as logged out.
func (u UserController) CheckLogin(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController CheckLogin")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController CheckLogin").
		Str(log.KeyProcess, "checking login").
		Logger()

	logger.Info().Msg("checking login")
	c = logger.WithContext(c)
	token, _, err := u.verify(c, r)
	if err != nil {
		logger.Info().Err(err).Msg("not logged in")
		inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{"loggedIn": false})
		return
	}

	userId, err := auth.UserIdFromToken(token)
	if err != nil {
		logger.Info().Err(err).Msg("not logged in")
		inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{"loggedIn": false})
		return
	}
	user, err := u.users.FindUser(c, userId)
	if err != nil {
		logger.Info().Err(err).Msg("not logged in")
		inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{"loggedIn": false})
		return
	}
	logger.Info().Str(log.KeyUserID, userId.String()).Msg("checked login")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"loggedIn": true,
		"user":     user,
	})
}

func (u UserController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController Logout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "verifying token").Logger()
	logger.Info().Msg("verifying token")
	c = logger.WithContext(c)
	token, raw, err := u.verify(c, r)
	if err != nil {
		err = fmt.Errorf("failed verifying token with error=%w", errors.Join(err, inErrors.ErrUnauthorized))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	claims, err := auth.Claims(token)
	if err != nil || claims.ExpiresAt == nil {
		err = fmt.Errorf("failed reading claims with error=%w", inErrors.ErrUnauthorized)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("verified token")

	logger = logger.With().Str(log.KeyProcess, "revoking token").Logger()
	logger.Info().Msg("revoking token")
	c = logger.WithContext(c)
	if err := u.sessions.Revoke(c, raw, claims.ExpiresAt.Time); err != nil {
		err = fmt.Errorf("failed revoking token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("revoked token")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, map[string]string{}, map[string]any{
		"message": "Logged out successfully",
	})
}

// verify returns the parsed and raw bearer token of r when it is valid and
// was not logged out.
func (u UserController) verify(c context.Context, r *http.Request) (*jwt.Token, string, error) {
	raw, found := inHttp.BearerToken(r)
	if !found {
		return nil, "", inErrors.ErrUnauthorized
	}
	token, err := auth.VerifyToken(c, u.secretKey, raw)
	if err != nil {
		return nil, "", err
	}
	revoked, err := u.sessions.IsRevoked(c, raw)
	if err != nil {
		return nil, "", err
	}
	if revoked {
		return nil, "", inErrors.ErrTokenInvalid
	}
	return token, raw, nil
}
