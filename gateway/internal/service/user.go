package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/fooddelivery/gateway/internal/otel"
	"github.com/Alturino/fooddelivery/gateway/pkg/request"
	"github.com/Alturino/fooddelivery/gateway/pkg/response"
	"github.com/Alturino/fooddelivery/internal/auth"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/log"
	inOtel "github.com/Alturino/fooddelivery/internal/otel"
	"github.com/Alturino/fooddelivery/internal/repository"
)

const codeUniqueViolation = "23505"

type UserService struct {
	queries   *repository.Queries
	secretKey string
	now       func() time.Time
}

func NewUserService(queries *repository.Queries, secretKey string) *UserService {
	return &UserService{queries: queries, secretKey: secretKey, now: time.Now}
}

// Register stores a new user with a bcrypt hashed password and signs a token
// for it. Emails are compared case-insensitively.
func (u *UserService) Register(c context.Context, param request.Register) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", errors.Join(err, inErrors.ErrBadRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting user").Logger()
	logger.Info().Msg("inserting user")
	user, err := u.queries.InsertUser(c, repository.InsertUserParams{
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			err = fmt.Errorf("failed inserting user with error=%w", errors.Join(err, inErrors.ErrEmailExist))
		} else {
			err = fmt.Errorf("failed inserting user with error=%w", inErrors.Storage(err))
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("inserted user")

	c = logger.WithContext(c)
	return u.session(c, user)
}

// Login checks the password against the stored hash. An unknown email and a
// wrong password fail the same way.
func (u *UserService) Login(c context.Context, param request.Login) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user").Logger()
	logger.Info().Msg("finding user")
	user, err := u.queries.FindUserByEmail(c, email)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding user with error=%w", inErrors.ErrInvalidCredentials)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding user with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("found user")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Info().Msg("verifying password")
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(param.Password))
	if err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", errors.Join(err, inErrors.ErrInvalidCredentials))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("verified password")

	c = logger.WithContext(c)
	return u.session(c, user)
}

// FindUser resolves a token subject to the stored user.
func (u *UserService) FindUser(c context.Context, userId uuid.UUID) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService FindUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService FindUser").
		Str(log.KeyProcess, "finding user").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger.Info().Msg("finding user")
	user, err := u.queries.FindUserById(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding user with error=%w", inErrors.Storage(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("found user")

	return user.Response(), nil
}

func (u *UserService) session(c context.Context, user repository.User) (response.Session, error) {
	token, err := auth.IssueToken(c, u.secretKey, user.ID, u.now())
	if err != nil {
		return response.Session{}, fmt.Errorf("failed issuing token with error=%w", err)
	}
	return response.Session{User: user.Response(), Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
