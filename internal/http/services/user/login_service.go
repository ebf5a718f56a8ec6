package user

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	dto "github.com/dropDatabas3/hellomail/internal/http/dto/user"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
	"github.com/dropDatabas3/hellomail/internal/security/password"
)

// LoginService valida credenciales y emite el token de sesión.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (token string, expiresAt time.Time, err error)
}

type loginService struct {
	deps Deps
}

// NewLoginService crea el service de login.
func NewLoginService(d Deps) LoginService {
	return &loginService{deps: d}
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (string, time.Time, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user.login"),
		logger.Op("Login"),
	)

	email := repository.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", time.Time{}, ErrMissingFields
	}

	u, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("unknown email")
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}

	if !password.Verify(in.Password, u.PasswordHash) {
		log.Debug("password mismatch", logger.UserID(u.ID))
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.deps.Issuer.Sign(u.ID, u.Email)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return "", time.Time{}, err
	}

	log.Info("user logged in", logger.UserID(u.ID))
	return token, exp, nil
}
