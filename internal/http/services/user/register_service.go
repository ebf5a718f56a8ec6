package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	dto "github.com/dropDatabas3/hellomail/internal/http/dto/user"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
	"github.com/dropDatabas3/hellomail/internal/security/password"
)

// RegisterService crea cuentas nuevas.
type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*repository.User, error)
}

type registerService struct {
	deps Deps
}

// NewRegisterService crea el service de registro.
func NewRegisterService(d Deps) RegisterService {
	return &registerService{deps: d}
}

func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user.register"),
		logger.Op("Register"),
	)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = repository.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := password.Hash(in.Password, s.deps.BcryptCost)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, err
	}

	u, err := s.deps.Users.Create(ctx, repository.CreateUserInput{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if repository.IsEmailTaken(err) {
			log.Debug("email already registered")
			return nil, err
		}
		log.Error("user creation failed", logger.Err(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info("user registered", logger.UserID(u.ID))
	return u, nil
}
