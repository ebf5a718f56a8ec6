package user

import (
	"context"
	"strings"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	dto "github.com/dropDatabas3/hellomail/internal/http/dto/user"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// ProfileService lee el perfil y actualiza la configuración de envío.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*repository.User, error)
	UpdateSettings(ctx context.Context, userID string, in dto.SettingsRequest) (*repository.User, error)
}

type profileService struct {
	deps Deps
}

// NewProfileService crea el service de perfil.
func NewProfileService(d Deps) ProfileService {
	return &profileService{deps: d}
}

func (s *profileService) Get(ctx context.Context, userID string) (*repository.User, error) {
	return s.deps.Users.GetByID(ctx, userID)
}

func (s *profileService) UpdateSettings(ctx context.Context, userID string, in dto.SettingsRequest) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user.settings"),
		logger.Op("UpdateSettings"),
		logger.UserID(userID),
	)

	upd := repository.SenderUpdate{
		FromMail:    in.FromMail,
		AppPassword: in.AppPassword,
		Provider:    in.Provider,
	}
	if upd.Empty() {
		return nil, ErrNoValidFields
	}
	if upd.FromMail != nil {
		v := strings.TrimSpace(*upd.FromMail)
		upd.FromMail = &v
	}
	if upd.Provider != nil {
		// se guarda tal cual (normalizado); Resolve decide si es soportado
		v := strings.ToLower(strings.TrimSpace(*upd.Provider))
		upd.Provider = &v
	}

	u, err := s.deps.Users.UpdateSender(ctx, userID, upd)
	if err != nil {
		return nil, err
	}

	log.Info("sender settings updated",
		logger.Bool("from_mail", upd.FromMail != nil),
		logger.Bool("app_password", upd.AppPassword != nil),
		logger.Bool("provider", upd.Provider != nil),
	)
	return u, nil
}
