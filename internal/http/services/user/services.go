// Package user contiene los services de cuenta: registro, login, perfil y
// configuración de envío.
package user

import (
	"errors"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	"github.com/dropDatabas3/hellomail/internal/jwt"
)

// Errores sentinel del dominio user.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoValidFields      = errors.New("no valid fields to update")
)

// Deps contiene las dependencias de los services de user.
type Deps struct {
	Users      repository.UserRepository
	Issuer     *jwt.Issuer
	BcryptCost int
}

// Services agrupa los services del dominio user.
type Services struct {
	Register RegisterService
	Login    LoginService
	Profile  ProfileService
}

// NewServices crea el agregador.
func NewServices(d Deps) Services {
	return Services{
		Register: NewRegisterService(d),
		Login:    NewLoginService(d),
		Profile:  NewProfileService(d),
	}
}
