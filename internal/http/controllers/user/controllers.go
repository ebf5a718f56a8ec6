// Package user contiene los controllers de /api/user.
package user

import (
	"net/http"

	"go.uber.org/zap"

	httperrors "github.com/dropDatabas3/hellomail/internal/http/errors"
	svc "github.com/dropDatabas3/hellomail/internal/http/services/user"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// Controllers agrupa todos los controllers del dominio user.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Profile  *ProfileController
}

// NewControllers crea el agregador de controllers user.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s.Register),
		Login:    NewLoginController(s.Login),
		Profile:  NewProfileController(s.Profile),
	}
}

// ─── Helpers ───

// handleError traduce err y lo escribe. Los 5xx se loguean como error.
func handleError(w http.ResponseWriter, log *zap.Logger, err error) {
	appErr := httperrors.FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed", logger.Err(err))
	} else {
		log.Debug("request rejected", logger.String("code", appErr.Code), logger.Err(err))
	}
	httperrors.WriteError(w, appErr)
}
