package user

import (
	"net/http"

	dto "github.com/dropDatabas3/hellomail/internal/http/dto/user"
	"github.com/dropDatabas3/hellomail/internal/http/helpers"
	mw "github.com/dropDatabas3/hellomail/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellomail/internal/http/services/user"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// ProfileController maneja /me y /settings. Requiere RequireAuth.
type ProfileController struct {
	service svc.ProfileService
}

// NewProfileController crea un nuevo controller de perfil.
func NewProfileController(service svc.ProfileService) *ProfileController {
	return &ProfileController{service: service}
}

// Me maneja GET /api/user/me
func (c *ProfileController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Me"))

	u, err := c.service.Get(ctx, mw.GetUserID(ctx))
	if err != nil {
		handleError(w, log, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ProfileFromUser(u))
}

// Settings maneja PUT /api/user/settings
func (c *ProfileController) Settings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Settings"))

	// Mapa crudo: valores que no son string se ignoran.
	var raw map[string]any
	if err := helpers.ReadJSON(w, r, &raw); err != nil {
		handleError(w, log, err)
		return
	}

	u, err := c.service.UpdateSettings(ctx, mw.GetUserID(ctx), dto.SettingsFromMap(raw))
	if err != nil {
		handleError(w, log, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ProfileFromUser(u))
}
