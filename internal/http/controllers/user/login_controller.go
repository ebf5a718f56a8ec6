package user

import (
	"net/http"

	dto "github.com/dropDatabas3/hellomail/internal/http/dto/user"
	"github.com/dropDatabas3/hellomail/internal/http/helpers"
	svc "github.com/dropDatabas3/hellomail/internal/http/services/user"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// LoginController maneja el login por email y password.
type LoginController struct {
	service svc.LoginService
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /api/user/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		handleError(w, log, err)
		return
	}

	token, exp, err := c.service.Login(ctx, req)
	if err != nil {
		handleError(w, log, err)
		return
	}

	w.Header().Set("Pragma", "no-cache")
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: exp.Unix()})
}
