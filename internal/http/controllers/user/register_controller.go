package user

import (
	"net/http"

	dto "github.com/dropDatabas3/hellomail/internal/http/dto/user"
	"github.com/dropDatabas3/hellomail/internal/http/helpers"
	svc "github.com/dropDatabas3/hellomail/internal/http/services/user"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// RegisterController maneja el alta de usuarios.
type RegisterController struct {
	service svc.RegisterService
}

// NewRegisterController crea un nuevo controller de registro.
func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register maneja POST /api/user/register
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		handleError(w, log, err)
		return
	}

	u, err := c.service.Register(ctx, req)
	if err != nil {
		handleError(w, log, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{Message: "User registered", ID: u.ID})
}
