package mail

import (
	"net/http"

	"github.com/dropDatabas3/hellomail/internal/http/helpers"
	mw "github.com/dropDatabas3/hellomail/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellomail/internal/http/services/mail"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// HistoryController expone el historial de envíos del usuario autenticado.
type HistoryController struct {
	service svc.HistoryService
}

// NewHistoryController crea un nuevo controller de historial.
func NewHistoryController(service svc.HistoryService) *HistoryController {
	return &HistoryController{service: service}
}

// List maneja GET /api/mail/history
func (c *HistoryController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HistoryController.List"))

	entries, err := c.service.List(ctx, mw.GetUserID(ctx))
	if err != nil {
		handleError(w, log, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, entries)
}
