// Package mail contiene los controllers de /api/mail.
package mail

import (
	"net/http"

	"go.uber.org/zap"

	httperrors "github.com/dropDatabas3/hellomail/internal/http/errors"
	svc "github.com/dropDatabas3/hellomail/internal/http/services/mail"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// Controllers agrupa todos los controllers del dominio mail.
type Controllers struct {
	Send    *SendController
	History *HistoryController
}

// NewControllers crea el agregador de controllers mail.
func NewControllers(s svc.Services, limits Limits) *Controllers {
	return &Controllers{
		Send:    NewSendController(s.Dispatch, limits),
		History: NewHistoryController(s.History),
	}
}

// ─── Helpers ───

func handleError(w http.ResponseWriter, log *zap.Logger, err error) {
	appErr := httperrors.FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed", logger.String("code", appErr.Code), logger.Err(err))
	} else {
		log.Debug("request rejected", logger.String("code", appErr.Code), logger.Err(err))
	}
	httperrors.WriteError(w, appErr)
}
