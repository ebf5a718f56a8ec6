// Package mail contiene el dispatcher de envíos y la consulta de historial.
package mail

import (
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	"github.com/dropDatabas3/hellomail/internal/email"
	"github.com/dropDatabas3/hellomail/internal/metrics"
)

// Errores sentinel del dominio mail.
var (
	ErrMissingFields       = errors.New("recruiterEmail and subject are required")
	ErrSenderNotConfigured = errors.New("email settings not configured: set from_mail, app_password and provider")
	ErrSendFailed          = errors.New("failed to send email")
	ErrHistoryNotRecorded  = errors.New("mail history could not be recorded")
)

// SendError es un fallo del transporte SMTP. Err conserva el mensaje original.
type SendError struct {
	Provider  string
	Diagnosis string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSendFailed.Error(), e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrSendFailed).
func (e *SendError) Is(target error) bool { return target == ErrSendFailed }

// Deps contiene las dependencias de los services de mail.
type Deps struct {
	Users     repository.UserRepository
	Transport email.TransportFactory
	Metrics   *metrics.Metrics // opcional
	Now       func() time.Time // opcional, default time.Now
}

// Services agrupa los services del dominio mail.
type Services struct {
	Dispatch DispatchService
	History  HistoryService
}

// NewServices crea el agregador.
func NewServices(d Deps) Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	return Services{
		Dispatch: NewDispatchService(d),
		History:  NewHistoryService(d),
	}
}
