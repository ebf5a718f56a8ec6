package errors

import (
	stderrors "errors"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	"github.com/dropDatabas3/hellomail/internal/email"
	mailsvc "github.com/dropDatabas3/hellomail/internal/http/services/mail"
	usersvc "github.com/dropDatabas3/hellomail/internal/http/services/user"
	"github.com/dropDatabas3/hellomail/internal/jwt"
)

// FromDomain traduce los errores de servicios, store y auth a AppError.
// Es el único lugar donde un error de dominio obtiene status HTTP.
func FromDomain(err error) *AppError {
	if err == nil {
		return ErrInternalServerError
	}

	// Envío: el detalle es el mensaje del servidor SMTP
	var sendErr *mailsvc.SendError
	if stderrors.As(err, &sendErr) {
		return ErrSendFailed.WithDetail(sendErr.Err.Error()).WithCause(err)
	}

	// El historial no grabado gana sobre la causa de store que lo envuelve
	if stderrors.Is(err, mailsvc.ErrHistoryNotRecorded) {
		return ErrInternalServerError.WithCause(err)
	}

	switch {
	case stderrors.Is(err, usersvc.ErrMissingFields),
		stderrors.Is(err, mailsvc.ErrMissingFields):
		return ErrMissingFields.WithCause(err)

	case stderrors.Is(err, usersvc.ErrNoValidFields):
		return ErrMissingFields.WithDetail("no valid fields").WithCause(err)

	case stderrors.Is(err, repository.ErrEmailTaken):
		return ErrEmailAlreadyInUse.WithCause(err)

	case stderrors.Is(err, usersvc.ErrInvalidCredentials):
		return ErrInvalidCredentials.WithCause(err)

	case stderrors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound.WithCause(err)

	case stderrors.Is(err, mailsvc.ErrSenderNotConfigured):
		return ErrEmailNotConfigured.WithCause(err)

	case stderrors.Is(err, email.ErrUnsupportedProvider):
		return ErrUnsupportedProvider.WithDetail(err.Error()).WithCause(err)

	case stderrors.Is(err, email.ErrInvalidInput):
		return ErrInvalidProviderConfig.WithDetail(err.Error()).WithCause(err)

	case stderrors.Is(err, jwt.ErrNoSecret):
		return ErrAuthNotConfigured.WithCause(err)

	case stderrors.Is(err, jwt.ErrExpiredToken):
		return ErrTokenExpired.WithCause(err)

	case stderrors.Is(err, jwt.ErrInvalidToken):
		return ErrTokenInvalid.WithCause(err)
	}

	return ErrInternalServerError.WithCause(err)
}
