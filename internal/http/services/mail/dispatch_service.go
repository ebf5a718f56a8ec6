package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	"github.com/dropDatabas3/hellomail/internal/email"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// recordTimeout acota el append de historial, que corre aunque el request se cancele.
const recordTimeout = 10 * time.Second

// SendInput datos de un envío.
type SendInput struct {
	UserID         string
	RecruiterEmail string
	Subject        string
	Body           string
	Attachments    []email.Attachment
}

// SendResult resultado de un envío exitoso.
type SendResult struct {
	MessageID string
}

// DispatchService envía emails con la identidad SMTP del usuario y registra
// cada intento en su historial.
type DispatchService interface {
	Send(ctx context.Context, in SendInput) (*SendResult, error)
}

type dispatchService struct {
	deps Deps
}

// NewDispatchService crea el dispatcher.
func NewDispatchService(d Deps) DispatchService {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &dispatchService{deps: d}
}

func (s *dispatchService) Send(ctx context.Context, in SendInput) (*SendResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("mail.dispatch"),
		logger.Op("Send"),
		logger.UserID(in.UserID),
	)

	u, err := s.deps.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !u.Sender.Configured() {
		return nil, ErrSenderNotConfigured
	}
	if strings.TrimSpace(in.RecruiterEmail) == "" || strings.TrimSpace(in.Subject) == "" {
		return nil, ErrMissingFields
	}

	provider := u.Sender.Provider
	log = log.With(logger.Provider(provider), logger.Recipient(in.RecruiterEmail))

	// A partir de acá todo intento queda en el historial.
	entry := repository.HistoryEntry{
		RecruiterEmail:   in.RecruiterEmail,
		Subject:          in.Subject,
		Body:             in.Body,
		AttachmentsCount: len(in.Attachments),
		Status:           repository.HistoryFailed,
		SentAt:           s.deps.Now().UTC(),
	}

	cfg, err := email.Resolve(provider, u.Sender.FromMail, u.Sender.AppPassword)
	if err != nil {
		log.Warn("provider config rejected", logger.Err(err))
		s.deps.Metrics.ObserveSend(provider, string(repository.HistoryFailed), 0)
		return nil, s.finish(ctx, log, u.ID, entry, err)
	}

	sender, err := s.deps.Transport.New(cfg)
	if err != nil {
		log.Error("transport build failed", logger.Err(err))
		s.deps.Metrics.ObserveSend(string(cfg.Provider), string(repository.HistoryFailed), 0)
		return nil, s.finish(ctx, log, u.ID, entry, &SendError{Provider: string(cfg.Provider), Diagnosis: "unknown", Err: err})
	}

	start := time.Now()
	messageID, err := sender.Send(ctx, email.Message{
		From:        u.Sender.FromMail,
		To:          in.RecruiterEmail,
		Subject:     in.Subject,
		HTMLBody:    email.RenderBody(in.Body),
		Attachments: in.Attachments,
	})
	elapsed := time.Since(start)

	if err != nil {
		diag := email.DiagnoseSMTP(err)
		log.Error("smtp send failed",
			logger.Err(err),
			logger.String("smtp_diag", diag.Code),
			logger.Bool("temporary", diag.Temporary),
			logger.Duration(elapsed),
		)
		s.deps.Metrics.ObserveSend(string(cfg.Provider), string(repository.HistoryFailed), elapsed)
		return nil, s.finish(ctx, log, u.ID, entry, &SendError{Provider: string(cfg.Provider), Diagnosis: diag.Code, Err: err})
	}

	s.deps.Metrics.ObserveSend(string(cfg.Provider), string(repository.HistorySuccess), elapsed)
	entry.Status = repository.HistorySuccess
	if err := s.finish(ctx, log, u.ID, entry, nil); err != nil {
		return nil, err
	}

	log.Info("email sent",
		logger.MessageID(messageID),
		logger.Attachments(len(in.Attachments)),
		logger.Duration(elapsed),
	)
	return &SendResult{MessageID: messageID}, nil
}

// finish registra entry con el resultado de sendErr y devuelve el error a
// reportar: ErrHistoryNotRecorded si el append falla, sino sendErr.
func (s *dispatchService) finish(ctx context.Context, log *zap.Logger, userID string, entry repository.HistoryEntry, sendErr error) error {
	if sendErr != nil {
		entry.Status = repository.HistoryFailed
		entry.ErrorMessage = errorMessage(sendErr)
	} else {
		entry.ErrorMessage = ""
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.deps.Users.AppendHistory(rctx, userID, entry); err != nil {
		log.Error("history append failed",
			logger.Err(err),
			logger.String("history_status", string(entry.Status)),
		)
		return fmt.Errorf("%w: %w", ErrHistoryNotRecorded, err)
	}
	return sendErr
}

// errorMessage es el texto guardado en el historial: el mensaje del
// transporte para fallos SMTP, el del resolver en otro caso.
func errorMessage(err error) string {
	if se, ok := err.(*SendError); ok {
		return se.Err.Error()
	}
	return err.Error()
}
