package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"

	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// DefaultConnectTimeout aplica cuando ni el proveedor ni la config definen uno.
const DefaultConnectTimeout = 30 * time.Second

// Attachment es un adjunto en memoria; se envía tal cual.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message es un email listo para enviar. HTMLBody ya viene renderizado.
type Message struct {
	From        string
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Sender envía un mensaje y devuelve su Message-Id.
type Sender interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
}

// TransportFactory construye un Sender para una configuración resuelta.
type TransportFactory interface {
	New(cfg TransportConfig) (Sender, error)
}

// ─── go-mail ───

// SMTPFactory crea SMTPSenders.
type SMTPFactory struct {
	// ConnectTimeout > 0 pisa el preset del proveedor.
	ConnectTimeout time.Duration

	// InsecureSkipVerify solo para desarrollo.
	InsecureSkipVerify bool
}

// New implementa TransportFactory.
func (f SMTPFactory) New(cfg TransportConfig) (Sender, error) {
	if cfg.Host == "" || cfg.Port <= 0 {
		return nil, fmt.Errorf("email: invalid transport config for %q", cfg.Provider)
	}

	timeout := cfg.ConnectTimeout
	if f.ConnectTimeout > 0 {
		timeout = f.ConnectTimeout
	}
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	return &SMTPSender{
		cfg:                cfg,
		timeout:            timeout,
		insecureSkipVerify: f.InsecureSkipVerify,
	}, nil
}

// SMTPSender implementa Sender sobre go-mail.
type SMTPSender struct {
	cfg                TransportConfig
	timeout            time.Duration
	insecureSkipVerify bool
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.Timeout = s.timeout
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.insecureSkipVerify, // solo dev
	}

	switch s.cfg.Security {
	case SecuritySSL:
		d.SSL = true
	case SecurityStartTLS:
		d.SSL = false
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return d
}

// Send arma el mensaje MIME y lo entrega. No reintenta.
// El ctx solo aporta el logger; go-mail no acepta cancelación.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	log := logger.From(ctx).With(
		logger.Component("email.smtp"),
		logger.String("host", s.cfg.Host),
		logger.Int("port", s.cfg.Port),
		logger.Provider(string(s.cfg.Provider)),
	)

	messageID := NewMessageID(msg.From)
	m := buildMessage(msg, messageID)

	log.Debug("sending email",
		logger.Recipient(msg.To),
		logger.Attachments(len(msg.Attachments)),
		logger.String("security", string(s.cfg.Security)),
	)

	// El error del servidor se devuelve sin envolver: su texto va al historial.
	if err := s.dialer().DialAndSend(m); err != nil {
		log.Debug("smtp dial/send failed", logger.Err(err))
		return "", err
	}

	log.Info("email sent", logger.MessageID(messageID))
	return messageID, nil
}

func buildMessage(msg Message, messageID string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-Id", messageID)
	m.SetBody("text/html", msg.HTMLBody)

	for _, a := range msg.Attachments {
		var settings []mail.FileSetting
		if a.ContentType != "" {
			settings = append(settings, mail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		m.AttachReader(a.Filename, bytes.NewReader(a.Data), settings...)
	}
	return m
}

// NewMessageID genera un Message-Id con el dominio del remitente.
func NewMessageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = strings.Trim(from[i+1:], "> ")
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
