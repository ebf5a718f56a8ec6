package email

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidInput indica que falta provider, email o app password.
	ErrInvalidInput = errors.New("provider, sender email and app password are required")

	// ErrUnsupportedProvider indica un proveedor fuera del conjunto soportado.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Provider es un proveedor SMTP soportado.
type Provider string

const (
	Gmail   Provider = "gmail"
	Zoho    Provider = "zoho"
	Outlook Provider = "outlook"
	Yahoo   Provider = "yahoo"
)

// SupportedProviders en el orden en que se reportan en errores.
var SupportedProviders = []Provider{Gmail, Zoho, Outlook, Yahoo}

func supportedList() string {
	names := make([]string, len(SupportedProviders))
	for i, p := range SupportedProviders {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// ParseProvider normaliza s (trim + lowercase) y valida que sea soportado.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Gmail, Zoho, Outlook, Yahoo:
		return p, nil
	}
	return "", fmt.Errorf("%w %q. Supported: %s", ErrUnsupportedProvider, s, supportedList())
}

// Security es el modo TLS del transporte.
type Security string

const (
	// SecuritySSL: TLS implícito desde el connect (puerto 465).
	SecuritySSL Security = "ssl"
	// SecurityStartTLS: conexión plana con upgrade STARTTLS obligatorio.
	SecurityStartTLS Security = "starttls"
)

// TransportConfig es la configuración SMTP derivada para un envío.
type TransportConfig struct {
	Provider Provider
	Host     string
	Port     int
	Security Security
	Username string
	Password string

	// ConnectTimeout preset del proveedor; 0 = default del factory.
	ConnectTimeout time.Duration
}

// Addr retorna host:port.
func (c TransportConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Resolve mapea (provider, senderEmail, appPassword) a un TransportConfig.
// Las credenciales se copian tal cual. No hace I/O.
func Resolve(provider, senderEmail, appPassword string) (TransportConfig, error) {
	if strings.TrimSpace(provider) == "" ||
		strings.TrimSpace(senderEmail) == "" ||
		strings.TrimSpace(appPassword) == "" {
		return TransportConfig{}, ErrInvalidInput
	}

	p, err := ParseProvider(provider)
	if err != nil {
		return TransportConfig{}, err
	}

	cfg := TransportConfig{
		Provider: p,
		Username: senderEmail,
		Password: appPassword,
	}

	switch p {
	case Gmail:
		cfg.Host, cfg.Port, cfg.Security = "smtp.gmail.com", 465, SecuritySSL
		cfg.ConnectTimeout = 10 * time.Second
	case Zoho:
		cfg.Host, cfg.Port, cfg.Security = "smtp.zoho.com", 465, SecuritySSL
	case Outlook:
		cfg.Host, cfg.Port, cfg.Security = "smtp.office365.com", 587, SecurityStartTLS
	case Yahoo:
		cfg.Host, cfg.Port, cfg.Security = "smtp.mail.yahoo.com", 465, SecuritySSL
	}
	return cfg, nil
}
