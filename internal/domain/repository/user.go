package repository

import (
	"context"
	"strings"
	"time"
)

// User representa un usuario registrado y su configuración de envío.
type User struct {
	ID           string
	Name         string
	Email        string // único, lowercase y sin espacios
	PasswordHash string // bcrypt, nunca se expone
	Sender       SenderSettings
	History      []HistoryEntry
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SenderSettings es la identidad SMTP del usuario.
type SenderSettings struct {
	FromMail    string
	AppPassword string
	Provider    string // gmail | zoho | outlook | yahoo | ""
}

// Configured indica si los tres campos necesarios para enviar están presentes.
func (s SenderSettings) Configured() bool {
	return strings.TrimSpace(s.FromMail) != "" &&
		strings.TrimSpace(s.AppPassword) != "" &&
		strings.TrimSpace(s.Provider) != ""
}

// NormalizeEmail aplica la forma canónica de email usada como clave única.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
}

// SenderUpdate contiene los campos actualizables de SenderSettings.
// nil = no tocar.
type SenderUpdate struct {
	FromMail    *string
	AppPassword *string
	Provider    *string
}

// Empty indica si el update no modifica ningún campo.
func (u SenderUpdate) Empty() bool {
	return u.FromMail == nil && u.AppPassword == nil && u.Provider == nil
}

// Apply aplica el update sobre s y devuelve el resultado.
func (u SenderUpdate) Apply(s SenderSettings) SenderSettings {
	if u.FromMail != nil {
		s.FromMail = *u.FromMail
	}
	if u.AppPassword != nil {
		s.AppPassword = *u.AppPassword
	}
	if u.Provider != nil {
		s.Provider = *u.Provider
	}
	return s
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// Create inserta un usuario nuevo. ErrEmailTaken si el email ya existe.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// GetByID devuelve el usuario completo (incluido el historial). ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail busca por email normalizado. ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateSender modifica solo los campos de envío y devuelve el usuario actualizado.
	UpdateSender(ctx context.Context, id string, upd SenderUpdate) (*User, error)

	// AppendHistory agrega una entrada al final del historial de forma atómica.
	AppendHistory(ctx context.Context, id string, entry HistoryEntry) error

	// ListHistory devuelve el historial en orden cronológico.
	ListHistory(ctx context.Context, id string) ([]HistoryEntry, error)
}
