// Package user contiene DTOs para los endpoints /api/user.
package user

import (
	"time"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
)

// RegisterRequest body de POST /api/user/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse respuesta 201 del registro.
type RegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// LoginRequest body de POST /api/user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse respuesta exitosa de login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// SettingsRequest campos de envío a actualizar. nil = no tocar.
// Solo se aceptan strings; otros tipos se ignoran al parsear.
type SettingsRequest struct {
	FromMail    *string
	AppPassword *string
	Provider    *string
}

// SettingsFromMap construye el request a partir del JSON crudo,
// tomando únicamente los campos conocidos con valor string.
func SettingsFromMap(m map[string]any) SettingsRequest {
	pick := func(key string) *string {
		if s, ok := m[key].(string); ok {
			return &s
		}
		return nil
	}
	return SettingsRequest{
		FromMail:    pick("from_mail"),
		AppPassword: pick("app_password"),
		Provider:    pick("provider"),
	}
}

// ProfileResponse perfil del usuario. Nunca incluye hashes ni el app password.
type ProfileResponse struct {
	ID             string                    `json:"id"`
	Name           string                    `json:"name"`
	Email          string                    `json:"email"`
	FromMail       string                    `json:"from_mail"`
	Provider       string                    `json:"provider"`
	HasAppPassword bool                      `json:"has_app_password"`
	MailHistory    []repository.HistoryEntry `json:"mail_history"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

// ProfileFromUser arma el perfil público de u.
func ProfileFromUser(u *repository.User) ProfileResponse {
	history := u.History
	if history == nil {
		history = []repository.HistoryEntry{}
	}
	return ProfileResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		FromMail:       u.Sender.FromMail,
		Provider:       u.Sender.Provider,
		HasAppPassword: u.Sender.AppPassword != "",
		MailHistory:    history,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
