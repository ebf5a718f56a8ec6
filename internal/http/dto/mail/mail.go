// Package mail contiene DTOs para los endpoints /api/mail.
package mail

// SendRequest campos de POST /api/mail/send (JSON o multipart).
type SendRequest struct {
	RecruiterEmail string `json:"recruiterEmail"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// SendResponse respuesta exitosa de un envío.
type SendResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}
