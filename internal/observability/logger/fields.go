package logger

import (
	"time"

	"go.uber.org/zap"
)

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field { return zap.String("method", v) }
func Path(v string) zap.Field { return zap.String("path", v) }
func Status(v int) zap.Field { return zap.Int("status", v) }
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// ─── Negocio ───

// UserID crea un campo para el ID del usuario autenticado.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// Email crea un campo para el email, enmascarado.
func Email(v string) zap.Field { return zap.String("email", MaskEmail(v)) }

// Provider crea un campo para el proveedor SMTP (gmail, zoho, ...).
func Provider(v string) zap.Field { return zap.String("provider", v) }

// Recipient crea un campo para el destinatario de un envío, enmascarado.
func Recipient(v string) zap.Field { return zap.String("recipient", MaskEmail(v)) }

// MessageID crea un campo para el Message-Id generado en un envío.
func MessageID(v string) zap.Field { return zap.String("message_id", v) }

// Attachments crea un campo con la cantidad de adjuntos.
func Attachments(n int) zap.Field { return zap.Int("attachments", n) }

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (controller, service, repository).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

// ─── Genéricos ───

func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
