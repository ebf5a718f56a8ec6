package email

import (
	"errors"
	"net"
	"net/textproto"
	"strings"
)

// Diagnosis clasifica un error de envío SMTP para logs y métricas.
type Diagnosis struct {
	Code      string // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|unknown
	Temporary bool
}

// DiagnoseSMTP clasifica err. Primero por código de respuesta SMTP,
// después por el texto del error.
func DiagnoseSMTP(err error) Diagnosis {
	if err == nil {
		return Diagnosis{Code: "unknown"}
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch {
		case tpErr.Code == 535 || tpErr.Code == 534 || tpErr.Code == 530:
			return Diagnosis{Code: "auth"}
		case tpErr.Code == 421 || tpErr.Code == 450 || tpErr.Code == 451 || tpErr.Code == 452:
			return Diagnosis{Code: "rate_limited", Temporary: true}
		case tpErr.Code == 550 && strings.Contains(tpErr.Msg, "5.1.1"):
			return Diagnosis{Code: "invalid_recipient"}
		case tpErr.Code == 553 || tpErr.Code == 554:
			return Diagnosis{Code: "rejected"}
		}
	}

	var netErr net.Error
	isNet := errors.As(err, &netErr)
	if isNet && netErr.Timeout() {
		return Diagnosis{Code: "timeout", Temporary: true}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "timeout"):
		return Diagnosis{Code: "timeout", Temporary: true}

	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "no such host"),
		strings.Contains(s, "dial tcp"):
		return Diagnosis{Code: "dial", Temporary: true}

	case strings.Contains(s, "x509:"),
		strings.Contains(s, "tls") && (strings.Contains(s, "handshake") || strings.Contains(s, "certificate")),
		strings.Contains(s, "starttls"):
		return Diagnosis{Code: "tls"}

	case strings.Contains(s, "5.7.8"),
		strings.Contains(s, "username and password not accepted"),
		strings.Contains(s, "authentication failed"),
		strings.Contains(s, "auth") && strings.Contains(s, "failed"):
		return Diagnosis{Code: "auth"}

	case strings.Contains(s, "4.7.0"),
		strings.Contains(s, "rate limit"),
		strings.Contains(s, "try again later"),
		strings.Contains(s, "temporarily unavailable"):
		return Diagnosis{Code: "rate_limited", Temporary: true}

	case strings.Contains(s, "5.1.1"),
		strings.Contains(s, "user unknown"),
		strings.Contains(s, "mailbox not found"):
		return Diagnosis{Code: "invalid_recipient"}

	case strings.Contains(s, "5.7.1"),
		strings.Contains(s, "message rejected"),
		strings.Contains(s, "dmarc"),
		strings.Contains(s, "spf"):
		return Diagnosis{Code: "rejected"}
	}

	if isNet {
		return Diagnosis{Code: "network", Temporary: true}
	}
	return Diagnosis{Code: "unknown"}
}
