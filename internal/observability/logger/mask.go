package logger

import (
	"strings"
	"unicode/utf8"
)

// MaskEmail deja visible solo la primera letra del usuario y el dominio:
// "ana.perez@corp.com" -> "a***@corp.com". Sin "@" devuelve "***".
func MaskEmail(s string) string {
	s = strings.TrimSpace(s)
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		if s == "" {
			return ""
		}
		return "***"
	}
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError && size <= 1 {
		return "***" + strings.ToLower(s[at:])
	}
	return string(first) + "***" + strings.ToLower(s[at:])
}
