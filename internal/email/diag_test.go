package email

import (
	"errors"
	"fmt"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o deadline" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestDiagnoseSMTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"nil", nil, "unknown"},
		{"auth code", fmt.Errorf("smtp send: %w", &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}), "auth"},
		{"throttled", &textproto.Error{Code: 421, Msg: "4.7.0 Try again later"}, "rate_limited"},
		{"bad recipient", &textproto.Error{Code: 550, Msg: "5.1.1 user unknown"}, "invalid_recipient"},
		{"net timeout", fmt.Errorf("wrap: %w", timeoutErr{}), "timeout"},
		{"dial", errors.New("dial tcp 1.2.3.4:465: connect: connection refused"), "dial"},
		{"tls", errors.New("x509: certificate signed by unknown authority"), "tls"},
		{"auth text", errors.New("535 authentication failed"), "auth"},
		{"policy", errors.New("550 5.7.1 message rejected"), "rejected"},
		{"other", errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, DiagnoseSMTP(tt.err).Code)
		})
	}
}

func TestDiagnoseSMTP_Temporary(t *testing.T) {
	assert.True(t, DiagnoseSMTP(timeoutErr{}).Temporary)
	assert.False(t, DiagnoseSMTP(errors.New("x509: bad")).Temporary)
}
