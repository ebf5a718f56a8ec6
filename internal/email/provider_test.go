package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SupportedProviders(t *testing.T) {
	tests := []struct {
		provider string
		host     string
		port     int
		security Security
	}{
		{"gmail", "smtp.gmail.com", 465, SecuritySSL},
		{"GMAIL", "smtp.gmail.com", 465, SecuritySSL},
		{"zoho", "smtp.zoho.com", 465, SecuritySSL},
		{"Outlook", "smtp.office365.com", 587, SecurityStartTLS},
		{" yahoo ", "smtp.mail.yahoo.com", 465, SecuritySSL},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg, err := Resolve(tt.provider, "me@example.com", "app-pass")
			require.NoError(t, err)
			assert.Equal(t, tt.host, cfg.Host)
			assert.Equal(t, tt.port, cfg.Port)
			assert.Equal(t, tt.security, cfg.Security)
			assert.Equal(t, "me@example.com", cfg.Username)
			assert.Equal(t, "app-pass", cfg.Password)
		})
	}
}

func TestResolve_GmailTimeoutPreset(t *testing.T) {
	cfg, err := Resolve("gmail", "a@b.c", "p")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "smtp.gmail.com:465", cfg.Addr())
}

func TestResolve_CredentialsVerbatim(t *testing.T) {
	cfg, err := Resolve("zoho", "Me@Example.com", " spaced pass ")
	require.NoError(t, err)
	assert.Equal(t, "Me@Example.com", cfg.Username)
	assert.Equal(t, " spaced pass ", cfg.Password)
}

func TestResolve_Unsupported(t *testing.T) {
	for _, p := range []string{"aol", "AOL", "hotmail", "gmail.com"} {
		_, err := Resolve(p, "a@b.c", "p")
		require.ErrorIs(t, err, ErrUnsupportedProvider, p)
		assert.Contains(t, err.Error(), "gmail, zoho, outlook, yahoo")
	}
}

func TestResolve_InvalidInput(t *testing.T) {
	cases := [][3]string{
		{"", "a@b.c", "p"},
		{"gmail", "", "p"},
		{"gmail", "a@b.c", ""},
		{"", "", ""},
		{" ", "a@b.c", "p"},
		{"", "", "p"},
		{"gmail", "", ""},
		{"", "a@b.c", ""},
	}
	for _, c := range cases {
		_, err := Resolve(c[0], c[1], c[2])
		assert.ErrorIs(t, err, ErrInvalidInput, "%q", c)
	}
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" Yahoo")
	require.NoError(t, err)
	assert.Equal(t, Yahoo, p)

	_, err = ParseProvider("")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestRenderBody(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"hello", "hello"},
		{"a\nb", "a<br/>b"},
		{"a\r\nb", "a<br/>b"},
		{"<script>&</script>", "&lt;script&gt;&amp;&lt;/script&gt;"},
		{"Hi,\n\n<b>me</b>", "Hi,<br/><br/>&lt;b&gt;me&lt;/b&gt;"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderBody(tt.in))
	}
}
