package logger

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"ana.perez@Corp.com": "a***@corp.com",
		" hr@x.io ":          "h***@x.io",
		"no-at-sign":         "***",
		"@corp.com":          "***",
		"user@":              "***",
		"ñandú@corp.com":     "ñ***@corp.com",
		"émile@x.fr":         "é***@x.fr",
		"\xffoo@x.com":       "***@x.com",
	}
	for in, want := range cases {
		got := MaskEmail(in)
		assert.Equal(t, want, got, in)
		assert.True(t, utf8.ValidString(got), in)
	}
}

func TestRecipientFieldIsMasked(t *testing.T) {
	f := Recipient("ana@corp.com")
	assert.Equal(t, "recipient", f.Key)
	assert.Equal(t, "a***@corp.com", f.String)
}
