package email

import "strings"

var bodyReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", "<br/>",
	"\n", "<br/>",
)

// RenderBody convierte texto plano en el HTML del mensaje:
// escapa &, < y > y convierte los saltos de línea en <br/>.
func RenderBody(text string) string {
	return bodyReplacer.Replace(text)
}
