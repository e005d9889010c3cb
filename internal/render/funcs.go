package render

import (
	"html/template"
	"strings"
	"time"

	"github.com/anonto42/yatube/internal/models"
)

var funcs = template.FuncMap{
	"truncatechars": truncateChars,
	"date":          formatDate,
	"linebreaksbr":  linebreaksBR,
}

// truncateChars shortens s to n characters, ending with an ellipsis when cut.
func truncateChars(n int, s string) string {
	if len([]rune(s)) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return models.Truncate(s, n-1) + "…"
}

func formatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

func linebreaksBR(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
