package advisor

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/spigell/career-compass/internal/backend"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(
	template.New("resume.html.tmpl").
		Funcs(template.FuncMap{"join": joinOr}).
		ParseFS(templateFS, "templates/resume.html.tmpl"),
)

// RenderHTML renders the résumé document. Every value is HTML-escaped.
func RenderHTML(data backend.ResumeData) (string, error) {
	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render resume: %w", err)
	}
	return buf.String(), nil
}

// joinOr joins non-empty items with ", " or returns fallback when none remain.
func joinOr(items []string, fallback string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return fallback
	}
	return strings.Join(kept, ", ")
}
