package resume

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Preview turns résumé HTML into plain text for the terminal.
func Preview(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse resume html: %w", err)
	}

	var lines []string
	doc.Find("body h1, body h2, body h3, body p, body li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h1":
			lines = append(lines, strings.ToUpper(text))
		case "h2":
			lines = append(lines, "", "== "+text+" ==")
		case "li":
			lines = append(lines, "  - "+text)
		default:
			lines = append(lines, text)
		}
	})

	return strings.Join(lines, "\n"), nil
}
