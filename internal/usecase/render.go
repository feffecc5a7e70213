package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

var emailTemplate = template.Must(template.New("digest").Parse(`<html>
  <body style="font-family: Georgia, serif; font-size: 16px; line-height: 1.6; color: #333; max-width: 650px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c5282; border-bottom: 2px solid #2c5282; padding-bottom: 10px;">{{.Title}}</h2>
    <p style="color: #666; font-size: 14px; font-style: italic;">{{.Date}}</p>
    <div style="margin-top: 20px;">
{{- range .Paragraphs}}
      <p>{{range $i, $line := .}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
{{- end}}
    </div>
    <hr style="margin-top: 40px; border: none; border-top: 1px solid #ddd;">
    <p style="font-size: 12px; color: #999; text-align: center;">EdTech Digest Agent</p>
  </body>
</html>
`))

type emailView struct {
	Title      string
	Date       string
	Paragraphs [][]string
}

// renderHTML escapes the digest and keeps its paragraph and line breaks.
func renderHTML(title, text string, now time.Time) (string, error) {
	view := emailView{
		Title:      title,
		Date:       now.Format("January 2, 2006"),
		Paragraphs: splitParagraphs(text),
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

func splitParagraphs(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs [][]string
	for _, block := range paragraphBreak.Split(text, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, lines)
		}
	}
	return paragraphs
}
