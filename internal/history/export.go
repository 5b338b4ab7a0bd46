package history

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// ExportHTML renders a conversation transcript as a standalone HTML page.
// Answer markdown (including code blocks) is rendered with syntax
// highlighting; citation markers are kept as visible superscripts.
func ExportHTML(title string, msgs []Message) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)

	type turn struct {
		Role    string
		Body    template.HTML
		Sources []string
	}

	var turns []turn
	for _, m := range msgs {
		var buf bytes.Buffer
		if err := md.Convert([]byte(m.Content), &buf); err != nil {
			return "", fmt.Errorf("rendering message: %w", err)
		}

		t := turn{Role: string(m.Role), Body: template.HTML(buf.String())}
		for i, src := range m.Sources {
			label := fmt.Sprintf("[%d]", i+1)
			if path := src.Chunk.Metadata.HeadingPath; len(path) > 0 {
				label += " " + strings.Join(path, " > ")
			}
			t.Sources = append(t.Sources, label)
		}
		turns = append(turns, t)
	}

	tmpl, err := template.New("transcript").Parse(transcriptTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing transcript template: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, struct {
		Title string
		Turns []turn
	}{Title: title, Turns: turns})
	if err != nil {
		return "", fmt.Errorf("executing transcript template: %w", err)
	}

	return out.String(), nil
}

const transcriptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
.turn { margin: 1rem 0; padding: 0.75rem 1rem; border-radius: 8px; }
.turn.user { background: #eef3fb; }
.turn.assistant { background: #f6f6f6; }
.role { font-size: 0.8rem; color: #666; text-transform: uppercase; margin-bottom: 0.25rem; }
.sources { font-size: 0.85rem; color: #555; margin-top: 0.5rem; }
pre { overflow-x: auto; padding: 0.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Turns}}
<div class="turn {{.Role}}">
<div class="role">{{.Role}}</div>
{{.Body}}
{{if .Sources}}<div class="sources">Sources: {{range .Sources}}{{.}} {{end}}</div>{{end}}
</div>
{{end}}
</body>
</html>
`
