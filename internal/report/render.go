// Package report renders insight markdown into standalone HTML pages.
package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/pipeline"
)

// Renderer converts a bundle's markdown reports into a single HTML page.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// NewRenderer creates a Renderer with GFM and syntax highlighting enabled.
func NewRenderer() (*Renderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parsing page template: %w", err)
	}

	return &Renderer{md: md, tmpl: tmpl}, nil
}

// section is one rendered report block.
type section struct {
	Title string
	Body  template.HTML
	Error string
}

// pageData feeds the HTML page template.
type pageData struct {
	Title    string
	Sections []section
}

var kindTitles = map[insight.Kind]string{
	insight.KindArchitecture: "Architecture Documentation",
	insight.KindStrategic:    "Strategic Recommendations",
	insight.KindBusiness:     "Business Insights",
}

// RenderBundle produces an HTML page for every report carried by the
// bundle. Failed reports become error callouts instead of being dropped, so
// a partially failed analysis still renders.
func (r *Renderer) RenderBundle(b *pipeline.Bundle) ([]byte, error) {
	data := pageData{Title: fmt.Sprintf("%s/%s — repotronium analysis", b.Owner, b.Repo)}

	for _, result := range b.Reports {
		title := kindTitles[result.Kind]
		if title == "" {
			title = string(result.Kind)
		}

		if !result.OK() {
			data.Sections = append(data.Sections, section{
				Title: title,
				Error: fmt.Sprintf("report unavailable: %s (%s)", result.Error.Message, result.Error.Code),
			})
			continue
		}

		var buf bytes.Buffer
		if err := r.md.Convert([]byte(result.Report.Markdown), &buf); err != nil {
			return nil, fmt.Errorf("report: converting %s markdown: %w", result.Kind, err)
		}
		data.Sections = append(data.Sections, section{
			Title: title,
			Body:  template.HTML(buf.String()),
		})
	}

	var out bytes.Buffer
	if err := r.tmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("report: executing template: %w", err)
	}
	return out.Bytes(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
h1, h2, h3 { line-height: 1.25; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 0.9em; }
section { margin-bottom: 3rem; }
.report-error { background: #fff1f0; border: 1px solid #ffa39e; padding: 0.75rem 1rem; border-radius: 6px; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: 0.4rem 0.8rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}
<section>
<h2>{{.Title}}</h2>
{{if .Error}}<div class="report-error">{{.Error}}</div>{{else}}{{.Body}}{{end}}
</section>
{{end}}
</body>
</html>
`
