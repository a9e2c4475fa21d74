// Package digest renders ranked sections into the email bodies, an HTML
// part styled for mail clients and a plain text fallback.
package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/deusflow/aidigest/internal/article"
)

var digestTemplate = template.Must(template.New("digest").Parse(defaultTemplate))

type sectionStyle struct {
	Icon  string
	Color string
}

var sectionStyles = map[string]sectionStyle{
	article.CategoryNewTech:   {Icon: "🚀", Color: "#10b981"},
	article.CategoryResearch:  {Icon: "📚", Color: "#8b5cf6"},
	article.CategoryIndustry:  {Icon: "📰", Color: "#3b82f6"},
	article.CategoryCommunity: {Icon: "💬", Color: "#f59e0b"},
}

var defaultStyle = sectionStyle{Icon: "📌", Color: "#6b7280"}

type entryData struct {
	Title   string
	URL     string
	Summary string
	Meta    string
}

type sectionData struct {
	Name    string
	Icon    string
	Color   string
	Empty   bool
	Entries []entryData
}

type digestData struct {
	Date     string
	Sections []sectionData
}

// Subject is the subject line for a digest sent at the given time.
func Subject(now time.Time) string {
	return "AI Daily Digest - " + now.Format("January 02, 2006")
}

// Render produces the HTML body. Empty sections still appear, with a
// placeholder, so a thin news day reads as thin rather than broken.
func Render(sections []article.Section, now time.Time) (string, error) {
	data := digestData{
		Date:     now.Format("January 02, 2006"),
		Sections: make([]sectionData, 0, len(sections)),
	}
	for _, s := range sections {
		style, ok := sectionStyles[s.Name]
		if !ok {
			style = defaultStyle
		}
		sd := sectionData{
			Name:  s.Name,
			Icon:  style.Icon,
			Color: style.Color,
			Empty: len(s.Articles) == 0,
		}
		for _, a := range s.Articles {
			sd.Entries = append(sd.Entries, entryData{
				Title:   a.Title,
				URL:     a.URL,
				Summary: a.Summary,
				Meta:    metaLine(a),
			})
		}
		data.Sections = append(data.Sections, sd)
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return buf.String(), nil
}

// PlainText renders the text/plain alternative part.
func PlainText(sections []article.Section, now time.Time) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "AI DAILY DIGEST - %s\n%s\n\n", now.Format("January 02, 2006"), strings.Repeat("=", 50))

	for _, s := range sections {
		fmt.Fprintf(&buf, "\n%s\n%s\n\n", strings.ToUpper(s.Name), strings.Repeat("-", 40))
		if len(s.Articles) == 0 {
			buf.WriteString("Nothing notable today.\n\n")
			continue
		}
		for _, a := range s.Articles {
			fmt.Fprintf(&buf, "• %s\n", a.Title)
			if a.Summary != "" {
				fmt.Fprintf(&buf, "  %s\n", truncatePlain(a.Summary, 200))
			}
			fmt.Fprintf(&buf, "  %s | %s\n\n", a.Source, a.URL)
		}
	}
	return buf.String()
}

// metaLine formats the byline under each entry. Engagement only means
// something for the community sources.
func metaLine(a article.Article) string {
	parts := []string{a.Source}
	if a.Engagement > 0 {
		switch {
		case strings.HasPrefix(a.Source, "r/"):
			parts = append(parts, fmt.Sprintf("↑%d", a.Engagement))
		case a.Source == "Hacker News":
			parts = append(parts, fmt.Sprintf("%d pts", a.Engagement))
		}
	}
	parts = append(parts, a.Published.Format("Jan 02"))
	return strings.Join(parts, " · ")
}

func truncatePlain(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

const defaultTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>AI Daily Digest</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 640px; margin: 0 auto; padding: 20px; background-color: #f3f4f6;">

    <div style="background: linear-gradient(135deg, #1e3a5f 0%, #0f172a 100%); padding: 32px; border-radius: 16px; margin-bottom: 24px;">
        <h1 style="color: white; margin: 0; font-size: 28px; font-weight: 700;">AI Daily Digest</h1>
        <p style="color: rgba(255,255,255,0.8); margin: 8px 0 0 0; font-size: 15px;">{{.Date}}</p>
    </div>

    <div style="background: white; padding: 24px; border-radius: 12px; margin-bottom: 20px; border: 1px solid #e5e7eb;">
        <p style="font-size: 16px; line-height: 1.7; color: #374151; margin: 0;">
            Good morning! Here's what's happening in AI today — new releases, research breakthroughs, and the conversations that matter.
        </p>
    </div>
{{range .Sections}}
    <div style="background: white; padding: 24px; border-radius: 12px; margin-bottom: 20px; border: 1px solid #e5e7eb;">
        <h2 style="color: {{.Color}}; margin: 0 0 20px 0; font-size: 18px; font-weight: 600; display: flex; align-items: center; gap: 8px;">
            <span>{{.Icon}}</span> {{.Name}}
        </h2>
{{- if .Empty}}
        <p style="color: #9ca3af; margin: 0; font-size: 14px;">Nothing notable today.</p>
{{- else}}
{{- range .Entries}}
        <div style="margin-bottom: 20px; padding-bottom: 20px; border-bottom: 1px solid #f3f4f6;">
            <a href="{{.URL}}" style="text-decoration: none;">
                <h3 style="color: #111827; margin: 0; font-size: 15px; font-weight: 600; line-height: 1.5;">{{.Title}}</h3>
            </a>
{{- with .Summary}}
            <p style="color: #6b7280; margin: 8px 0; font-size: 14px; line-height: 1.6;">{{.}}</p>
{{- end}}
            <p style="color: #9ca3af; margin: 8px 0 0 0; font-size: 12px;">{{.Meta}}</p>
        </div>
{{- end}}
{{- end}}
    </div>
{{end}}
    <div style="text-align: center; padding: 24px; color: #9ca3af; font-size: 12px;">
        <p style="margin: 0;">Generated by AI News Digest</p>
        <p style="margin: 4px 0 0 0;">Curated from arXiv, tech news, and community discussions</p>
    </div>

</body>
</html>
`
