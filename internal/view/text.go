package view

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Description formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// TextFormatter turns a free-form description into safe HTML.
type TextFormatter interface {
	Format(s string) template.HTML
}

// NewTextFormatter returns the formatter for format ("text" or "markdown").
func NewTextFormatter(format string) (TextFormatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return PlainText(), nil
	case FormatMarkdown:
		return Markdown(), nil
	default:
		return nil, fmt.Errorf("view: unknown description format %q", format)
	}
}

type plainText struct{}

// PlainText shows the description exactly as written; markup-looking text is escaped, not interpreted.
func PlainText() TextFormatter {
	return plainText{}
}

func (plainText) Format(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

type markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Markdown renders CommonMark and sanitizes the output with the UGC policy.
func Markdown() TextFormatter {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return markdown{
		md:     goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps())),
		policy: policy,
	}
}

func (m markdown) Format(s string) template.HTML {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes()))
}
