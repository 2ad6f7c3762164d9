package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Format is an export document format.
type Format string

// Supported formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

var (
	// ErrUnknownFormat is returned for a format other than markdown or html.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrNoResult is returned when there is no script package to export.
	ErrNoResult = errors.New("no script package to export")
)

// ParseFormat resolves a format name. An empty name means markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ContentType returns the MIME type of documents in format f.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Extension returns the file extension for format f, without the dot.
func (f Format) Extension() string {
	if f == FormatHTML {
		return "html"
	}
	return "md"
}

// Document is the input of an export.
type Document struct {
	Language domain.Language
	Topic    domain.Topic
	Result   *domain.ScriptResponse
}

var converter = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Render produces doc in the given format.
func Render(doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		md, err := Markdown(doc)
		if err != nil {
			return nil, err
		}
		return []byte(md), nil
	case FormatHTML:
		return HTML(doc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// HTML converts the Markdown document to an HTML fragment. Raw HTML coming
// from the model is not passed through.
func HTML(doc Document) ([]byte, error) {
	md, err := Markdown(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := converter.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown writes the package with one section per step, in the order the
// results view shows them.
func Markdown(doc Document) (string, error) {
	r := doc.Result
	if r == nil {
		return "", ErrNoResult
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# BREAKING NEWS: %s\n\n", inline(doc.Topic.String()))
	if doc.Language != "" {
		fmt.Fprintf(&b, "_Language: %s_\n\n", doc.Language)
	}

	b.WriteString("## Step 1: Breaking news script\n\n")
	b.WriteString(strings.TrimSpace(r.Script))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Step 2: %d image prompts\n\n", len(r.ImagePrompts))
	for i, p := range r.ImagePrompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, inline(p))
	}
	b.WriteString("\n")

	b.WriteString("## Step 3: Viral headlines\n\n")
	b.WriteString("| # | Headline | Translation | Score |\n")
	b.WriteString("|---|---|---|---|\n")
	for i, h := range r.Headlines {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			i+1, cell(h.Headline), cell(h.Translation), cell(h.Score))
	}
	b.WriteString("\n")

	b.WriteString("## Step 4: Caption\n\n")
	b.WriteString(strings.TrimSpace(r.Description.Copy))
	b.WriteString("\n\n")
	if tags := r.Description.HashtagsText(); tags != "" {
		b.WriteString(tags)
		b.WriteString("\n\n")
	}

	b.WriteString("## Risk assessment\n\n")
	fmt.Fprintf(&b, "TikTok ban risk level: **%s**\n", inline(r.Risk))

	return b.String(), nil
}

// inline collapses whitespace so s stays on one line.
func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cell(s string) string {
	return strings.ReplaceAll(inline(s), "|", `\|`)
}
