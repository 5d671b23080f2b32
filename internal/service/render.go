package service

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"moodjournal/internal/domain"
)

// EntryRenderer turns markdown entry content into HTML and reads front
// matter from imported markdown documents
type EntryRenderer struct {
	markdown goldmark.Markdown
}

// ImportedEntry is the front matter and body of an imported document
type ImportedEntry struct {
	Date           time.Time
	Title          string
	Mood           string
	SecondaryMoods []string
	Category       string
	Tags           []string
	Content        string
}

// NewEntryRenderer creates a new entry renderer. style names a chroma
// style for fenced code blocks; empty uses "github".
func NewEntryRenderer(style string) *EntryRenderer {
	if style == "" {
		style = "github"
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			meta.Meta,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &EntryRenderer{markdown: md}
}

// Render converts markdown to HTML. Raw HTML in the source is not passed
// through.
func (r *EntryRenderer) Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// ParseImport reads a markdown document with a YAML front matter block.
// date and mood are required.
func (r *EntryRenderer) ParseImport(src []byte) (*ImportedEntry, error) {
	ctx := parser.NewContext()
	var discard bytes.Buffer
	if err := r.markdown.Convert(src, &discard, parser.WithContext(ctx)); err != nil {
		return nil, InvalidRequestError{Message: fmt.Sprintf("invalid markdown document: %v", err)}
	}

	metaData, err := meta.TryGet(ctx)
	if err != nil {
		return nil, InvalidRequestError{Message: fmt.Sprintf("invalid front matter: %v", err)}
	}
	if metaData == nil {
		metaData = make(map[string]interface{})
	}

	entry := &ImportedEntry{
		Title:          getStringFromMeta(metaData, "title", ""),
		Mood:           getStringFromMeta(metaData, "mood", ""),
		SecondaryMoods: getStringsFromMeta(metaData, "secondary_moods"),
		Category:       getStringFromMeta(metaData, "category", ""),
		Tags:           getStringsFromMeta(metaData, "tags"),
		Content:        strings.TrimSpace(stripFrontMatter(src)),
	}

	switch v := metaData["date"].(type) {
	case time.Time:
		entry.Date = domain.Day(v)
	case string:
		d, err := domain.ParseDate(strings.TrimSpace(v))
		if err != nil {
			return nil, invalidf("front matter date %q is not YYYY-MM-DD", v)
		}
		entry.Date = d
	default:
		return nil, invalidf("front matter is missing a date")
	}

	if entry.Mood == "" {
		return nil, invalidf("front matter is missing a mood")
	}
	return entry, nil
}

// stripFrontMatter drops a leading --- delimited block
func stripFrontMatter(src []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), len(src)+1)

	var (
		body    strings.Builder
		line    int
		inBlock bool
		done    bool
	)
	for scanner.Scan() {
		text := scanner.Text()
		line++
		switch {
		case line == 1 && strings.TrimSpace(text) == "---":
			inBlock = true
		case inBlock && !done && (strings.TrimSpace(text) == "---" || strings.TrimSpace(text) == "..."):
			done = true
		case inBlock && !done:
		default:
			body.WriteString(text)
			body.WriteByte('\n')
		}
	}
	if inBlock && !done {
		return string(src)
	}
	return body.String()
}

// Helper function to safely get string values from metadata
func getStringFromMeta(meta map[string]interface{}, key, defaultValue string) string {
	if value, ok := meta[key]; ok {
		switch v := value.(type) {
		case string:
			return strings.TrimSpace(v)
		case fmt.Stringer:
			return v.String()
		}
	}
	return defaultValue
}

// getStringsFromMeta accepts either a YAML list or a comma separated string
func getStringsFromMeta(meta map[string]interface{}, key string) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	switch v := meta[key].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}
	return out
}
