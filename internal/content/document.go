package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Document is one markdown file of a collection.
type Document struct {
	// Slug is the file path relative to the collection root without the
	// .md extension, e.g. "hello-world" or "guide/routing".
	Slug string

	// File is the path the document was read from.
	File string

	Title    string
	Date     time.Time
	Summary  string
	Tags     []string
	Category string

	// HTML is the rendered body.
	HTML template.HTML

	// Links are the slugs of the documents this one links to with
	// [[wikilinks]], in order of appearance.
	Links []string

	// Backlinks are the slugs of the documents that link here.
	Backlinks []string
}

// Segments returns the slug split on "/".
func (d *Document) Segments() []string {
	return strings.Split(d.Slug, "/")
}

// DocumentError reports a document that could not be parsed or that
// violates the front matter schema. Line is 1-based and 0 when unknown.
type DocumentError struct {
	File string
	Line int
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// frontMatter is the YAML block at the top of a document.
type frontMatter struct {
	Title    string   `yaml:"title"`
	Date     any      `yaml:"date"`
	Summary  string   `yaml:"summary"`
	Tags     []string `yaml:"tags"`
	Category string   `yaml:"category"`
}

var delimiter = []byte("---")

// splitFrontMatter separates the front matter block from the body. It
// returns the line the body starts on.
func splitFrontMatter(src []byte) (meta, body []byte, bodyLine int, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, ok := bytes.Cut(src, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimSpace(first), delimiter) {
		return nil, nil, 0, fmt.Errorf("missing front matter block")
	}

	line := 2
	for len(rest) > 0 {
		var l []byte
		l, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSpace(l), delimiter) {
			return meta, rest, line + 1, nil
		}
		meta = append(meta, l...)
		meta = append(meta, '\n')
		line++
	}
	return nil, nil, 0, fmt.Errorf("unterminated front matter block")
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD or RFC 3339", s)
}

// decodeFrontMatter applies the schema: title is required, date is
// required unless the collection is undated.
func decodeFrontMatter(meta []byte, dated bool) (*frontMatter, time.Time, error) {
	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return nil, time.Time{}, fmt.Errorf("front matter: %w", err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return nil, time.Time{}, fmt.Errorf("front matter: title is required")
	}

	var date time.Time
	switch v := fm.Date.(type) {
	case nil:
		if dated {
			return nil, time.Time{}, fmt.Errorf("front matter: date is required")
		}
	case time.Time:
		date = v
	default:
		d, err := parseDate(fmt.Sprint(v))
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("front matter: %w", err)
		}
		date = d
	}

	for _, tag := range fm.Tags {
		if strings.TrimSpace(tag) == "" || strings.Contains(tag, "/") {
			return nil, time.Time{}, fmt.Errorf("front matter: invalid tag %q", tag)
		}
	}
	if strings.Contains(fm.Category, "/") {
		return nil, time.Time{}, fmt.Errorf("front matter: invalid category %q", fm.Category)
	}

	return &fm, date, nil
}
