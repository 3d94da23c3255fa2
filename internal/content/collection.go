package content

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"go.abhg.dev/goldmark/wikilink"
)

// Collection is an immutable, sorted set of documents.
type Collection struct {
	docs   []*Document
	bySlug map[string]*Document
}

// Option configures Load.
type Option func(*options)

type options struct {
	pattern  string
	linkBase string
	style    string
	dated    bool
}

// WithPattern sets the glob documents are matched with. Defaults to "**/*.md".
func WithPattern(pattern string) Option {
	return func(o *options) { o.pattern = pattern }
}

// WithLinkBase sets the URL prefix [[wikilinks]] resolve under.
// Defaults to "/blog/".
func WithLinkBase(base string) Option {
	return func(o *options) { o.linkBase = base }
}

// WithStyle sets the chroma style name recorded on highlighted blocks.
func WithStyle(style string) Option {
	return func(o *options) { o.style = style }
}

// Undated makes the date field optional and orders documents by slug.
func Undated() Option {
	return func(o *options) { o.dated = false }
}

// Load reads every document in fsys. Dated collections sort newest first,
// ties by slug; undated collections sort by slug.
func Load(fsys fs.FS, opts ...Option) (*Collection, error) {
	o := options{
		pattern:  "**/*.md",
		linkBase: "/blog/",
		style:    "github",
		dated:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	files, err := doublestar.Glob(fsys, o.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", o.pattern, err)
	}
	sort.Strings(files)

	md := newMarkdown(o)
	c := &Collection{bySlug: make(map[string]*Document, len(files))}

	for _, file := range files {
		doc, err := parseDocument(fsys, md, file, o.dated)
		if err != nil {
			return nil, err
		}
		if prev, ok := c.bySlug[doc.Slug]; ok {
			return nil, &DocumentError{File: file, Err: fmt.Errorf("slug %q already used by %s", doc.Slug, prev.File)}
		}
		c.bySlug[doc.Slug] = doc
		c.docs = append(c.docs, doc)
	}

	c.linkBack()

	if o.dated {
		sort.SliceStable(c.docs, func(i, j int) bool {
			if !c.docs[i].Date.Equal(c.docs[j].Date) {
				return c.docs[i].Date.After(c.docs[j].Date)
			}
			return c.docs[i].Slug < c.docs[j].Slug
		})
	}

	return c, nil
}

func newMarkdown(o options) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(o.style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
			&wikilink.Extender{Resolver: linkResolver{base: o.linkBase}},
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

func parseDocument(fsys fs.FS, md goldmark.Markdown, file string, dated bool) (*Document, error) {
	src, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, &DocumentError{File: file, Err: err}
	}

	meta, body, _, err := splitFrontMatter(src)
	if err != nil {
		return nil, &DocumentError{File: file, Line: 1, Err: err}
	}
	fm, date, err := decodeFrontMatter(meta, dated)
	if err != nil {
		return nil, &DocumentError{File: file, Line: 2, Err: err}
	}

	doc := md.Parser().Parse(text.NewReader(body))

	var links []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if wl, ok := n.(*wikilink.Node); ok && len(wl.Target) > 0 {
			links = append(links, Slugify(string(wl.Target)))
		}
		return ast.WalkContinue, nil
	})

	var html bytes.Buffer
	if err := md.Renderer().Render(&html, body, doc); err != nil {
		return nil, &DocumentError{File: file, Err: err}
	}

	return &Document{
		Slug:     strings.TrimSuffix(file, path.Ext(file)),
		File:     file,
		Title:    fm.Title,
		Date:     date,
		Summary:  fm.Summary,
		Tags:     fm.Tags,
		Category: fm.Category,
		HTML:     template.HTML(html.String()),
		Links:    links,
	}, nil
}

func (c *Collection) linkBack() {
	for _, src := range c.docs {
		seen := make(map[string]bool)
		for _, dest := range src.Links {
			target, ok := c.bySlug[dest]
			if !ok || seen[dest] || dest == src.Slug {
				continue
			}
			seen[dest] = true
			target.Backlinks = append(target.Backlinks, src.Slug)
		}
	}
}

// Slugify lowercases s and replaces runs of spaces with "-".
func Slugify(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

type linkResolver struct {
	base string
}

func (r linkResolver) ResolveWikilink(n *wikilink.Node) ([]byte, error) {
	var dest []byte
	if len(n.Target) > 0 {
		dest = append(dest, r.base...)
		dest = append(dest, Slugify(string(n.Target))...)
		dest = append(dest, '/')
	}
	if len(n.Fragment) > 0 {
		dest = append(dest, '#')
		dest = append(dest, n.Fragment...)
	}
	return dest, nil
}

// Len returns the number of documents.
func (c *Collection) Len() int { return len(c.docs) }

// All returns every document in collection order.
func (c *Collection) All() []*Document {
	return append([]*Document(nil), c.docs...)
}

// Get returns the document with the given slug.
func (c *Collection) Get(slug string) (*Document, bool) {
	d, ok := c.bySlug[slug]
	return d, ok
}

// Latest returns at most n documents from the front of the collection.
func (c *Collection) Latest(n int) []*Document {
	if n > len(c.docs) {
		n = len(c.docs)
	}
	if n < 0 {
		n = 0
	}
	return append([]*Document(nil), c.docs[:n]...)
}

// Slugs returns every slug in collection order.
func (c *Collection) Slugs() []string {
	out := make([]string, len(c.docs))
	for i, d := range c.docs {
		out[i] = d.Slug
	}
	return out
}

// Tags returns every tag used by the collection, sorted.
func (c *Collection) Tags() []string {
	return c.distinct(func(d *Document) []string { return d.Tags })
}

// Categories returns every category used by the collection, sorted.
func (c *Collection) Categories() []string {
	return c.distinct(func(d *Document) []string {
		if d.Category == "" {
			return nil
		}
		return []string{d.Category}
	})
}

func (c *Collection) distinct(fn func(*Document) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range c.docs {
		for _, v := range fn(d) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ByTag returns the documents carrying tag, in collection order.
func (c *Collection) ByTag(tag string) []*Document {
	return c.filter(func(d *Document) bool {
		for _, t := range d.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

// ByCategory returns the documents in category, in collection order.
func (c *Collection) ByCategory(category string) []*Document {
	return c.filter(func(d *Document) bool { return d.Category == category })
}

func (c *Collection) filter(keep func(*Document) bool) []*Document {
	var out []*Document
	for _, d := range c.docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
