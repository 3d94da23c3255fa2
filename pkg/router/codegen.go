package router

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"unicode"
)

// ImportPath is the import path of this package, referenced by generated code.
const ImportPath = "github.com/vango-dev/folio/pkg/router"

// Generator emits typed parameter structs and route constants for a set of
// route patterns.
type Generator struct {
	routes []string
	pkg    string
}

// NewGenerator creates a generator for the given patterns. The output
// belongs to package pkg.
func NewGenerator(routes []string, pkg string) *Generator {
	sorted := append([]string(nil), routes...)
	sort.Strings(sorted)
	return &Generator{routes: sorted, pkg: pkg}
}

// NewGeneratorFromRegistry creates a generator for every route in reg.
func NewGeneratorFromRegistry(reg *Registry, pkg string) *Generator {
	routes := make([]string, 0, reg.Len())
	for _, e := range reg.Entries() {
		routes = append(routes, e.Route)
	}
	return NewGenerator(routes, pkg)
}

// GenerateParamTypes generates the route constants and parameter structs
// of patterns as a file of package pkg.
func GenerateParamTypes(pkg string, patterns []string) ([]byte, error) {
	return NewGenerator(patterns, pkg).Generate()
}

// Generate returns gofmt-ed Go source.
func (g *Generator) Generate() ([]byte, error) {
	type dynamicRoute struct {
		route    string
		name     string
		segments []Segment
	}

	var dynamic []dynamicRoute
	var buf bytes.Buffer

	buf.WriteString("// Code generated by folio gen types. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", g.pkg)

	idents := make(map[string]string, len(g.routes))
	for _, route := range g.routes {
		segments, err := ParsePattern(route)
		if err != nil {
			return nil, err
		}
		ident := routeIdent(segments)
		if other, ok := idents[ident]; ok {
			return nil, fmt.Errorf("routes %s and %s both generate identifier Route%s", other, route, ident)
		}
		idents[ident] = route
		if HasParams(segments) {
			dynamic = append(dynamic, dynamicRoute{route: route, name: routeIdent(segments), segments: segments})
		}
	}

	if len(dynamic) > 0 {
		fmt.Fprintf(&buf, "import %q\n\n", ImportPath)
	}

	buf.WriteString("// Route patterns.\nconst (\n")
	for _, route := range g.routes {
		segments, _ := ParsePattern(route)
		fmt.Fprintf(&buf, "\tRoute%s = %q\n", routeIdent(segments), route)
	}
	buf.WriteString(")\n")

	for _, d := range dynamic {
		fmt.Fprintf(&buf, "\n// %sParams are the parameters of %s.\n", d.name, d.route)
		fmt.Fprintf(&buf, "type %sParams struct {\n", d.name)
		for _, s := range d.segments {
			switch s.Kind {
			case SegmentDynamic:
				fmt.Fprintf(&buf, "\t%s string `param:%q`\n", exportIdent(s.Value), s.Value)
			case SegmentCatchAll:
				fmt.Fprintf(&buf, "\t%s []string `param:%q`\n", exportIdent(s.Value), s.Value)
			}
		}
		buf.WriteString("}\n\n")

		fmt.Fprintf(&buf, "// Params converts p into a binding record.\n")
		fmt.Fprintf(&buf, "func (p %sParams) Params() router.Params {\n\treturn router.Params{\n", d.name)
		for _, s := range d.segments {
			switch s.Kind {
			case SegmentDynamic:
				fmt.Fprintf(&buf, "\t\t%q: router.One(p.%s),\n", s.Value, exportIdent(s.Value))
			case SegmentCatchAll:
				fmt.Fprintf(&buf, "\t\t%q: router.Many(p.%s...),\n", s.Value, exportIdent(s.Value))
			}
		}
		buf.WriteString("\t}\n}\n")
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return out, nil
}

// routeIdent builds an exported identifier from a pattern's segments:
// "/" → "Index", "/blog/[slug]" → "BlogSlug", "/users/[id]" → "UsersID".
func routeIdent(segments []Segment) string {
	if len(segments) == 0 {
		return "Index"
	}
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(exportIdent(s.Value))
	}
	return sb.String()
}

// commonInitialisms are written in upper case.
var commonInitialisms = map[string]bool{
	"api": true, "css": true, "html": true, "id": true, "rss": true, "url": true, "uuid": true,
}

// exportIdent converts a segment to an exported identifier part:
// "about-me" → "AboutMe", "post_id" → "PostID".
func exportIdent(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, w := range words {
		lower := strings.ToLower(w)
		if commonInitialisms[lower] {
			sb.WriteString(strings.ToUpper(w))
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}

	ident := sb.String()
	if ident == "" || unicode.IsDigit([]rune(ident)[0]) {
		ident = "X" + ident
	}
	return ident
}
