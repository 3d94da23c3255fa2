package router

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Module file names recognized under the pages root.
const (
	PageName   = "page"
	LayoutName = "layout"
)

// Extensions lists the recognized module file extensions.
var Extensions = []string{".html", ".gohtml", ".tmpl"}

// SegmentKind classifies a route pattern segment.
type SegmentKind uint8

const (
	// SegmentLiteral matches its text exactly.
	SegmentLiteral SegmentKind = iota
	// SegmentDynamic binds exactly one path segment: [name].
	SegmentDynamic
	// SegmentCatchAll binds every remaining path segment: [...name].
	SegmentCatchAll
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentDynamic:
		return "dynamic"
	case SegmentCatchAll:
		return "catch-all"
	default:
		return "literal"
	}
}

// Segment is one "/"-separated piece of a route pattern.
type Segment struct {
	Kind SegmentKind

	// Value is the literal text, or the parameter name for dynamic and
	// catch-all segments.
	Value string
}

// Token returns the segment as written in a pattern.
func (s Segment) Token() string {
	switch s.Kind {
	case SegmentDynamic:
		return "[" + s.Value + "]"
	case SegmentCatchAll:
		return "[..." + s.Value + "]"
	default:
		return s.Value
	}
}

var paramNameRegex = regexp.MustCompile(`^\w+$`)

// CompilePattern converts a page module identifier into its route pattern.
//
//	CompilePattern("./blog/[slug]/page.html", "./")  → "/blog/[slug]"
//	CompilePattern("./(home)/page.html", "./")       → "/"
//	CompilePattern("r/(group)/blog/page", "r")       → "/blog"
//
// Grouping segments are removed wherever they occur and the trailing page
// file name is dropped. The result always starts with "/".
func CompilePattern(fileID, basePath string) string {
	p := strings.TrimPrefix(fileID, basePath)
	p = strings.TrimPrefix(p, "./")

	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" || part == "." || IsGroup(part) {
			continue
		}
		if i == len(parts)-1 && isModuleFile(part, PageName) {
			continue
		}
		out = append(out, part)
	}

	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

// IsGroup reports whether a path segment is a grouping segment "(name)".
func IsGroup(segment string) bool {
	return len(segment) > 2 && segment[0] == '(' && segment[len(segment)-1] == ')'
}

// isModuleFile reports whether base is name, optionally followed by a
// recognized extension.
func isModuleFile(base, name string) bool {
	if base == name {
		return true
	}
	ext := path.Ext(base)
	if strings.TrimSuffix(base, ext) != name {
		return false
	}
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParsePattern splits a route pattern into typed segments and checks its
// structure: parameter names must be identifiers, may not repeat, and a
// catch-all segment may only appear once, as the final segment.
func ParsePattern(pattern string) ([]Segment, error) {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]bool)

	for i, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", pattern, err)
		}
		if seg.Kind == SegmentLiteral {
			segments = append(segments, seg)
			continue
		}
		if seen[seg.Value] {
			return nil, fmt.Errorf("pattern %s: parameter %q declared twice", pattern, seg.Value)
		}
		seen[seg.Value] = true
		if seg.Kind == SegmentCatchAll && i != len(parts)-1 {
			return nil, fmt.Errorf("pattern %s: catch-all segment %s must be last", pattern, part)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

func parseSegment(part string) (Segment, error) {
	if part == "" {
		return Segment{}, fmt.Errorf("empty segment")
	}
	if !strings.HasPrefix(part, "[") && !strings.HasSuffix(part, "]") {
		return Segment{Kind: SegmentLiteral, Value: part}, nil
	}
	if !strings.HasPrefix(part, "[") || !strings.HasSuffix(part, "]") {
		return Segment{}, fmt.Errorf("unbalanced brackets in segment %s", part)
	}

	inner := part[1 : len(part)-1]
	kind := SegmentDynamic
	if strings.HasPrefix(inner, "...") {
		kind = SegmentCatchAll
		inner = inner[3:]
	}
	if !paramNameRegex.MatchString(inner) {
		return Segment{}, fmt.Errorf("invalid parameter name in segment %s", part)
	}
	return Segment{Kind: kind, Value: inner}, nil
}

// HasParams reports whether any segment binds a parameter.
func HasParams(segments []Segment) bool {
	for _, s := range segments {
		if s.Kind != SegmentLiteral {
			return true
		}
	}
	return false
}

// compileMatcher builds the anchored regular form of a pattern.
// [...name] matches one or more segments, [name] matches exactly one.
func compileMatcher(segments []Segment) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("^")
	for _, s := range segments {
		sb.WriteString("/")
		switch s.Kind {
		case SegmentCatchAll:
			sb.WriteString("(.+)")
		case SegmentDynamic:
			sb.WriteString("([^/]+)")
		default:
			sb.WriteString(regexp.QuoteMeta(s.Value))
		}
	}
	if len(segments) == 0 {
		sb.WriteString("/")
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

// specificity scores a pattern for the pattern pass. Higher scores are
// tried first: more segments beat fewer, and per segment
// literal > dynamic. Patterns ending in a catch-all sort after every
// pattern without one.
func specificity(segments []Segment) int {
	score := 0
	catchAll := false
	for _, s := range segments {
		switch s.Kind {
		case SegmentLiteral:
			score += 50
		case SegmentDynamic:
			score += 10
		case SegmentCatchAll:
			catchAll = true
		}
	}
	if catchAll {
		// Only literal prefixes distinguish catch-all routes.
		return score / 50
	}
	return len(segments)*100 + score
}

// trimTrailingSlash strips a single trailing slash unless p is "/".
func trimTrailingSlash(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}
