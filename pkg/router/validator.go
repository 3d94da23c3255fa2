package router

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// Route Validation
// =============================================================================

// Validator validates discovered routes for conflicts and errors.
type Validator struct {
	entries []*RouteEntry
	errors  []ValidationError
}

// ValidationError represents a route validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Files are the page modules involved
	Files []string

	// Path is the offending route pattern
	Path string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateRoute indicates multiple pages compile to the same pattern.
	// Example: (home)/page.html and page.html both compile to /
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorMalformedPattern indicates a pattern that cannot be parsed.
	// Example: docs/[...path]/edit/page.html places a catch-all before a literal
	ErrorMalformedPattern ValidationErrorType = "MALFORMED_PATTERN"

	// ErrorAmbiguousRoute indicates dynamic routes that match the same paths
	// under different parameter names, so one can never be reached.
	// Example: blog/[slug]/page.html and blog/[id]/page.html
	ErrorAmbiguousRoute ValidationErrorType = "AMBIGUOUS_ROUTE"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Has reports whether any contained error has the given type.
func (e *MultiValidationError) Has(t ValidationErrorType) bool {
	for _, err := range e.Errors {
		if err.Type == t {
			return true
		}
	}
	return false
}

// NewValidator creates a new route validator. Entries need PagePath and
// Route set; Segments is filled in for every entry whose pattern parses.
func NewValidator(entries []*RouteEntry) *Validator {
	return &Validator{
		entries: entries,
	}
}

// Validate checks all routes for conflicts and errors.
// Returns nil if all routes are valid, or a MultiValidationError with all errors.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validatePatterns()
	v.validateDuplicateRoutes()
	v.validateAmbiguousRoutes()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validatePatterns parses every pattern.
func (v *Validator) validatePatterns() {
	for _, e := range v.entries {
		segments, err := ParsePattern(e.Route)
		if err != nil {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorMalformedPattern,
				Message: fmt.Sprintf("Malformed route pattern %s", e.Route),
				Path:    e.Route,
				Files:   []string{e.PagePath},
				Details: err.Error(),
			})
			continue
		}
		e.Segments = segments
	}
}

// validateDuplicateRoutes checks for pages that compile to the same pattern.
// Example: (blog)/posts/page.html and posts/page.html both → /posts
func (v *Validator) validateDuplicateRoutes() {
	byPath := make(map[string][]string)
	for _, e := range v.entries {
		byPath[e.Route] = append(byPath[e.Route], e.PagePath)
	}

	for _, path := range sortedKeys(byPath) {
		files := byPath[path]
		if len(files) <= 1 {
			continue
		}

		v.errors = append(v.errors, ValidationError{
			Type:    ErrorDuplicateRoute,
			Message: fmt.Sprintf("Duplicate route detected at %s", path),
			Path:    path,
			Files:   files,
			Details: fmt.Sprintf("Files: %s", strings.Join(files, ", ")),
		})
	}
}

// validateAmbiguousRoutes checks for distinct dynamic patterns with the
// same shape, such as /blog/[slug] and /blog/[id].
func (v *Validator) validateAmbiguousRoutes() {
	type entryRef struct {
		route string
		file  string
	}
	byShape := make(map[string][]entryRef)

	for _, e := range v.entries {
		if e.Segments == nil || !HasParams(e.Segments) {
			continue
		}
		shape := routeShape(e.Segments)
		refs := byShape[shape]
		duplicate := false
		for _, r := range refs {
			if r.route == e.Route {
				duplicate = true
				break
			}
		}
		if duplicate {
			// Already reported as a duplicate route.
			continue
		}
		byShape[shape] = append(refs, entryRef{route: e.Route, file: e.PagePath})
	}

	for _, shape := range sortedKeys(byShape) {
		refs := byShape[shape]
		if len(refs) <= 1 {
			continue
		}

		files := make([]string, len(refs))
		routes := make([]string, len(refs))
		for i, r := range refs {
			files[i] = r.file
			routes[i] = r.route
		}

		v.errors = append(v.errors, ValidationError{
			Type:    ErrorAmbiguousRoute,
			Message: fmt.Sprintf("Ambiguous dynamic routes at %s", shape),
			Path:    shape,
			Files:   files,
			Details: fmt.Sprintf("Routes: %s", strings.Join(routes, " vs ")),
		})
	}
}

// routeShape replaces parameter names with placeholders.
func routeShape(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString("/")
		switch s.Kind {
		case SegmentDynamic:
			sb.WriteString("[]")
		case SegmentCatchAll:
			sb.WriteString("[...]")
		default:
			sb.WriteString(s.Value)
		}
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// Route Specificity Sorting
// =============================================================================

// SortBySpecificity sorts entries in pattern-pass order:
//   - More segments before fewer
//   - Literal segments before dynamic segments
//   - Catch-all routes last
//
// Ties keep their discovery order.
func SortBySpecificity(entries []*RouteEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].specificity != entries[j].specificity {
			return entries[i].specificity > entries[j].specificity
		}
		return entries[i].order < entries[j].order
	})
}

// FormatValidationError formats a validation error for display:
//
//	ERROR: Duplicate route detected at /
//	  ./(home)/page.html → /
//	  ./page.html → /
func FormatValidationError(err ValidationError) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ERROR: %s\n", err.Message))

	for _, file := range err.Files {
		sb.WriteString(fmt.Sprintf("  %s → %s\n", file, err.Path))
	}

	if err.Details != "" {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", err.Details))
	}

	return sb.String()
}
