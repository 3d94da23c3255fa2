package router

import (
	"strings"
	"testing"
)

func entriesFor(pages map[string]string) []*RouteEntry {
	var entries []*RouteEntry
	for _, file := range sortedKeys(pages) {
		entries = append(entries, &RouteEntry{PagePath: file, Route: pages[file]})
	}
	return entries
}

func TestValidatorDuplicateRoutes(t *testing.T) {
	v := NewValidator(entriesFor(map[string]string{
		"./posts/page.html":        "/posts",
		"./(blog)/posts/page.html": "/posts",
		"./about/page.html":        "/about",
	}))

	err := v.Validate()
	if err == nil {
		t.Fatal("expected duplicate route error")
	}

	mve := err.(*MultiValidationError)
	if len(mve.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(mve.Errors), mve)
	}
	got := mve.Errors[0]
	if got.Type != ErrorDuplicateRoute {
		t.Errorf("Type = %s, want %s", got.Type, ErrorDuplicateRoute)
	}
	if got.Path != "/posts" {
		t.Errorf("Path = %q, want /posts", got.Path)
	}
	if len(got.Files) != 2 {
		t.Errorf("Files = %v, want 2 files", got.Files)
	}
}

func TestValidatorMalformedPattern(t *testing.T) {
	v := NewValidator(entriesFor(map[string]string{
		"./docs/[...path]/edit/page.html": "/docs/[...path]/edit",
	}))

	err := v.Validate()
	if err == nil {
		t.Fatal("expected malformed pattern error")
	}
	mve := err.(*MultiValidationError)
	if !mve.Has(ErrorMalformedPattern) {
		t.Errorf("errors = %v, want MALFORMED_PATTERN", mve.Errors)
	}
	if !strings.Contains(err.Error(), "must be last") {
		t.Errorf("error %q should explain the catch-all position", err)
	}
}

func TestValidatorAmbiguousRoutes(t *testing.T) {
	v := NewValidator(entriesFor(map[string]string{
		"./blog/[slug]/page.html": "/blog/[slug]",
		"./blog/[id]/page.html":   "/blog/[id]",
		"./docs/[...a]/page.html": "/docs/[...a]",
		"./docs/[b]/page.html":    "/docs/[b]",
	}))

	err := v.Validate()
	if err == nil {
		t.Fatal("expected ambiguous route error")
	}
	mve := err.(*MultiValidationError)
	if len(mve.Errors) != 1 || mve.Errors[0].Type != ErrorAmbiguousRoute {
		t.Fatalf("errors = %v, want one AMBIGUOUS_ROUTE", mve.Errors)
	}
	if mve.Errors[0].Path != "/blog/[]" {
		t.Errorf("Path = %q, want /blog/[]", mve.Errors[0].Path)
	}
}

func TestValidatorValid(t *testing.T) {
	v := NewValidator(entriesFor(map[string]string{
		"./page.html":             "/",
		"./blog/page.html":        "/blog",
		"./blog/[slug]/page.html": "/blog/[slug]",
	}))

	if err := v.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestMultiValidationErrorMessage(t *testing.T) {
	err := &MultiValidationError{Errors: []ValidationError{
		{Type: ErrorDuplicateRoute, Message: "Duplicate route detected at /a"},
		{Type: ErrorAmbiguousRoute, Message: "Ambiguous dynamic routes at /b/[]"},
	}}

	msg := err.Error()
	if !strings.HasPrefix(msg, "2 route validation errors:") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, "  1. DUPLICATE_ROUTE") || !strings.Contains(msg, "  2. AMBIGUOUS_ROUTE") {
		t.Errorf("message should number every error: %q", msg)
	}
}

func TestFormatValidationError(t *testing.T) {
	out := FormatValidationError(ValidationError{
		Type:    ErrorDuplicateRoute,
		Message: "Duplicate route detected at /",
		Path:    "/",
		Files:   []string{"./(home)/page.html", "./page.html"},
	})

	for _, want := range []string{
		"ERROR: Duplicate route detected at /",
		"./(home)/page.html → /",
		"./page.html → /",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
