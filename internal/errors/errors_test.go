package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/folio/internal/content"
	"github.com/vango-dev/folio/pkg/router"
	"github.com/vango-dev/folio/pkg/ssg"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "discovery error",
			code:    "E100",
			wantMsg: "Module discovery failed",
			wantCat: CategoryDiscovery,
		},
		{
			name:    "enumeration error",
			code:    "E110",
			wantMsg: "Dynamic route has no static-parameter generator",
			wantCat: CategoryEnumeration,
		},
		{
			name:    "config error",
			code:    "E121",
			wantMsg: "Config parse error",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryBuild, "output %q is not a directory", "dist")
	if err.Message != `output "dist" is not a directory` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryBuild {
		t.Errorf("Category = %q, want %q", err.Category, CategoryBuild)
	}
}

func TestFolioError_Error(t *testing.T) {
	err := New("E140")
	if got, want := err.Error(), "E140: Build failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.Wrap(fmt.Errorf("disk full"))
	if got, want := err.Error(), "E140: Build failed: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &FolioError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestFolioError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "hello.md")
	body := "---\ntitle: Hello\ndate: yesterday\n---\n\nBody\n"
	if err := os.WriteFile(tmpFile, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E125").WithLocation(tmpFile, 3, 7)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile || err.Location.Line != 3 || err.Location.Column != 7 {
		t.Errorf("Location = %+v", err.Location)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}
}

func TestFolioError_Builders(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := New("E130").
		WithDetail("custom detail").
		WithSuggestion("check the page").
		WithExample("{{ .Params }}").
		WithFile("./about/page.html").
		Wrap(inner)

	if err.Detail != "custom detail" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "check the page" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Example != "{{ .Params }}" {
		t.Errorf("Example = %q", err.Example)
	}
	if err.Location.String() != "./about/page.html" {
		t.Errorf("Location = %q", err.Location.String())
	}
	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E140") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	fe := New("E140")
	if FromError(fe, "E131") != fe {
		t.Error("FromError should return FolioError as-is")
	}

	stdErr := fmt.Errorf("test error")
	result := FromError(stdErr, "E131")
	if result.Wrapped != stdErr || result.Code != "E131" {
		t.Errorf("FromError = %+v", result)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "file only", loc: &Location{File: "posts/a.md"}, want: "posts/a.md"},
		{name: "with column", loc: &Location{File: "a.md", Line: 10, Column: 5}, want: "a.md:10:5"},
		{name: "without column", loc: &Location{File: "a.md", Line: 10}, want: "a.md:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLift(t *testing.T) {
	cause := fmt.Errorf("cause")
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantFile string
	}{
		{
			name:     "discovery",
			err:      &router.DiscoveryError{Kind: router.KindPage, File: "./blog/page.html", Err: cause},
			wantCode: "E100",
			wantFile: "./blog/page.html",
		},
		{
			name: "validation",
			err: &router.MultiValidationError{Errors: []router.ValidationError{{
				Type:    router.ErrorDuplicateRoute,
				Message: "Duplicate route detected at /",
				Path:    "/",
				Files:   []string{"./(home)/page.html", "./page.html"},
			}}},
			wantCode: "E101",
		},
		{
			name:     "missing generator",
			err:      fmt.Errorf("enumerate: %w", &ssg.MissingGeneratorError{Route: "/blog/[slug]", File: "./blog/[slug]/page.html"}),
			wantCode: "E110",
			wantFile: "./blog/[slug]/page.html",
		},
		{
			name:     "generator",
			err:      &ssg.GeneratorError{Route: "/tags/[slug]", File: "./tags/[slug]/page.html", Err: cause},
			wantCode: "E111",
			wantFile: "./tags/[slug]/page.html",
		},
		{
			name:     "binding",
			err:      &ssg.BindingError{Route: "/blog/[slug]", File: "./blog/[slug]/page.html", Index: 2, Err: cause},
			wantCode: "E112",
			wantFile: "./blog/[slug]/page.html",
		},
		{
			name:     "render",
			err:      &ssg.RenderError{Path: "/about/", Err: cause},
			wantCode: "E130",
		},
		{
			name:     "document",
			err:      &content.DocumentError{File: "posts/hello.md", Line: 2, Err: cause},
			wantCode: "E125",
			wantFile: "posts/hello.md:2",
		},
		{
			name:     "already coded",
			err:      fmt.Errorf("wrap: %w", New("E142")),
			wantCode: "E142",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Lift(tt.err)
			if fe == nil {
				t.Fatal("Lift returned nil")
			}
			if fe.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", fe.Code, tt.wantCode)
			}
			if got := fe.Location.String(); got != tt.wantFile {
				t.Errorf("Location = %q, want %q", got, tt.wantFile)
			}
		})
	}

	if Lift(nil) != nil {
		t.Error("Lift(nil) should be nil")
	}
	if Lift(fmt.Errorf("plain")) != nil {
		t.Error("Lift should not code unknown errors")
	}
}

func TestLiftValidationDetail(t *testing.T) {
	err := &router.MultiValidationError{Errors: []router.ValidationError{{
		Type:    router.ErrorDuplicateRoute,
		Message: "Duplicate route detected at /",
		Path:    "/",
		Files:   []string{"./(home)/page.html", "./page.html"},
	}}}

	fe := Lift(err)
	for _, want := range []string{"./(home)/page.html", "./page.html", "Duplicate route"} {
		if !strings.Contains(fe.Detail, want) {
			t.Errorf("Detail missing %q:\n%s", want, fe.Detail)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := Lift(&ssg.BindingError{
		Route: "/blog/[slug]",
		File:  "./blog/[slug]/page.html",
		Index: 3,
		Err:   fmt.Errorf(`value ".." for [slug] is a dot segment`),
	})

	formatted := err.Format()

	for _, want := range []string{
		"E112 Invalid binding record",
		"  route   /blog/[slug]\n",
		"  file    ./blog/[slug]/page.html\n",
		"  record  #3\n",
		`  cause   value ".." for [slug] is a dot segment`,
		"hint  Return non-empty values",
		"see https://folio.vango.dev/docs/errors/E112",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormat_MissingGenerator(t *testing.T) {
	DisableColors()
	defer EnableColors()

	formatted := Lift(&ssg.MissingGeneratorError{Route: "/blog/[slug]", File: "./blog/[slug]/page.html"}).Format()

	for _, want := range []string{
		"E110 Dynamic route has no static-parameter generator",
		"route  /blog/[slug]",
		"file   ./blog/[slug]/page.html",
		"StaticParams: func(ctx context.Context)",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format missing %q:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "record") {
		t.Errorf("Format should not show a record:\n%s", formatted)
	}
}

func TestFormat_Source(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E125").WithContext([]string{"---", "title: [", "---"})
	err.Location = &Location{File: "posts/hello.md", Line: 2}

	formatted := err.Format()
	if !strings.Contains(formatted, ">    2 | title: [") {
		t.Errorf("Format should mark line 2:\n%s", formatted)
	}
	if !strings.Contains(formatted, "     1 | ---") {
		t.Errorf("Format should show line 1:\n%s", formatted)
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		name string
		err  *FolioError
		want string
	}{
		{
			name: "location",
			err:  New("E125").WithLocation("hello.md", 10, 5),
			want: "hello.md:10:5: E125: Invalid content document",
		},
		{
			name: "route and record",
			err:  New("E112").WithFile("./blog/[slug]/page.html").WithRoute("/blog/[slug]").WithRecord(0),
			want: "./blog/[slug]/page.html: E112: Invalid binding record (route /blog/[slug], record #0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.FormatCompact(); got != tt.want {
				t.Errorf("FormatCompact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E131").Wrap(fmt.Errorf("permission denied"))
	out := err.FormatJSON()

	for _, want := range []string{
		`"code":"E131"`,
		`"category":"render"`,
		`"message":"Output write failed"`,
		`"cause":"permission denied"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, `"record"`) {
		t.Errorf("JSON should omit record: %s", out)
	}
}

func TestFprint(t *testing.T) {
	binding := &ssg.BindingError{Route: "/docs/[...path]", File: "./docs/[...path]/page.html", Index: 0, Err: fmt.Errorf("empty value")}

	t.Run("json", func(t *testing.T) {
		var buf strings.Builder
		Fprint(&buf, binding, OutputJSON)

		var got map[string]any
		if err := json.Unmarshal([]byte(buf.String()), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
		}
		if got["code"] != "E112" || got["route"] != "/docs/[...path]" || got["file"] != "./docs/[...path]/page.html" {
			t.Errorf("unexpected fields: %v", got)
		}
		if got["record"] != float64(0) {
			t.Errorf("record = %v, want 0", got["record"])
		}
		if !strings.HasSuffix(buf.String(), "}\n") {
			t.Errorf("output should be one line: %q", buf.String())
		}
	})

	t.Run("text", func(t *testing.T) {
		DisableColors()
		defer EnableColors()

		var buf strings.Builder
		Fprint(&buf, fmt.Errorf("plain failure"), OutputText)
		if !strings.Contains(buf.String(), "plain failure") {
			t.Errorf("output = %q", buf.String())
		}
	})
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %v", codes)
			break
		}
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("E112")
	if !ok {
		t.Fatal("E112 should exist")
	}
	if template.Category != CategoryEnumeration {
		t.Errorf("Category = %q", template.Category)
	}

	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryBuild,
		Message:  "Custom test error",
	})
	defer delete(registry, "E999")

	if err := New("E999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got = wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(style(ansiRed, "test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(style(ansiRed, "test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
