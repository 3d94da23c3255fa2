package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
	ansiDim   = "\033[2m"
)

var colorEnabled = true

// DisableColors turns off ANSI styling in Format.
func DisableColors() { colorEnabled = false }

// EnableColors turns ANSI styling back on.
func EnableColors() { colorEnabled = true }

func style(code, text string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return code + text + ansiReset
}

// Output selects how PrintError renders errors.
type Output int

const (
	// OutputText renders Format for a terminal.
	OutputText Output = iota
	// OutputJSON renders one FormatJSON object per line.
	OutputJSON
)

// field is one labelled line in the error header.
type field struct {
	label string
	value string
}

// fields lists what the error points at: the route, the page or content
// file, and the binding record.
func (e *FolioError) fields() []field {
	var fs []field
	if e.Route != "" {
		fs = append(fs, field{"route", e.Route})
	}
	if e.Location != nil {
		fs = append(fs, field{"file", e.Location.String()})
	}
	if e.Record != nil {
		fs = append(fs, field{"record", "#" + strconv.Itoa(*e.Record)})
	}
	if e.Wrapped != nil {
		fs = append(fs, field{"cause", e.Wrapped.Error()})
	}
	return fs
}

// Format returns the error formatted for terminal display:
//
//	E112 Invalid binding record
//
//	  route   /blog/[slug]
//	  file    ./blog/[slug]/page.html
//	  record  #3
//	  cause   value ".." for [slug] is a dot segment
//
//	  hint  Return non-empty values that are usable as path segments
func (e *FolioError) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	title := e.Message
	if e.Code != "" {
		title = e.Code + " " + title
	}
	b.WriteString(style(ansiRed+ansiBold, title))
	b.WriteString("\n\n")

	if fs := e.fields(); len(fs) > 0 {
		width := 0
		for _, f := range fs {
			width = max(width, len(f.label))
		}
		for _, f := range fs {
			fmt.Fprintf(&b, "  %s  %s\n", style(ansiDim, fmt.Sprintf("%-*s", width, f.label)), f.value)
		}
		b.WriteString("\n")
	}

	if e.Location != nil && len(e.Context) > 0 {
		writeSource(&b, e.Location, e.Context)
	}

	if e.Detail != "" {
		for _, line := range strings.Split(e.Detail, "\n") {
			for _, wrapped := range wrapText(line, 72) {
				b.WriteString("  " + wrapped + "\n")
			}
		}
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s  %s\n\n", style(ansiCyan, "hint"), e.Suggestion)
	}

	if e.Example != "" {
		for _, line := range strings.Split(e.Example, "\n") {
			b.WriteString("    " + line + "\n")
		}
		b.WriteString("\n")
	}

	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", style(ansiDim, "see"), e.DocURL)
	}

	return b.String()
}

// writeSource prints context lines centered on loc, marking its line.
func writeSource(b *strings.Builder, loc *Location, lines []string) {
	first := loc.Line - len(lines)/2
	for i, line := range lines {
		n := first + i
		marker := "  "
		if n == loc.Line {
			marker = style(ansiRed, "> ")
		}
		fmt.Fprintf(b, "  %s%4d | %s\n", marker, n, line)
	}
	b.WriteString("\n")
}

// FormatCompact returns the error on one line, for overlays and logs:
//
//	./blog/[slug]/page.html: E112: Invalid binding record (route /blog/[slug], record #3)
func (e *FolioError) FormatCompact() string {
	var b strings.Builder

	if e.Location != nil {
		b.WriteString(e.Location.String() + ": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code + ": ")
	}
	b.WriteString(e.Message)

	var refs []string
	if e.Route != "" {
		refs = append(refs, "route "+e.Route)
	}
	if e.Record != nil {
		refs = append(refs, "record #"+strconv.Itoa(*e.Record))
	}
	if len(refs) > 0 {
		b.WriteString(" (" + strings.Join(refs, ", ") + ")")
	}

	return b.String()
}

// jsonError is the machine-readable form of a FolioError.
type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category,omitempty"`
	Message    string   `json:"message"`
	Route      string   `json:"route,omitempty"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	Record     *int     `json:"record,omitempty"`
	Detail     string   `json:"detail,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      string   `json:"cause,omitempty"`
	DocURL     string   `json:"docUrl,omitempty"`
}

// FormatJSON returns the error as a single-line JSON object.
func (e *FolioError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Route:      e.Route,
		Record:     e.Record,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Location != nil {
		out.File, out.Line = e.Location.File, e.Location.Line
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes, splitting on
// spaces. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(text) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) > width:
			lines = append(lines, cur)
			cur = word
		default:
			cur += " " + word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// Fprint writes err to w. Typed errors from the router and the static
// path enumerator are lifted to coded errors first; anything else is
// printed with its plain message.
func Fprint(w io.Writer, err error, output Output) {
	fe := Lift(err)
	if fe == nil {
		fe = &FolioError{Message: err.Error()}
	}
	if output == OutputJSON {
		fmt.Fprintln(w, fe.FormatJSON())
		return
	}
	fmt.Fprint(w, fe.Format())
}

// PrintError writes err to stderr as text.
func PrintError(err error) {
	Fprint(os.Stderr, err, OutputText)
}
