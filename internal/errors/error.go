package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryDiscovery   Category = "discovery"
	CategoryValidation  Category = "validation"
	CategoryEnumeration Category = "enumeration"
	CategoryRender      Category = "render"
	CategoryConfig      Category = "config"
	CategoryContent     Category = "content"
	CategoryBuild       Category = "build"
	CategoryCLI         Category = "cli"
)

// Location represents a position in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line == 0 {
		return l.File
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// FolioError is a structured error with a code, source location and a hint.
type FolioError struct {
	// Code is a unique error identifier (e.g., "E110").
	Code string

	// Category is the error type (discovery, enumeration, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file the error refers to, if any.
	Location *Location

	// Route is the route pattern the error refers to, if any.
	Route string

	// Record is the index of the offending binding record in its
	// generator's output, or nil.
	Record *int

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FolioError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FolioError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds source location to the error. Context lines are read
// from the file when it exists on disk.
func (e *FolioError) WithLocation(file string, line, column int) *FolioError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if line > 0 {
		e.Context = readContextLines(file, line, 5)
	}
	return e
}

// WithFile names the file the error refers to without a line.
func (e *FolioError) WithFile(file string) *FolioError {
	e.Location = &Location{File: file}
	return e
}

// WithRoute names the route pattern the error refers to.
func (e *FolioError) WithRoute(route string) *FolioError {
	e.Route = route
	return e
}

// WithRecord names the offending binding record by its index.
func (e *FolioError) WithRecord(index int) *FolioError {
	e.Record = &index
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FolioError) WithSuggestion(s string) *FolioError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *FolioError) WithExample(ex string) *FolioError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *FolioError) WithDetail(d string) *FolioError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *FolioError) WithContext(lines []string) *FolioError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *FolioError) Wrap(err error) *FolioError {
	e.Wrapped = err
	return e
}

func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a FolioError from a registered error code.
func New(code string) *FolioError {
	template, ok := registry[code]
	if !ok {
		return &FolioError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FolioError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new FolioError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FolioError {
	return &FolioError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a FolioError.
func FromError(err error, code string) *FolioError {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FolioError); ok {
		return fe
	}
	return New(code).Wrap(err)
}
