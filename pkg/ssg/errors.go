package ssg

import "fmt"

// MissingGeneratorError reports a dynamic route that declares no
// static-parameter generator. It aborts enumeration rather than
// producing a site without that route.
type MissingGeneratorError struct {
	Route string
	File  string
}

func (e *MissingGeneratorError) Error() string {
	return fmt.Sprintf("route %s (%s) has dynamic segments but no static-parameter generator", e.Route, e.File)
}

// GeneratorError reports a static-parameter generator that failed.
type GeneratorError struct {
	Route string
	File  string
	Err   error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("route %s (%s): static-parameter generator: %v", e.Route, e.File, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

// BindingError reports a binding record that cannot fill its route.
// Index is the record's position in the generator output.
type BindingError struct {
	Route string
	File  string
	Index int
	Err   error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("route %s (%s): binding record %d: %v", e.Route, e.File, e.Index, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }

// RenderError reports a generated path that failed to render or write.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
