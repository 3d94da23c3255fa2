// Package render turns matched routes into output.
//
// A Loader reads html/template page and layout modules from a file system
// and implements router.Modules. An Engine renders a match in one of two
// forms:
//
//   - the document: the page nested in its layouts, root layout outermost
//   - the component stream: newline-delimited JSON records describing the
//     route, its layouts and the rendered page, used for client navigation
//
// A request path ending in PayloadSuffix asks for the component stream:
//
//	GET /blog/hello/      → document
//	GET /blog/hello/_.rsc → component stream
//
// # Templates
//
// Every module executes with a View. Layouts place their child with
// {{.Children}}; pages read parameters with {{.Params.slug}} and
// per-module data loaded by the module's Data export with {{.Data}}.
package render
