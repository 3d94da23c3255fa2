// Package errors provides structured, actionable error messages for folio.
//
// Library packages under pkg/ return typed errors (router.DiscoveryError,
// ssg.MissingGeneratorError, ssg.BindingError and so on). The command line
// lifts them into a FolioError carrying a stable code, a category, the file
// involved and a hint, and prints them with Format.
//
// # Error Codes
//
//	E100-E109  discovery and route validation
//	E110-E119  static path enumeration
//	E120-E129  configuration and content
//	E130-E139  rendering and output writes
//	E140-E149  build
//	E150-E159  command line
//
// # Usage
//
//	res, err := ssg.Enumerate(ctx, reg)
//	if err != nil {
//	    errors.PrintError(err)
//	    // E110 Dynamic route has no static-parameter generator
//	    //
//	    //   route  /blog/[slug]
//	    //   file   ./blog/[slug]/page.html
//	    //
//	    //   hint  Register a StaticParams export for the page
//	}
//
// Fprint with OutputJSON writes the same error as one JSON object, which
// the command line uses when logging is configured as JSON.
package errors
