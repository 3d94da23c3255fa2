// Package ssg enumerates the concrete URLs of a site and prerenders them.
//
// Enumerate turns a router.Registry into the ordered set of paths to
// render: static routes contribute their pattern, dynamic routes
// contribute one path per binding record returned by their
// static-parameter generator. Build then renders every path once and
// streams both outputs into a Sink:
//
//	/               → index.html   + _.rsc
//	/blog/          → blog/index.html + blog/_.rsc
//	/blog/hello/    → blog/hello/index.html + blog/hello/_.rsc
package ssg
