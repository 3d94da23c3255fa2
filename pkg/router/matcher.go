package router

import "github.com/vango-dev/folio/pkg/routepath"

// Match finds the route for pathname.
//
// The pathname loses a single trailing slash (except for "/"). An exact
// comparison against every route pattern runs first, in insertion order;
// only if nothing matches are dynamic routes tried, most specific first.
// A false result means the path is not found.
func (r *Registry) Match(pathname string) (*MatchResult, bool) {
	pathname = trimTrailingSlash(pathname)
	if pathname == "" {
		pathname = "/"
	}

	for _, e := range r.entries {
		if trimTrailingSlash(e.Route) == pathname {
			return &MatchResult{Entry: e, Params: extractParams(e.Segments, pathname)}, true
		}
	}

	for _, e := range r.dynamic {
		if e.matcher.MatchString(pathname) {
			return &MatchResult{Entry: e, Params: extractParams(e.Segments, pathname)}, true
		}
	}

	return nil, false
}

// decodeSegment percent-decodes a bound value. Values that fail to decode
// are kept as written.
func decodeSegment(segment string, catchAll bool) string {
	decoded, err := routepath.DecodeSegment(segment, catchAll)
	if err != nil {
		return segment
	}
	return decoded
}
