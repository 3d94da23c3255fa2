// Package router implements file-based routing for folio sites.
//
// The router provides:
//   - Route pattern compilation from page module locations
//   - Eager discovery of pages and layouts into an immutable Registry
//   - Exact-then-pattern path matching with parameter extraction
//   - Layout composition, root layout outermost
//   - Code generation of typed parameter structs
//
// # File Structure Convention
//
// Pages and layouts live under a pages root:
//
//	pages/
//	├── layout.html              → Layout for every route
//	├── (home)/
//	│   └── page.html            → /
//	├── about/
//	│   └── page.html            → /about
//	├── blog/
//	│   ├── layout.html          → Layout for /blog and below
//	│   ├── page.html            → /blog
//	│   └── [slug]/
//	│       └── page.html        → /blog/[slug]
//	└── docs/
//	    └── [...path]/
//	        └── page.html        → /docs/[...path]
//
// # Segments
//
//	about        literal
//	[slug]       dynamic, binds one segment
//	[...path]    catch-all, binds the remaining segments as a sequence
//	(home)       grouping, contributes no segment
//
// # Usage
//
//	reg, err := router.Discover(ctx, modules)
//	if err != nil {
//	    return err
//	}
//
//	m, ok := reg.Match("/blog/hello")
//	if ok {
//	    // m.Params.Get("slug") == "hello"
//	    err = router.Compose(m).Render(ctx, w)
//	}
package router
