// Package build produces the static output of a folio site.
//
// A build runs these steps, stopping at the first failure:
//   - Clean the output directory (optional)
//   - Bundle the client assets with esbuild
//   - Discover the route registry from the site modules
//   - Enumerate every static path
//   - Prerender each path into an HTML document and a component stream
//   - Copy public files
//   - Write the build manifest
//
// # Usage
//
//	builder := build.New(cfg, build.Options{Minify: true})
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Printf("Built %d pages in %s\n", result.Pages, result.Duration)
//
// # Output Structure
//
//	dist/
//	├── index.html            # /
//	├── _.rsc                 # component stream of /
//	├── blog/
//	│   └── hello-world/
//	│       ├── index.html
//	│       └── _.rsc
//	├── 404.html
//	├── assets/               # hashed client bundles
//	├── robots.txt            # copied from public/
//	└── manifest.json
//
// Outputs go through an ssg.Sink, so the same build can upload to S3.
package build
