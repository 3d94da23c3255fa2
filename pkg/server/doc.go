// Package server serves a folio site over HTTP.
//
// Every path not claimed by a fixed route goes through the same steps:
//
//  1. The payload suffix "_.rsc" is split off.
//  2. The path is canonicalized. Malformed paths answer 400; paths that
//     differ from their canonical form redirect to it.
//  3. A file under the public tree answers the request when present.
//  4. The engine matches the path and renders either the full document
//     or the component stream into a buffer.
//
// Unmatched paths and data loaders reporting render.ErrNotFound answer
// 404 with the not-found document. Any other render error answers a
// generic 500 page; the error text is included only in dev mode.
//
// Fixed routes:
//
//	/healthz     liveness probe
//	/metrics     Prometheus metrics, when ServerConfig.Metrics is set
//	/assets/*    bundled client assets, when ServerConfig.Assets is set
//
// Usage:
//
//	srv := server.New(engine, &server.ServerConfig{Address: ":3000"})
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package server
