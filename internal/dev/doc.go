// Package dev runs the development server.
//
// The dev server renders the site in process, reading pages, components,
// posts, docs and client assets straight from disk. A watcher observes
// those directories and, after a burst of changes settles, the site is
// rebuilt wholesale: assets are rebundled, the modules are reloaded and a
// fresh route registry replaces the old one in the engine. A failed
// rebuild leaves the previous site in place.
//
// # Components
//
//   - Watcher: fsnotify over the project directories, with doublestar
//     ignore patterns and debounce
//   - ReloadServer: notifies browsers over a WebSocket
//   - Server: ties both to a pkg/server instance in dev mode
//
// # Reload Protocol
//
// The browser connects to /__folio/reload. Messages are JSON-encoded:
//
//	{"type": "reload"}                  // reload the page
//	{"type": "error", "message": "..."} // a rebuild failed
package dev
