package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/vango-dev/folio/pkg/middleware"
	"github.com/vango-dev/folio/pkg/render"
	"github.com/vango-dev/folio/pkg/routepath"
)

// serve answers every path not claimed by another route: public files,
// then documents and component streams.
func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.EscapedPath()
	pathname, payload := render.SplitPayloadPath(raw)

	canon, err := routepath.Canonicalize(pathname)
	if err != nil {
		s.logger.Debug("rejected path", "path", raw, "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if !payload && canon.Path != trimTrailingSlash(pathname) {
		target := canon.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	if !payload && s.servePublic(w, r, canon.Path) {
		return
	}

	if m, ok := s.engine.Resolve(canon.Path); ok {
		middleware.SetRoute(r.Context(), m.Entry.Route)
	}

	if payload {
		s.servePayload(w, r, canon.Path)
		return
	}
	s.serveDocument(w, r, canon.Path)
}

func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, pathname string) {
	var buf bytes.Buffer
	found, err := s.engine.RenderDocument(r.Context(), &buf, pathname)
	if errors.Is(err, render.ErrNotFound) {
		found = false
		buf.Reset()
		err = s.engine.RenderNotFound(r.Context(), &buf)
	}
	if err != nil {
		s.renderFailed(w, r, pathname, err)
		return
	}

	status := http.StatusOK
	if !found {
		status = http.StatusNotFound
	}
	s.write(w, r, status, render.HTMLContentType, buf.Bytes())
}

func (s *Server) servePayload(w http.ResponseWriter, r *http.Request, pathname string) {
	var buf bytes.Buffer
	found, err := s.engine.RenderPayload(r.Context(), &buf, pathname)
	if errors.Is(err, render.ErrNotFound) {
		found = false
		buf.Reset()
		err = json.NewEncoder(&buf).Encode(render.Record{Type: render.RecordNotFound, Path: pathname})
	}
	if err != nil {
		s.renderFailed(w, r, pathname, err)
		return
	}

	status := http.StatusOK
	if !found {
		status = http.StatusNotFound
	}
	s.write(w, r, status, render.PayloadContentType, buf.Bytes())
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(body)
	}
}

// renderFailed answers a render error with a generic 500 page. Details
// reach the browser only in dev mode.
func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, pathname string, err error) {
	s.logger.Error("render failed", "path", pathname, "error", err)

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><title>Server error</title></head><body><h1>Server error</h1>")
	if s.config.Dev {
		sb.WriteString("<pre>")
		sb.WriteString(html.EscapeString(err.Error()))
		sb.WriteString("</pre>")
	}
	sb.WriteString("</body></html>")
	s.write(w, r, http.StatusInternalServerError, render.HTMLContentType, []byte(sb.String()))
}

// servePublic serves a regular file from the public tree when one exists
// at pathname.
func (s *Server) servePublic(w http.ResponseWriter, r *http.Request, pathname string) bool {
	if s.config.Public == nil || pathname == "/" {
		return false
	}
	name, err := url.PathUnescape(strings.TrimPrefix(path.Clean(pathname), "/"))
	if err != nil || !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(s.config.Public, name)
	if err != nil || info.IsDir() {
		return false
	}
	middleware.SetRoute(r.Context(), "public")
	http.ServeFileFS(w, r, s.config.Public, name)
	return true
}

func trimTrailingSlash(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}
