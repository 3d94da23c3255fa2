package ssg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vango-dev/folio/pkg/render"
)

// Sink stores build outputs. Names are slash-separated and relative,
// e.g. "blog/hello/index.html".
type Sink interface {
	Write(ctx context.Context, name, contentType string, r io.Reader) error
}

// HTMLFile returns the document output name for a generated path:
// "p/index.html" when p ends in "/", "p.html" otherwise.
func HTMLFile(p string) string {
	if strings.HasSuffix(p, "/") {
		return outputName(p + "index.html")
	}
	return outputName(p + ".html")
}

// PayloadFile returns the component-stream output name for a generated path.
func PayloadFile(p string) string {
	return outputName(p + render.PayloadSuffix)
}

func outputName(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// DirSink writes outputs below a local directory, streaming each one
// straight to disk.
type DirSink struct {
	Root string
}

// NewDirSink creates a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Root: dir}
}

// Write implements Sink.
func (s *DirSink) Write(ctx context.Context, name, contentType string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := outputName(name)
	if clean == "" {
		return fmt.Errorf("invalid output name %q", name)
	}
	target := filepath.Join(s.Root, filepath.FromSlash(clean))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", clean, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", clean, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("write %s: %w", clean, err)
	}
	return f.Close()
}
