package site

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/folio/internal/config"
)

func TestSourcesFor(t *testing.T) {
	t.Run("embedded when pages are missing", func(t *testing.T) {
		cfg, err := config.LoadOrDefault(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		src := SourcesFor(cfg)
		if _, err := fs.Stat(src.Pages, "layout.html"); err != nil {
			t.Errorf("embedded pages should hold the root layout: %v", err)
		}
	})

	t.Run("disk when pages exist", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := config.LoadOrDefault(dir)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(cfg.PagesPath(), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(cfg.PagesPath(), "marker.html"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		src := SourcesFor(cfg)
		if _, err := fs.Stat(src.Pages, "marker.html"); err != nil {
			t.Errorf("pages should be read from disk: %v", err)
		}
	})
}

func TestMetaFor(t *testing.T) {
	cfg := config.New()
	cfg.Site.Title = "Notes"
	cfg.Site.URL = "https://example.com"
	meta := MetaFor(cfg)
	if meta.Title != "Notes" || meta.URL != "https://example.com" {
		t.Errorf("MetaFor = %+v", meta)
	}
}

func TestAssetSource(t *testing.T) {
	cfg, err := config.LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Stat(AssetSource(cfg), "theme.ts"); err != nil {
		t.Errorf("embedded assets should hold theme.ts: %v", err)
	}

	if err := os.MkdirAll(cfg.AssetsPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.AssetsPath(), "custom.ts"), []byte("export {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Stat(AssetSource(cfg), "custom.ts"); err != nil {
		t.Errorf("assets should be read from disk: %v", err)
	}
}

func TestPublicFS(t *testing.T) {
	cfg, err := config.LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if PublicFS(cfg) != nil {
		t.Error("PublicFS should be nil without a public directory")
	}

	if err := os.MkdirAll(cfg.PublicPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.PublicPath(), "robots.txt"), []byte("User-agent: *"), 0o644); err != nil {
		t.Fatal(err)
	}
	fsys := PublicFS(cfg)
	if fsys == nil {
		t.Fatal("PublicFS should find the public directory")
	}
	if _, err := fs.Stat(fsys, "robots.txt"); err != nil {
		t.Errorf("robots.txt: %v", err)
	}
}
