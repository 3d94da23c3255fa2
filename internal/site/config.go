package site

import (
	"io/fs"
	"os"

	"github.com/vango-dev/folio/internal/assets"
	"github.com/vango-dev/folio/internal/config"
)

// SourcesFor returns the sources named by cfg when its pages directory
// exists on disk, and the embedded sources otherwise.
func SourcesFor(cfg *config.Config) Sources {
	if info, err := os.Stat(cfg.PagesPath()); err == nil && info.IsDir() {
		return DirSources(cfg.PagesPath(), cfg.ComponentsPath(), cfg.PostsPath(), cfg.DocsPath())
	}
	return Embedded()
}

// MetaFor returns the site metadata configured in cfg.
func MetaFor(cfg *config.Config) Meta {
	return Meta{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		URL:         cfg.Site.URL,
	}
}

// AssetSource returns the asset directory of cfg when it exists, and the
// embedded client sources otherwise.
func AssetSource(cfg *config.Config) fs.FS {
	if info, err := os.Stat(cfg.AssetsPath()); err == nil && info.IsDir() {
		return os.DirFS(cfg.AssetsPath())
	}
	return assets.Source()
}

// PublicFS returns the public directory of cfg, or nil when there is none.
func PublicFS(cfg *config.Config) fs.FS {
	if info, err := os.Stat(cfg.PublicPath()); err == nil && info.IsDir() {
		return os.DirFS(cfg.PublicPath())
	}
	return nil
}
