package site

import (
	"context"
	"strings"

	"github.com/vango-dev/folio/pkg/render"
	"github.com/vango-dev/folio/pkg/router"
)

// catchallDemo are the bindings the catch-all demo page is built with.
var catchallDemo = [][]string{
	{"a"},
	{"a", "b"},
	{"nested", "path", "demo"},
}

func (s *Site) exports() map[string]render.Exports {
	return map[string]render.Exports{
		"./(home)/page.html": {
			Data: func(context.Context, router.Params) (any, error) {
				return s.posts.Latest(5), nil
			},
		},
		"./blog/page.html": {
			Data: func(context.Context, router.Params) (any, error) {
				return s.posts.All(), nil
			},
		},
		"./blog/[slug]/page.html": {
			Data:         s.post,
			StaticParams: s.postParams,
		},
		"./category/[category]/page.html": {
			Data: func(_ context.Context, params router.Params) (any, error) {
				docs := s.posts.ByCategory(params.Get("category"))
				if len(docs) == 0 {
					return nil, render.ErrNotFound
				}
				return docs, nil
			},
			StaticParams: s.categoryParams,
		},
		"./category/[category]/[slug]/page.html": {
			Data: func(_ context.Context, params router.Params) (any, error) {
				var p CategoryCategorySlugParams
				if err := router.Decode(params, &p); err != nil {
					return nil, err
				}
				post, ok := s.posts.Get(p.Slug)
				if !ok || post.Category != p.Category {
					return nil, render.ErrNotFound
				}
				return post, nil
			},
			StaticParams: s.categoryPostParams,
		},
		"./tags/[slug]/page.html": {
			Data: func(_ context.Context, params router.Params) (any, error) {
				docs := s.posts.ByTag(params.Get("slug"))
				if len(docs) == 0 {
					return nil, render.ErrNotFound
				}
				return docs, nil
			},
			StaticParams: router.StaticStrings(func(context.Context) ([]string, error) {
				return s.posts.Tags(), nil
			}),
		},
		"./docs/page.html": {
			Data: func(context.Context, router.Params) (any, error) {
				return s.docs.All(), nil
			},
		},
		"./docs/[...path]/layout.html": {
			Data: func(context.Context, router.Params) (any, error) {
				return s.docs.All(), nil
			},
		},
		"./docs/[...path]/page.html": {
			Data: func(_ context.Context, params router.Params) (any, error) {
				var p DocsPathParams
				if err := router.Decode(params, &p); err != nil {
					return nil, err
				}
				doc, ok := s.docs.Get(strings.Join(p.Path, "/"))
				if !ok {
					return nil, render.ErrNotFound
				}
				return doc, nil
			},
			StaticParams: func(context.Context) ([]router.Params, error) {
				docs := s.docs.All()
				records := make([]router.Params, len(docs))
				for i, d := range docs {
					records[i] = DocsPathParams{Path: d.Segments()}.Params()
				}
				return records, nil
			},
		},
		"./catchall/[...slug]/page.html": {
			StaticParams: router.StaticSegments(func(context.Context) ([][]string, error) {
				return catchallDemo, nil
			}),
		},
	}
}

func (s *Site) post(_ context.Context, params router.Params) (any, error) {
	post, ok := s.posts.Get(params.Get("slug"))
	if !ok {
		return nil, render.ErrNotFound
	}
	return post, nil
}

func (s *Site) postParams(context.Context) ([]router.Params, error) {
	slugs := s.posts.Slugs()
	records := make([]router.Params, len(slugs))
	for i, slug := range slugs {
		records[i] = BlogSlugParams{Slug: slug}.Params()
	}
	return records, nil
}

func (s *Site) categoryParams(context.Context) ([]router.Params, error) {
	categories := s.posts.Categories()
	records := make([]router.Params, len(categories))
	for i, c := range categories {
		records[i] = CategoryCategoryParams{Category: c}.Params()
	}
	return records, nil
}

func (s *Site) categoryPostParams(context.Context) ([]router.Params, error) {
	var records []router.Params
	for _, post := range s.posts.All() {
		if post.Category == "" {
			continue
		}
		records = append(records, CategoryCategorySlugParams{
			Category: post.Category,
			Slug:     post.Slug,
		}.Params())
	}
	return records, nil
}
