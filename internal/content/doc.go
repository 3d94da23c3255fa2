// Package content loads markdown document collections.
//
// A document is a markdown file that opens with a YAML front matter block:
//
//	---
//	title: Hello world
//	date: 2024-03-01
//	summary: First post.
//	tags: [go, routing]
//	category: notes
//	---
//
//	Body with a [[Other Post]] wikilink.
//
// Bodies are rendered with GitHub flavored markdown and class-based syntax
// highlighting. Wikilinks resolve to the linked document's page and feed
// the backlink index.
package content
