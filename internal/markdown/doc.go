// Package markdown imports pages from Markdown files. Each file holds one
// language of a page; files sharing a slug are merged into a single page
// whose imported section carries the rendered HTML per language.
package markdown
