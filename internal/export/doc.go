// Package export renders a finished script package as a Markdown document,
// or as HTML converted from that Markdown with goldmark.
package export
