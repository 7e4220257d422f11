// Package frontmatter reads and writes the YAML front matter of a Jekyll
// post as stored in a notebook's front-matter cell.
//
// # Source Layout
//
// A front-matter cell source looks like:
//
//	---
//	title: Notes on Go
//	author: A. Writer
//	date: 2021-03-01
//	last_modified_at: 2021-03-04
//	---
//	<!-- image credit -->
//
// Split separates the YAML text from the remainder after the closing
// delimiter. The remainder is kept verbatim as the image credit and may
// start on the delimiter line itself.
//
// # Values
//
// Parse keeps mapping order and stores values in notebook form
// (ordered maps, []any, string, json.Number, bool, nil), so a Document can
// be written into cell metadata unchanged. Timestamps keep their literal
// text; "2021-03-01" stays a string rather than becoming a time value.
//
// # Rendering
//
// RenderRaw produces the YAML header again. RenderPresentation fills a
// Template with the document's scalar fields to produce the markdown
// header shown on the published page.
package frontmatter
