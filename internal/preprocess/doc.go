// Package preprocess implements the notebook transformations run before a
// notebook is written for publication.
//
// The stages run in a fixed order:
//
//	Tagger       tags raw cells as front matter or auxiliary
//	FrontMatter  parses the front-matter cell into cell metadata
//	Header       renders the stored front matter as the header cell
//	Linker       hides auxiliary cells inside their hosts, or restores them
//
// Each stage receives an explicit Options value. Style selects the
// direction of the run: StyleMarkdown prepares a notebook for publication,
// StyleRaw returns it to its editable form.
package preprocess
