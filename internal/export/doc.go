// Package export runs the full notebook export: load, preprocess, sign and
// write.
//
// # States
//
// Each export moves through a fixed sequence of states:
//
//	Loaded → Tagged → FrontMatterExtracted → HeaderRendered → Linked →
//	Serialized → Signed → Written
//
// A failure stops the export in the state it reached; nothing is written
// unless serialization and signing both succeed. The one tolerated failure
// is a front-matter cell that was already converted, which is reported in
// Result.Warnings.
//
// # Destinations
//
// Destination picks where the result goes:
//
//	export.Destination("posts/01_intro.ipynb", "", false)  // posts/intro.ipynb
//	export.Destination("posts/01_intro.ipynb", "out/x.ipynb", false) // out/x.ipynb
//	export.Destination("posts/01_intro.ipynb", "out/x.ipynb", true)  // posts/01_intro.ipynb
//
// A derived destination drops the first underscore-separated segment of the
// file name, so notebooks numbered for ordering publish under their slug.
//
// # Batches
//
// ExportAll runs independent notebooks concurrently with a bounded number
// of workers. Requests that resolve to the same destination are rejected
// before any work starts.
package export
