// Package notebook provides the cell model, ordered JSON decoding, and the
// deterministic writer for Jupyter notebooks in the nbformat v4 layout.
//
// # Cell Model
//
// A Notebook owns an arena of cells keyed by a stable cell ID plus an ordered
// list of IDs that forms the visible sequence. Cells are inserted and removed
// by ID, so a reference held by one cell to another never shifts when the
// sequence changes:
//
//	nb, err := notebook.Parse(data)
//	for _, cell := range nb.Cells() {
//		if cell.Type == notebook.Raw && cell.HasTag(notebook.TagRaw) {
//			...
//		}
//	}
//	err = nb.InsertBefore(host.ID, cell)
//	nb.Remove(cell.ID)
//
// # Ordered Values
//
// Mappings decoded from a notebook keep their key order. Every JSON object is
// held as a *Map (an ordered map from wk8/go-ordered-map), arrays as []any,
// numbers as json.Number carrying their original literal, and a cell stored
// under metadata.nested as *Cell.
//
// # Writing
//
// Marshal produces the on-disk form with one-space indentation, "," and ": "
// separators, keys in insertion order, multi-line text split into line
// arrays, transient keys stripped, and exactly one trailing newline. Two
// calls on the same notebook produce identical bytes.
//
//	data, err := notebook.Marshal(nb)
//
// Store reads and writes notebooks through an afero filesystem. Writes go to
// a temporary file in the destination directory and are renamed into place,
// so a failed write leaves the destination untouched:
//
//	store := notebook.NewStore(nil) // OS filesystem
//	nb, err := store.Load("posts/01_intro.ipynb")
//	err = store.Write("posts/intro.ipynb", nb)
package notebook
