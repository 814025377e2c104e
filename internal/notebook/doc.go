// Package notebook builds the benchmark analysis notebook.
//
// The notebook is a Jupyter (nbformat 4) document made of a fixed, ordered
// sequence of markdown and code cells. The cell template is a declarative
// table (see template.go); Build walks it and substitutes the CSV path into
// the cells that reference it. Build performs no I/O and cannot fail, so it
// can be tested without touching the filesystem.
//
// Serialization, schema validation and writing the file are separate steps
// (Marshal, Validate, Write) used by the CLI once the document is built.
package notebook
