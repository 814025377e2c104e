package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Envelope constants. They do not depend on the input path.
const (
	// FormatMajor and FormatMinor are the nbformat version written to the
	// "nbformat" and "nbformat_minor" fields.
	FormatMajor = 4
	FormatMinor = 4

	// KernelName is the Jupyter kernel the notebook is bound to.
	KernelName = "python3"

	// KernelDisplayName is the kernel label shown by notebook front ends.
	KernelDisplayName = "Python 3"

	// Language is the kernel language.
	Language = "python"

	// LanguageVersion is the language version recorded in language_info.
	LanguageVersion = "3.10.0"
)

// KernelSpec identifies the kernel that executes the code cells.
type KernelSpec struct {
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Name        string `json:"name"`
}

// LanguageInfo describes the language of the code cells.
type LanguageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Metadata is the notebook-level metadata record.
type Metadata struct {
	KernelSpec   KernelSpec   `json:"kernelspec"`
	LanguageInfo LanguageInfo `json:"language_info"`
}

// Document is a complete nbformat 4 notebook. Field order matches the
// layout written to disk.
type Document struct {
	Format      int      `json:"nbformat"`
	FormatMinor int      `json:"nbformat_minor"`
	Metadata    Metadata `json:"metadata"`
	Cells       []Cell   `json:"cells"`
}

// DefaultMetadata returns the kernel and language metadata every generated
// notebook carries.
func DefaultMetadata() Metadata {
	return Metadata{
		KernelSpec: KernelSpec{
			DisplayName: KernelDisplayName,
			Language:    Language,
			Name:        KernelName,
		},
		LanguageInfo: LanguageInfo{
			Name:    Language,
			Version: LanguageVersion,
		},
	}
}

// Build returns the benchmark analysis notebook for csvPath. Any string is
// accepted, including an empty one or a path that does not exist; the path
// is only read when the notebook is executed.
func Build(csvPath string) Document {
	cells := make([]Cell, 0, len(analysisTemplate))
	for _, tmpl := range analysisTemplate {
		cells = append(cells, tmpl.render(csvPath))
	}

	return Document{
		Format:      FormatMajor,
		FormatMinor: FormatMinor,
		Metadata:    DefaultMetadata(),
		Cells:       cells,
	}
}

// CellTypes returns the kind of every cell, in order.
func (d Document) CellTypes() []CellType {
	types := make([]CellType, len(d.Cells))
	for i, c := range d.Cells {
		types[i] = c.Type
	}
	return types
}

// Marshal serializes the document as JSON with two-space indentation and
// no trailing newline. HTML escaping is disabled so characters such as '<'
// and '&' in cell source are written as-is.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode notebook: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Parse decodes a serialized notebook.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse notebook: %w", err)
	}
	return doc, nil
}

// Write serializes doc, validates the result against the nbformat schema
// and writes it to path with 0644 permissions.
//
// Write does NOT create missing parent directories: a missing parent is
// reported as an error and no file is produced.
func Write(path string, doc Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write notebook to %s: %w", path, err)
	}
	return nil
}
