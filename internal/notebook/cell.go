package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CellType is the kind of a notebook cell, as written to the "cell_type"
// field of the nbformat document.
type CellType string

const (
	// Markdown cells hold explanatory text rendered by the notebook UI.
	Markdown CellType = "markdown"

	// Code cells hold source executed by the notebook kernel. They carry
	// empty execution_count and outputs placeholders until executed.
	Code CellType = "code"
)

// String returns the string representation of CellType.
func (c CellType) String() string {
	return string(c)
}

// IsValid checks whether the CellType value is one of the supported kinds.
func (c CellType) IsValid() bool {
	return c == Markdown || c == Code
}

// Cell is a single notebook cell. Cells have no identifier of their own;
// their identity is their position in Document.Cells.
//
// Source follows the nbformat convention: every line except the last keeps
// its trailing "\n".
type Cell struct {
	Type   CellType
	Source []string
}

// Text returns the cell source joined into a single string.
func (c Cell) Text() string {
	return strings.Join(c.Source, "")
}

// markdownCellJSON is the wire form of a markdown cell.
type markdownCellJSON struct {
	CellType CellType `json:"cell_type"`
	Metadata struct{} `json:"metadata"`
	Source   []string `json:"source"`
}

// codeCellJSON is the wire form of a code cell. ExecutionCount is always
// written as null and Outputs as an empty list.
type codeCellJSON struct {
	CellType       CellType          `json:"cell_type"`
	Metadata       struct{}          `json:"metadata"`
	ExecutionCount *int              `json:"execution_count"`
	Outputs        []json.RawMessage `json:"outputs"`
	Source         []string          `json:"source"`
}

// MarshalJSON writes the cell in nbformat 4 layout. Markdown and code cells
// have different field sets, so each kind has its own wire struct.
func (c Cell) MarshalJSON() ([]byte, error) {
	source := c.Source
	if source == nil {
		source = []string{}
	}

	switch c.Type {
	case Markdown:
		return marshalUnescaped(markdownCellJSON{CellType: Markdown, Source: source})
	case Code:
		return marshalUnescaped(codeCellJSON{
			CellType: Code,
			Outputs:  []json.RawMessage{},
			Source:   source,
		})
	default:
		return nil, fmt.Errorf("unsupported cell type %q", c.Type)
	}
}

// marshalUnescaped encodes v like json.Marshal but leaves '<', '>' and '&'
// as-is. The outer encoder never unescapes what a Marshaler returns.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON reads a cell written by MarshalJSON or by a notebook tool.
// The "source" field may be either a list of lines or a single string, as
// nbformat allows both; a string is split into lines that keep their "\n".
// Outputs and execution counts are not retained.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var wire struct {
		CellType CellType        `json:"cell_type"`
		Source   json.RawMessage `json:"source"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !wire.CellType.IsValid() {
		return fmt.Errorf("unsupported cell type %q", wire.CellType)
	}

	source, err := decodeSource(wire.Source)
	if err != nil {
		return fmt.Errorf("%s cell source: %w", wire.CellType, err)
	}

	c.Type = wire.CellType
	c.Source = source
	return nil
}

// decodeSource accepts the two source encodings nbformat permits.
func decodeSource(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("expected string or list of strings")
	}
	if text == "" {
		return []string{}, nil
	}
	lines = strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}
