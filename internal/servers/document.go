// SPDX-License-Identifier: MPL-2.0

package servers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ContainerKey is the top-level member holding the server map in every
// document mcpick reads and writes.
const ContainerKey = "mcpServers"

// Document is the on-disk shape {"mcpServers": {...}}.
type Document struct {
	Servers *Table `json:"mcpServers"`
}

// NewDocument wraps a table. A nil table encodes as an empty object.
func NewDocument(t *Table) Document {
	if t == nil {
		t = NewTable()
	}
	return Document{Servers: t}
}

// Encode writes the document with 2-space indentation and a trailing newline.
func (d Document) Encode(w io.Writer) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Bytes returns the encoded document.
func (d Document) Bytes() ([]byte, error) {
	if d.Servers == nil {
		d.Servers = NewTable()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode %s document: %w", ContainerKey, err)
	}
	return buf.Bytes(), nil
}
