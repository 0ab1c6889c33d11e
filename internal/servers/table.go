// SPDX-License-Identifier: MPL-2.0

package servers

import (
	"bytes"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Table is an insertion-ordered map from server name to Entry.
// The zero value is not usable; call NewTable.
type Table struct {
	entries *orderedmap.OrderedMap[string, Entry]
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: orderedmap.New[string, Entry]()}
}

// Set stores entry under name. A new name is appended; an existing name keeps
// its position and its entry is replaced. It reports whether a previous entry
// was replaced.
func (t *Table) Set(name string, entry Entry) (replaced bool) {
	_, replaced = t.entries.Set(name, entry)
	return replaced
}

// Get returns the entry stored under name.
func (t *Table) Get(name string) (Entry, bool) {
	return t.entries.Get(name)
}

// Has reports whether name is present.
func (t *Table) Has(name string) bool {
	_, ok := t.entries.Get(name)
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.entries.Len()
}

// Names returns the entry names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.Len())
	for name := range t.All() {
		names = append(names, name)
	}
	return names
}

// All iterates over the table in insertion order.
func (t *Table) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		if t == nil {
			return
		}
		for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Subset returns a new table holding the named entries in this table's
// order, together with the requested names that are not present.
func (t *Table) Subset(names []string) (*Table, []string) {
	want := make(map[string]bool, len(names))
	var missing []string
	for _, name := range names {
		if want[name] {
			continue
		}
		want[name] = true
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}

	sub := NewTable()
	for name, entry := range t.All() {
		if want[name] {
			sub.Set(name, entry)
		}
	}
	return sub, missing
}

// MarshalJSON emits the entries as a JSON object in table order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for name, entry := range t.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalValue(name)
		if err != nil {
			return nil, err
		}
		v, err := entry.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
