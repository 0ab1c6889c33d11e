// SPDX-License-Identifier: MPL-2.0

package servers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	fieldCommand = "command"
	fieldArgs    = "args"
)

// ErrInvalidEntry is the sentinel error wrapped by InvalidEntryError.
var ErrInvalidEntry = errors.New("invalid server entry")

type (
	// Entry is one MCP server definition.
	Entry struct {
		// Command is the executable the client starts.
		Command string
		// Args are passed to Command. Nil means the field was absent.
		Args []string
		// Extra holds every other field verbatim, in document order.
		Extra *orderedmap.OrderedMap[string, json.RawMessage]

		hasCommand bool
	}

	// InvalidEntryError is returned when an entry value does not have the
	// expected shape. It wraps ErrInvalidEntry for errors.Is() compatibility.
	InvalidEntryError struct {
		Field  string
		Reason string
	}
)

// NewEntry returns an entry with the given command and args.
func NewEntry(command string, args ...string) Entry {
	return Entry{
		Command:    command,
		Args:       args,
		Extra:      orderedmap.New[string, json.RawMessage](),
		hasCommand: true,
	}
}

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidEntry for errors.Is() compatibility.
func (e *InvalidEntryError) Unwrap() error { return ErrInvalidEntry }

// HasCommand reports whether the entry carries a command field.
func (e Entry) HasCommand() bool { return e.hasCommand || e.Command != "" }

// ArgLine returns the args joined by single spaces.
func (e Entry) ArgLine() string { return strings.Join(e.Args, " ") }

// ExtraString returns the value of an opaque field when it is a JSON string.
func (e Entry) ExtraString(key string) (string, bool) {
	if e.Extra == nil {
		return "", false
	}
	raw, ok := e.Extra.Get(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// UnmarshalJSON decodes a JSON object. Command must be a string and args an
// array of strings when present; other fields are kept verbatim.
func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &InvalidEntryError{Reason: "entry must be a JSON object"}
	}

	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, fields); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}

	out := Entry{Extra: fields}

	if raw, ok := fields.Delete(fieldCommand); ok {
		if isNull(raw) {
			return &InvalidEntryError{Field: fieldCommand, Reason: "must be a string"}
		}
		if err := json.Unmarshal(raw, &out.Command); err != nil {
			return &InvalidEntryError{Field: fieldCommand, Reason: "must be a string"}
		}
		out.hasCommand = true
	}

	if raw, ok := fields.Delete(fieldArgs); ok {
		var args []string
		if err := json.Unmarshal(raw, &args); err != nil || args == nil {
			return &InvalidEntryError{Field: fieldArgs, Reason: "must be an array of strings"}
		}
		out.Args = args
	}

	*e = out
	return nil
}

// MarshalJSON emits command, args (when present), then the opaque fields in
// their original order.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0

	writeField := func(key string, value []byte) error {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalValue(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		n++
		return nil
	}

	if e.HasCommand() {
		v, err := marshalValue(e.Command)
		if err != nil {
			return nil, err
		}
		if err := writeField(fieldCommand, v); err != nil {
			return nil, err
		}
	}

	if e.Args != nil {
		v, err := marshalValue(e.Args)
		if err != nil {
			return nil, err
		}
		if err := writeField(fieldArgs, v); err != nil {
			return nil, err
		}
	}

	if e.Extra != nil {
		for pair := e.Extra.Oldest(); pair != nil; pair = pair.Next() {
			if !json.Valid(pair.Value) {
				return nil, fmt.Errorf("field %q holds invalid JSON", pair.Key)
			}
			if err := writeField(pair.Key, pair.Value); err != nil {
				return nil, err
			}
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// marshalValue encodes v without HTML escaping so URLs and shell snippets
// are written the way users typed them.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
