// Package content validates and builds the delta documents stored as note bodies.
//
// A delta is a JSON object whose "ops" member is an ordered list of insert
// operations:
//
//	{"ops":[{"insert":"Hello "},{"insert":"world","attributes":{"bold":true}},{"insert":"\n"}]}
//
// The service stores it as an opaque string; this package only checks that the
// string is a well-formed insert-only delta that fits the size budget.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxContentBytes is the largest serialized delta a note may hold (2 MiB).
const MaxContentBytes = 2 * 1024 * 1024

var (
	// ErrMalformedContent is returned when the payload is not an insert-only delta.
	ErrMalformedContent = errors.New("malformed content")
	// ErrContentTooLarge is returned when the payload exceeds MaxContentBytes.
	ErrContentTooLarge = errors.New("content exceeds maximum size of 2 MB")
)

// Op is a single insert operation. Insert is a string for text and an object for embeds.
type Op struct {
	Insert     interface{}            `json:"insert"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Delta is the document form of a note body.
type Delta struct {
	Ops []Op `json:"ops"`
}

// Validate reports whether delta can be persisted as a note body.
// The size is measured on the UTF-8 bytes of delta itself, before any parsing.
func Validate(delta string) error {
	if len(delta) > MaxContentBytes {
		return ErrContentTooLarge
	}
	if _, err := parse(delta); err != nil {
		return err
	}
	return nil
}

// FromPlainText wraps text into a single-insert delta, terminated by a newline.
func FromPlainText(text string) (string, error) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Delta{Ops: []Op{{Insert: text}}}); err != nil {
		return "", fmt.Errorf("failed to encode delta: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// PlainText concatenates the text inserts of delta. Embeds are skipped.
// A payload that does not parse is returned unchanged.
func PlainText(delta string) string {
	d, err := parse(delta)
	if err != nil {
		return delta
	}
	var sb strings.Builder
	for _, op := range d.Ops {
		if s, ok := op.Insert.(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func parse(delta string) (*Delta, error) {
	// The decoder would silently replace invalid bytes with U+FFFD while the
	// raw bytes are what gets stored.
	if !utf8.ValidString(delta) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformedContent)
	}
	dec := json.NewDecoder(strings.NewReader(delta))

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document must be an object", ErrMalformedContent)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedContent)
	}

	opsRaw, ok := raw["ops"]
	if !ok {
		return nil, fmt.Errorf("%w: missing ops", ErrMalformedContent)
	}
	var ops []map[string]json.RawMessage
	if err := json.Unmarshal(opsRaw, &ops); err != nil || ops == nil {
		return nil, fmt.Errorf("%w: ops must be a list of objects", ErrMalformedContent)
	}

	d := &Delta{Ops: make([]Op, 0, len(ops))}
	for i, rawOp := range ops {
		op, err := parseOp(rawOp)
		if err != nil {
			return nil, fmt.Errorf("%w: op %d: %v", ErrMalformedContent, i, err)
		}
		d.Ops = append(d.Ops, op)
	}
	return d, nil
}

func parseOp(rawOp map[string]json.RawMessage) (Op, error) {
	var op Op
	if rawOp == nil {
		return op, errors.New("op must be an object")
	}
	insert, ok := rawOp["insert"]
	if !ok {
		return op, errors.New("only insert operations are allowed")
	}
	for key := range rawOp {
		if key != "insert" && key != "attributes" {
			return op, fmt.Errorf("unexpected key %q", key)
		}
	}

	if bytes.Equal(bytes.TrimSpace(insert), []byte("null")) {
		return op, errors.New("insert must be a string or an object")
	}
	var text string
	if err := json.Unmarshal(insert, &text); err == nil {
		op.Insert = text
	} else {
		var embed map[string]interface{}
		if err := json.Unmarshal(insert, &embed); err != nil || embed == nil {
			return op, errors.New("insert must be a string or an object")
		}
		op.Insert = embed
	}

	if attrs, ok := rawOp["attributes"]; ok {
		if err := json.Unmarshal(attrs, &op.Attributes); err != nil || op.Attributes == nil {
			return op, errors.New("attributes must be an object")
		}
	}
	return op, nil
}
