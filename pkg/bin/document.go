package bin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/binpatch/pkg/errors"
)

// EntriesSection is the name of the section holding a document's objects.
const EntriesSection = "entries"

// Section is one top-level member of a document. Typed sections are stored
// as {"type", "value"} objects and decode into Node (with Key set to the
// section name). Sections encoded as a bare array of fields decode into
// Fields instead; exactly one of Node and Fields is set.
type Section struct {
	Name   string
	Node   *Node
	Fields *Fields
}

// Target returns the section's addressable root.
func (s *Section) Target() Addressable {
	if s.Fields != nil {
		return s.Fields
	}
	return s.Node
}

// Document is a parsed text document as produced by the external converter.
// Section order is preserved on re-encoding.
type Document struct {
	Sections []*Section
}

// Section returns the section with the given name, or nil.
func (d *Document) Section(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Entries returns the root of the entries section.
func (d *Document) Entries() (Addressable, error) {
	s := d.Section(EntriesSection)
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no %q section", EntriesSection)
	}
	return s.Target(), nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	res := &Document{Sections: make([]*Section, len(d.Sections))}
	for i, s := range d.Sections {
		c := &Section{Name: s.Name, Node: s.Node.Clone()}
		if s.Fields != nil {
			f := s.Fields.Clone()
			c.Fields = &f
		}
		res.Sections[i] = c
	}
	return res
}

type sectionJSON struct {
	Type  Type            `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Decode reads a document from r.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read document")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document must be a JSON object")
	}

	doc := &Document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read section name")
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read section %q", name)
		}
		sec, err := decodeSection(name, raw)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, sec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read document end")
	}
	return doc, nil
}

func decodeSection(name string, raw json.RawMessage) (*Section, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var fields Fields
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, wrapSection(name, err)
		}
		return &Section{Name: name, Fields: &fields}, nil
	}

	var s sectionJSON
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, wrapSection(name, err)
	}
	if !s.Type.Known() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "section %q: unknown type tag %q", name, s.Type)
	}
	v, err := DecodePayload(s.Type, s.Value)
	if err != nil {
		return nil, wrapSection(name, err)
	}
	return &Section{Name: name, Node: &Node{Key: name, Type: s.Type, Value: v}}, nil
}

func wrapSection(name string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidDocument, err, "section %q", name)
}

// Encode writes d to w as indented JSON.
func Encode(w io.Writer, d *Document) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal returns the indented JSON encoding of d followed by a newline.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, s := range d.Sections {
		if i > 0 {
			buf.WriteString(",")
		}
		name, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(":")

		var body []byte
		switch {
		case s.Fields != nil:
			fields := *s.Fields
			if fields == nil {
				fields = Fields{}
			}
			body, err = json.Marshal(fields)
		case s.Node != nil:
			var value []byte
			if err := checkPayload(s.Node.Type, s.Node.Value); err != nil {
				return nil, fmt.Errorf("section %q: %w", s.Name, err)
			}
			value, err = json.Marshal(s.Node.Value)
			if err == nil {
				body, err = json.Marshal(sectionJSON{Type: s.Node.Type, Value: value})
			}
		default:
			err = errors.New(errors.ErrCodeInvalidDocument, "section %q is empty", s.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", s.Name, err)
		}
		buf.Write(body)
	}
	buf.WriteString("}")

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "indent document")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
