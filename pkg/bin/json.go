package bin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/binpatch/pkg/errors"
)

type nodeJSON struct {
	Key   string          `json:"key"`
	Type  Type            `json:"type"`
	Value json.RawMessage `json:"value"`
}

type listJSON struct {
	ValueType Type              `json:"valueType"`
	Items     []json.RawMessage `json:"items"`
}

type mapJSON struct {
	KeyType   Type           `json:"keyType"`
	ValueType Type           `json:"valueType"`
	Items     []mapEntryJSON `json:"items"`
}

type mapEntryJSON struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

type structJSON struct {
	Name  string  `json:"name"`
	Items []*Node `json:"items"`
}

// MarshalJSON encodes n as {"key", "type", "value"}.
func (n *Node) MarshalJSON() ([]byte, error) {
	if err := checkPayload(n.Type, n.Value); err != nil {
		return nil, fmt.Errorf("field %q: %w", n.Key, err)
	}
	value, err := json.Marshal(n.Value)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", n.Key, err)
	}
	return json.Marshal(nodeJSON{Key: n.Key, Type: n.Type, Value: value})
}

// UnmarshalJSON decodes a field, resolving the payload shape from its type.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Known() {
		return errors.New(errors.ErrCodeInvalidDocument, "field %q: unknown type tag %q", raw.Key, raw.Type)
	}
	v, err := DecodePayload(raw.Type, raw.Value)
	if err != nil {
		return fmt.Errorf("field %q: %w", raw.Key, err)
	}
	n.Key, n.Type, n.Value = raw.Key, raw.Type, v
	return nil
}

// MarshalJSON encodes l as {"valueType", "items"}.
func (l *List) MarshalJSON() ([]byte, error) {
	out := listJSON{ValueType: l.ValueType, Items: make([]json.RawMessage, len(l.Items))}
	for i, it := range l.Items {
		if err := checkPayload(l.ValueType, it); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		b, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		out.Items[i] = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a list payload; items are decoded as ValueType.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw listJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.ValueType.Known() {
		return errors.New(errors.ErrCodeInvalidDocument, "unknown list value type %q", raw.ValueType)
	}
	l.ValueType = raw.ValueType
	l.Items = make([]any, len(raw.Items))
	for i, it := range raw.Items {
		v, err := DecodePayload(raw.ValueType, it)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		l.Items[i] = v
	}
	return nil
}

// MarshalJSON encodes m as {"keyType", "valueType", "items": [{"key", "value"}]}.
func (m *Map) MarshalJSON() ([]byte, error) {
	out := mapJSON{KeyType: m.KeyType, ValueType: m.ValueType, Items: make([]mapEntryJSON, len(m.Items))}
	for i, e := range m.Items {
		if err := checkPayload(m.KeyType, e.Key); err != nil {
			return nil, fmt.Errorf("entry %d key: %w", i, err)
		}
		if err := checkPayload(m.ValueType, e.Value); err != nil {
			return nil, fmt.Errorf("entry %d value: %w", i, err)
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		out.Items[i] = mapEntryJSON{Key: k, Value: v}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a map payload.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw mapJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.KeyType.IsPrimitive() {
		return errors.New(errors.ErrCodeInvalidDocument, "map key type %q is not primitive", raw.KeyType)
	}
	if !raw.ValueType.Known() {
		return errors.New(errors.ErrCodeInvalidDocument, "unknown map value type %q", raw.ValueType)
	}
	m.KeyType, m.ValueType = raw.KeyType, raw.ValueType
	m.Items = make([]*MapEntry, len(raw.Items))
	for i, e := range raw.Items {
		k, err := DecodePayload(raw.KeyType, e.Key)
		if err != nil {
			return fmt.Errorf("entry %d key: %w", i, err)
		}
		v, err := DecodePayload(raw.ValueType, e.Value)
		if err != nil {
			return fmt.Errorf("entry %d value: %w", i, err)
		}
		m.Items[i] = &MapEntry{Key: k, Value: v}
	}
	return nil
}

// MarshalJSON encodes s as {"name", "items"}.
func (s *Struct) MarshalJSON() ([]byte, error) {
	items := s.Items
	if items == nil {
		items = []*Node{}
	}
	return json.Marshal(structJSON{Name: s.Name, Items: items})
}

// UnmarshalJSON decodes a struct payload.
func (s *Struct) UnmarshalJSON(data []byte) error {
	var raw structJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Name = raw.Name
	s.Items = raw.Items
	if s.Items == nil {
		s.Items = []*Node{}
	}
	return nil
}

// DecodePayload decodes the JSON form of a payload of type t into its
// canonical Go shape.
func DecodePayload(t Type, data json.RawMessage) (any, error) {
	switch {
	case t.IsList():
		l := &List{}
		if err := json.Unmarshal(data, l); err != nil {
			return nil, wrapDecode(t, err)
		}
		if t == TypeOption && len(l.Items) > 1 {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "option holds %d items", len(l.Items))
		}
		return l, nil

	case t == TypeMap:
		m := &Map{}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, wrapDecode(t, err)
		}
		return m, nil

	case t.IsStruct():
		if t == TypePointer && bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return (*Struct)(nil), nil
		}
		s := &Struct{}
		if err := json.Unmarshal(data, s); err != nil {
			return nil, wrapDecode(t, err)
		}
		return s, nil
	}

	var dst any
	switch t {
	case TypeBool, TypeFlag:
		dst = new(bool)
	case TypeI8, TypeI16, TypeI32, TypeI64:
		dst = new(int64)
	case TypeU8, TypeU16, TypeU32, TypeU64:
		dst = new(uint64)
	case TypeF32:
		dst = new(float32)
	case TypeVec2, TypeVec3, TypeVec4, TypeMtx44, TypeRGBA:
		// Decoded as a slice so that Coerce sees the real arity.
		dst = new([]any)
	case TypeString, TypeHash, TypeFile, TypeLink:
		dst = new(string)
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unknown type tag %q", t)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, wrapDecode(t, err)
	}
	v, err := Coerce(t, deref(dst))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s", t)
	}
	return v, nil
}

func deref(p any) any {
	switch v := p.(type) {
	case *bool:
		return *v
	case *int64:
		return *v
	case *uint64:
		return *v
	case *float32:
		return *v
	case *[]any:
		return *v
	case *string:
		return *v
	}
	return p
}

func wrapDecode(t Type, err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s", t)
}

// checkPayload verifies that v already has the canonical shape for t, so
// that an edit which stored a foreign Go value is caught before it reaches
// the external serializer.
func checkPayload(t Type, v any) error {
	c, err := Coerce(t, v)
	if err != nil {
		return err
	}
	switch c.(type) {
	case *List, *Map, *Struct:
		return nil
	}
	if fmt.Sprintf("%T", c) != fmt.Sprintf("%T", v) {
		return errors.New(errors.ErrCodeInvalidValue, "payload %T is not canonical for %s", v, t)
	}
	return nil
}
