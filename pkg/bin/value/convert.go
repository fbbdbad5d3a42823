package value

import (
	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// Payload converts v into the wire payload for its type: the canonical
// scalar for primitives, and a freshly allocated *bin.List, *bin.Map or
// *bin.Struct for containers. Every call returns new storage, so the result
// may be inserted into a tree without aliasing other insertions.
func Payload(v Value) (any, error) {
	switch v.typ {
	case "":
		return nil, errors.New(errors.ErrCodeInvalidValue, "zero Value has no type")

	case bin.TypeBool, bin.TypeFlag,
		bin.TypeI8, bin.TypeI16, bin.TypeI32, bin.TypeI64,
		bin.TypeU8, bin.TypeU16, bin.TypeU32, bin.TypeU64,
		bin.TypeF32, bin.TypeVec2, bin.TypeVec3, bin.TypeVec4, bin.TypeRGBA,
		bin.TypeString, bin.TypeHash:
		return v.data, nil

	case bin.TypeMtx44, bin.TypeFile, bin.TypeLink:
		return nil, unsupported(v.typ)

	case bin.TypeList, bin.TypeList2, bin.TypeOption:
		d := v.data.(listData)
		l := &bin.List{ValueType: d.elem, Items: make([]any, len(d.items))}
		for i, it := range d.items {
			p, err := Payload(it)
			if err != nil {
				return nil, err
			}
			l.Items[i] = p
		}
		return l, nil

	case bin.TypeMap:
		d := v.data.(mapData)
		m := &bin.Map{KeyType: d.keyType, ValueType: d.valueType, Items: make([]*bin.MapEntry, len(d.keys))}
		for i, k := range d.keys {
			p, err := Payload(d.values[i])
			if err != nil {
				return nil, err
			}
			m.Items[i] = &bin.MapEntry{Key: k, Value: p}
		}
		return m, nil

	case bin.TypeEmbed, bin.TypePointer:
		d := v.data.(structData)
		s := &bin.Struct{Name: d.name, Items: make([]*bin.Node, len(d.fields))}
		for i, f := range d.fields {
			n, err := ToNode(f.Key, f.Value)
			if err != nil {
				return nil, err
			}
			s.Items[i] = n
		}
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "no conversion for type tag %q", v.typ)
}

// ToNode converts v into a keyed wire field.
func ToNode(key string, v Value) (*bin.Node, error) {
	p, err := Payload(v)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "field %q", key)
	}
	return &bin.Node{Key: key, Type: v.typ, Value: p}, nil
}

// FromNode converts a wire field back into a Value. Null pointers and
// unimplemented variants cannot be represented and return an error.
func FromNode(n *bin.Node) (Value, error) {
	return fromPayload(n.Type, n.Value)
}

func fromPayload(t bin.Type, p any) (Value, error) {
	switch {
	case t.IsPrimitive():
		return Of(t, p)

	case t.IsList():
		l, ok := p.(*bin.List)
		if !ok {
			return Value{}, errors.New(errors.ErrCodeInvalidValue, "%s payload is %T", t, p)
		}
		items := make([]any, len(l.Items))
		for i, it := range l.Items {
			v, err := fromPayload(l.ValueType, it)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return sequence(t, l.ValueType, items)

	case t == bin.TypeMap:
		m, ok := p.(*bin.Map)
		if !ok {
			return Value{}, errors.New(errors.ErrCodeInvalidValue, "map payload is %T", p)
		}
		entries := make([]Entry, len(m.Items))
		for i, e := range m.Items {
			v, err := fromPayload(m.ValueType, e.Value)
			if err != nil {
				return Value{}, err
			}
			entries[i] = Entry{Key: e.Key, Value: v}
		}
		return Map(m.KeyType, m.ValueType, entries...)

	case t.IsStruct():
		s, ok := p.(*bin.Struct)
		if !ok || s == nil {
			return Value{}, errors.New(errors.ErrCodeInvalidValue, "%s payload is %T", t, p)
		}
		fields := make([]Field, len(s.Items))
		for i, n := range s.Items {
			v, err := FromNode(n)
			if err != nil {
				return Value{}, err
			}
			fields[i] = F(n.Key, v)
		}
		return Value{t, structData{name: s.Name, fields: fields}}, nil
	}
	return Value{}, errors.New(errors.ErrCodeInvalidValue, "unknown type tag %q", t)
}
