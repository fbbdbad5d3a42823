package bin

// Node is one named, typed field of the wire tree. Value holds the payload
// whose Go type is determined by Type:
//
//	bool, flag                 bool
//	i8, i16, i32, i64          int64
//	u8, u16, u32, u64          uint64
//	f32                        float32
//	vec2, vec3, vec4           [2]float32, [3]float32, [4]float32
//	mtx44                      [16]float32
//	rgba                       [4]uint8
//	string, hash, file, link   string
//	list, list2, option        *List
//	map                        *Map
//	embed, pointer             *Struct (nil for a null pointer)
//
// Field keys inside one struct are not required to be unique; lookups resolve
// to the first match in document order.
type Node struct {
	Key   string
	Type  Type
	Value any
}

// List is the payload of list, list2 and option fields. Items are raw
// payloads of ValueType; an option holds at most one item.
type List struct {
	ValueType Type
	Items     []any
}

// Map is the payload of map fields. Entries keep document order.
type Map struct {
	KeyType   Type
	ValueType Type
	Items     []*MapEntry
}

// MapEntry is one key/value pair of a map. Key is a payload of the map's
// KeyType and Value a payload of its ValueType.
type MapEntry struct {
	Key   any
	Value any
}

// Struct is the payload of embed and pointer fields: a named, ordered record.
type Struct struct {
	Name  string
	Items []*Node
}

// Fields is a bare, ordered list of fields with no enclosing record.
type Fields []*Node

// Addressable is implemented by the wire shapes an edit can be applied to:
// field wrappers (*Node, *MapEntry), bare containers (*Struct, *List, *Map)
// and raw field lists (*Fields).
type Addressable interface {
	addressable()
}

func (*Node) addressable()     {}
func (*MapEntry) addressable() {}
func (*Struct) addressable()   {}
func (*List) addressable()     {}
func (*Map) addressable()      {}
func (*Fields) addressable()   {}

// Clone returns a deep copy of n. The copy shares no mutable storage with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	return &Node{Key: n.Key, Type: n.Type, Value: ClonePayload(n.Value)}
}

// Clone returns a deep copy of e.
func (e *MapEntry) Clone() *MapEntry {
	if e == nil {
		return nil
	}
	return &MapEntry{Key: ClonePayload(e.Key), Value: ClonePayload(e.Value)}
}

// Clone returns a deep copy of s.
func (s *Struct) Clone() *Struct {
	if s == nil {
		return nil
	}
	res := &Struct{Name: s.Name, Items: make([]*Node, len(s.Items))}
	for i, it := range s.Items {
		res.Items[i] = it.Clone()
	}
	return res
}

// Clone returns a deep copy of l.
func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	res := &List{ValueType: l.ValueType, Items: make([]any, len(l.Items))}
	for i, it := range l.Items {
		res.Items[i] = ClonePayload(it)
	}
	return res
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	res := &Map{KeyType: m.KeyType, ValueType: m.ValueType, Items: make([]*MapEntry, len(m.Items))}
	for i, e := range m.Items {
		res.Items[i] = e.Clone()
	}
	return res
}

// Clone returns a deep copy of f.
func (f Fields) Clone() Fields {
	res := make(Fields, len(f))
	for i, n := range f {
		res[i] = n.Clone()
	}
	return res
}

// ClonePayload deep-copies a payload. Scalars and fixed-size arrays are
// values in Go and are returned as-is.
func ClonePayload(v any) any {
	switch x := v.(type) {
	case *List:
		return x.Clone()
	case *Map:
		return x.Clone()
	case *Struct:
		return x.Clone()
	case *Node:
		return x.Clone()
	case []any:
		res := make([]any, len(x))
		for i, it := range x {
			res[i] = ClonePayload(it)
		}
		return res
	default:
		return v
	}
}

// Field returns the first field of s with the given key, or nil.
func (s *Struct) Field(key string) *Node {
	if s == nil {
		return nil
	}
	for _, n := range s.Items {
		if n.Key == key {
			return n
		}
	}
	return nil
}
