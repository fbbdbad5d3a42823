package value

import (
	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// Value is one typed datum prior to conversion into wire form. It is
// immutable: constructors copy their inputs and accessors return copies.
// The zero Value has no type and is rejected by the converter.
type Value struct {
	typ  bin.Type
	data any
}

// Field is one member of a struct-like Value. Its wire type is the type of
// its Value.
type Field struct {
	Key   string
	Value Value
}

// Entry is one key/value input of a map constructor. Key and Value may be
// raw Go values (auto-wrapped to the declared types when primitive) or
// already-built Values.
type Entry struct {
	Key   any
	Value any
}

type listData struct {
	elem  bin.Type
	items []Value
}

type mapData struct {
	keyType   bin.Type
	valueType bin.Type
	keys      []any
	values    []Value
}

type structData struct {
	name   string
	fields []Field
}

// Type returns the value's type tag.
func (v Value) Type() bin.Type { return v.typ }

// IsZero reports whether v is the zero Value.
func (v Value) IsZero() bool { return v.typ == "" }

// Scalar returns the canonical payload of a primitive value. The boolean is
// false for containers and structs.
func (v Value) Scalar() (any, bool) {
	if !v.typ.IsPrimitive() {
		return nil, false
	}
	return v.data, true
}

// ElementType returns the declared element type of a list, list2 or option,
// or the value type of a map.
func (v Value) ElementType() bin.Type {
	switch d := v.data.(type) {
	case listData:
		return d.elem
	case mapData:
		return d.valueType
	}
	return ""
}

// Items returns a copy of the items of a list, list2 or option.
func (v Value) Items() []Value {
	d, ok := v.data.(listData)
	if !ok {
		return nil
	}
	return append([]Value(nil), d.items...)
}

// Name returns the record name of an embed or pointer.
func (v Value) Name() string {
	d, _ := v.data.(structData)
	return d.name
}

// Fields returns a copy of the fields of an embed or pointer.
func (v Value) Fields() []Field {
	d, ok := v.data.(structData)
	if !ok {
		return nil
	}
	return append([]Field(nil), d.fields...)
}

// F is shorthand for a Field literal.
func F(key string, v Value) Field {
	return Field{Key: key, Value: v}
}

// Must panics if err is non-nil. It simplifies building literal trees in
// edit code and tests, like regexp.MustCompile.
func Must(v Value, err error) Value {
	if err != nil {
		panic(err)
	}
	return v
}

// =============================================================================
// Primitive constructors
// =============================================================================

func Bool(b bool) Value { return Value{bin.TypeBool, b} }
func I8(i int8) Value { return Value{bin.TypeI8, int64(i)} }
func U8(u uint8) Value { return Value{bin.TypeU8, uint64(u)} }
func I16(i int16) Value { return Value{bin.TypeI16, int64(i)} }
func U16(u uint16) Value { return Value{bin.TypeU16, uint64(u)} }
func I32(i int32) Value { return Value{bin.TypeI32, int64(i)} }
func U32(u uint32) Value { return Value{bin.TypeU32, uint64(u)} }
func I64(i int64) Value { return Value{bin.TypeI64, i} }
func U64(u uint64) Value { return Value{bin.TypeU64, u} }
func F32(f float32) Value { return Value{bin.TypeF32, f} }
func Vec2(v [2]float32) Value { return Value{bin.TypeVec2, v} }
func Vec3(v [3]float32) Value { return Value{bin.TypeVec3, v} }
func Vec4(v [4]float32) Value { return Value{bin.TypeVec4, v} }
func RGBA(c [4]uint8) Value { return Value{bin.TypeRGBA, c} }
func String(s string) Value { return Value{bin.TypeString, s} }
func Hash(s string) Value { return Value{bin.TypeHash, s} }
func Flag(b bool) Value { return Value{bin.TypeFlag, b} }

// Mtx44 always fails: the matrix variant is declared by the schema but not
// implemented.
func Mtx44([16]float32) (Value, error) { return Value{}, unsupported(bin.TypeMtx44) }

// File always fails: the file variant is not implemented.
func File(string) (Value, error) { return Value{}, unsupported(bin.TypeFile) }

// Link always fails: the link variant is not implemented.
func Link(string) (Value, error) { return Value{}, unsupported(bin.TypeLink) }

func unsupported(t bin.Type) error {
	return errors.New(errors.ErrCodeUnsupportedVariant, "%s type is not implemented", t)
}

// Of builds a primitive Value of type t from a natively shaped Go value
// (numbers of any width, slices or arrays for tuples). A Value argument is
// returned unchanged if its type is t.
func Of(t bin.Type, x any) (Value, error) {
	if v, ok := x.(Value); ok {
		if v.typ != t {
			return Value{}, errors.New(errors.ErrCodeInvalidValue, "item type %s does not match declared type %s", v.typ, t)
		}
		return v, nil
	}
	if err := checkType(t); err != nil {
		return Value{}, err
	}
	if !t.IsPrimitive() {
		return Value{}, errors.New(errors.ErrCodeInvalidValue, "%s values must be built with their container constructor, got %T", t, x)
	}
	payload, err := bin.Coerce(t, x)
	if err != nil {
		return Value{}, err
	}
	return Value{t, payload}, nil
}

func checkType(t bin.Type) error {
	if !t.Known() {
		return errors.New(errors.ErrCodeInvalidValue, "unknown type tag %q", t)
	}
	if !t.Implemented() {
		return unsupported(t)
	}
	return nil
}

// wrap turns a constructor input into a Value of type elem. Raw inputs are
// only accepted for primitive element types; container and struct element
// types require already-built Values.
func wrap(elem bin.Type, x any) (Value, error) {
	if v, ok := x.(Value); ok {
		if v.typ != elem {
			return Value{}, errors.New(errors.ErrCodeInvalidValue, "item type %s does not match element type %s", v.typ, elem)
		}
		return v, nil
	}
	if !elem.IsPrimitive() {
		return Value{}, errors.New(errors.ErrCodeInvalidValue, "element type %s requires Values, got %T", elem, x)
	}
	return Of(elem, x)
}

// =============================================================================
// Container constructors
// =============================================================================

// List builds a list of elem. Raw items are auto-wrapped when elem is
// primitive; every item must end up with type elem.
func List(elem bin.Type, items ...any) (Value, error) {
	return sequence(bin.TypeList, elem, items)
}

// List2 builds a list2 of elem with the same rules as [List].
func List2(elem bin.Type, items ...any) (Value, error) {
	return sequence(bin.TypeList2, elem, items)
}

// Option builds an option of elem holding zero or one item.
func Option(elem bin.Type, item ...any) (Value, error) {
	if len(item) > 1 {
		return Value{}, errors.New(errors.ErrCodeInvalidValue, "option holds at most one item, got %d", len(item))
	}
	return sequence(bin.TypeOption, elem, item)
}

func sequence(t, elem bin.Type, items []any) (Value, error) {
	if err := checkType(elem); err != nil {
		return Value{}, err
	}
	d := listData{elem: elem, items: make([]Value, len(items))}
	for i, it := range items {
		v, err := wrap(elem, it)
		if err != nil {
			return Value{}, errors.Wrap(errors.GetCode(err), err, "%s item %d", t, i)
		}
		d.items[i] = v
	}
	return Value{t, d}, nil
}

// Map builds a map. Keys are wrapped to keyType, which must be primitive;
// values follow the same auto-wrap rules as [List]. Entry order is kept.
func Map(keyType, valueType bin.Type, entries ...Entry) (Value, error) {
	if err := checkType(keyType); err != nil {
		return Value{}, err
	}
	if !keyType.IsPrimitive() {
		return Value{}, errors.New(errors.ErrCodeInvalidValue, "map key type %s is not primitive", keyType)
	}
	if err := checkType(valueType); err != nil {
		return Value{}, err
	}

	d := mapData{
		keyType:   keyType,
		valueType: valueType,
		keys:      make([]any, len(entries)),
		values:    make([]Value, len(entries)),
	}
	for i, e := range entries {
		k, err := Of(keyType, e.Key)
		if err != nil {
			return Value{}, errors.Wrap(errors.GetCode(err), err, "map key %d", i)
		}
		v, err := wrap(valueType, e.Value)
		if err != nil {
			return Value{}, errors.Wrap(errors.GetCode(err), err, "map value %v", e.Key)
		}
		d.keys[i] = k.data
		d.values[i] = v
	}
	return Value{bin.TypeMap, d}, nil
}

// Embed builds an inline named record. Field keys may repeat.
func Embed(name string, fields ...Field) Value {
	return Value{bin.TypeEmbed, structData{name: name, fields: append([]Field(nil), fields...)}}
}

// Pointer builds a named record referenced by pointer.
func Pointer(name string, fields ...Field) Value {
	return Value{bin.TypePointer, structData{name: name, fields: append([]Field(nil), fields...)}}
}
