package bin

import (
	"github.com/matzehuels/binpatch/pkg/errors"
)

// Type is a wire type tag. The tag vocabulary is fixed by the external
// serialization tool that converts documents between text and binary form,
// so the string values must match its schema exactly.
type Type string

// Primitive tags.
const (
	TypeBool   Type = "bool"
	TypeI8     Type = "i8"
	TypeU8     Type = "u8"
	TypeI16    Type = "i16"
	TypeU16    Type = "u16"
	TypeI32    Type = "i32"
	TypeU32    Type = "u32"
	TypeI64    Type = "i64"
	TypeU64    Type = "u64"
	TypeF32    Type = "f32"
	TypeVec2   Type = "vec2"
	TypeVec3   Type = "vec3"
	TypeVec4   Type = "vec4"
	TypeMtx44  Type = "mtx44"
	TypeRGBA   Type = "rgba"
	TypeString Type = "string"
	TypeHash   Type = "hash"
	TypeFile   Type = "file"
	TypeLink   Type = "link"
	TypeFlag   Type = "flag"
)

// Container and struct tags.
const (
	TypeList    Type = "list"
	TypeList2   Type = "list2"
	TypeOption  Type = "option"
	TypeMap     Type = "map"
	TypeEmbed   Type = "embed"
	TypePointer Type = "pointer"
)

// Types lists the complete tag vocabulary in schema order.
var Types = []Type{
	TypeBool, TypeI8, TypeU8, TypeI16, TypeU16, TypeI32, TypeU32, TypeI64, TypeU64,
	TypeF32, TypeVec2, TypeVec3, TypeVec4, TypeMtx44, TypeRGBA,
	TypeString, TypeHash, TypeFile, TypeLink, TypeFlag,
	TypeList, TypeList2, TypeOption, TypeMap, TypeEmbed, TypePointer,
}

var knownTypes = func() map[Type]bool {
	m := make(map[Type]bool, len(Types))
	for _, t := range Types {
		m[t] = true
	}
	return m
}()

// ParseType validates s against the tag vocabulary.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !knownTypes[t] {
		return "", errors.New(errors.ErrCodeInvalidDocument, "unknown type tag %q", s)
	}
	return t, nil
}

// String returns the tag.
func (t Type) String() string { return string(t) }

// Known reports whether t belongs to the tag vocabulary.
func (t Type) Known() bool { return knownTypes[t] }

// IsPrimitive reports whether t is a scalar or fixed-size tuple tag.
func (t Type) IsPrimitive() bool {
	switch t {
	default:
		return false
	case TypeBool, TypeI8, TypeU8, TypeI16, TypeU16, TypeI32, TypeU32, TypeI64, TypeU64,
		TypeF32, TypeVec2, TypeVec3, TypeVec4, TypeMtx44, TypeRGBA,
		TypeString, TypeHash, TypeFile, TypeLink, TypeFlag:
		return true
	}
}

// IsList reports whether t is a homogeneous sequence tag (list, list2, option).
func (t Type) IsList() bool {
	return t == TypeList || t == TypeList2 || t == TypeOption
}

// IsMap reports whether t is the map tag.
func (t Type) IsMap() bool { return t == TypeMap }

// IsStruct reports whether t is a named-record tag (embed, pointer).
func (t Type) IsStruct() bool { return t == TypeEmbed || t == TypePointer }

// IsSigned reports whether t is a signed integer tag.
func (t Type) IsSigned() bool {
	switch t {
	case TypeI8, TypeI16, TypeI32, TypeI64:
		return true
	}
	return false
}

// IsUnsigned reports whether t is an unsigned integer tag.
func (t Type) IsUnsigned() bool {
	switch t {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		return true
	}
	return false
}

// Implemented reports whether the value model can construct t. The mtx44,
// file and link tags are part of the schema but have no constructor.
func (t Type) Implemented() bool {
	switch t {
	case TypeMtx44, TypeFile, TypeLink:
		return false
	}
	return t.Known()
}

// bits returns the width of an integer tag.
func (t Type) bits() int {
	switch t {
	case TypeI8, TypeU8:
		return 8
	case TypeI16, TypeU16:
		return 16
	case TypeI32, TypeU32:
		return 32
	case TypeI64, TypeU64:
		return 64
	}
	return 0
}

// arity returns the component count of a tuple tag.
func (t Type) arity() int {
	switch t {
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4, TypeRGBA:
		return 4
	case TypeMtx44:
		return 16
	}
	return 0
}
