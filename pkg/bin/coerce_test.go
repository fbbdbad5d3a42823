package bin

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/binpatch/pkg/errors"
)

func TestCoerce(t *testing.T) {
	list := &List{ValueType: TypeU8}
	tests := []struct {
		name string
		typ  Type
		in   any
		want any
	}{
		{"bool", TypeBool, true, true},
		{"flag", TypeFlag, false, false},
		{"i8 from int", TypeI8, -128, int64(-128)},
		{"i16 from float", TypeI16, float64(300), int64(300)},
		{"i64 from json number", TypeI64, json.Number("-42"), int64(-42)},
		{"u8 from int", TypeU8, 255, uint64(255)},
		{"u32 from uint32", TypeU32, uint32(7), uint64(7)},
		{"u64 max", TypeU64, uint64(1<<64 - 1), uint64(1<<64 - 1)},
		{"f32 from int", TypeF32, 2, float32(2)},
		{"vec2", TypeVec2, []any{1, 2.5}, [2]float32{1, 2.5}},
		{"vec3 from float64s", TypeVec3, []float64{1, 2, 3}, [3]float32{1, 2, 3}},
		{"vec4 passthrough", TypeVec4, [4]float32{0, 0, 0, 1}, [4]float32{0, 0, 0, 1}},
		{"rgba", TypeRGBA, []any{255, 0, 10, 1}, [4]uint8{255, 0, 10, 1}},
		{"hash", TypeHash, "0xdeadbeef", "0xdeadbeef"},
		{"list", TypeList, list, list},
		{"null pointer", TypePointer, nil, (*Struct)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.typ, tt.in)
			if err != nil {
				t.Fatalf("Coerce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Coerce() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCoerce_Rejects(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		in   any
	}{
		{"i8 overflow", TypeI8, 128},
		{"u8 negative", TypeU8, -1},
		{"u16 overflow", TypeU16, 70000},
		{"fraction for int", TypeI32, 1.5},
		{"string for bool", TypeBool, "true"},
		{"vec3 arity", TypeVec3, []any{1, 2}},
		{"rgba component", TypeRGBA, []any{256, 0, 0, 0}},
		{"number for string", TypeString, 5},
		{"struct for list", TypeList, &Struct{}},
		{"nil embed", TypeEmbed, nil},
		{"option overflow", TypeOption, &List{ValueType: TypeU8, Items: []any{uint64(1), uint64(2)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Coerce(tt.typ, tt.in)
			if err == nil {
				t.Fatal("Coerce() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidValue) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidValue)
			}
		})
	}
}

func TestTypePredicates(t *testing.T) {
	for _, typ := range Types {
		groups := 0
		for _, p := range []bool{typ.IsPrimitive(), typ.IsList(), typ.IsMap(), typ.IsStruct()} {
			if p {
				groups++
			}
		}
		if groups != 1 {
			t.Errorf("%s belongs to %d groups, want exactly 1", typ, groups)
		}
	}

	for _, typ := range []Type{TypeMtx44, TypeFile, TypeLink} {
		if typ.Implemented() {
			t.Errorf("%s.Implemented() = true, want false", typ)
		}
	}

	if _, err := ParseType("vec5"); err == nil {
		t.Error("ParseType(vec5) error = nil")
	}
}
