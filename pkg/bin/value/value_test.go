package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/errors"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		typ  bin.Type
		want any
	}{
		{"bool", Bool(true), bin.TypeBool, true},
		{"i8", I8(-128), bin.TypeI8, int64(-128)},
		{"u8", U8(255), bin.TypeU8, uint64(255)},
		{"i16", I16(-300), bin.TypeI16, int64(-300)},
		{"u16", U16(65535), bin.TypeU16, uint64(65535)},
		{"i32", I32(-1 << 31), bin.TypeI32, int64(-1 << 31)},
		{"u32", U32(3), bin.TypeU32, uint64(3)},
		{"i64", I64(-9007199254740993), bin.TypeI64, int64(-9007199254740993)},
		{"u64", U64(1<<64 - 1), bin.TypeU64, uint64(1<<64 - 1)},
		{"f32", F32(0.5), bin.TypeF32, float32(0.5)},
		{"vec2", Vec2([2]float32{1, 2}), bin.TypeVec2, [2]float32{1, 2}},
		{"vec3", Vec3([3]float32{1, 2, 3}), bin.TypeVec3, [3]float32{1, 2, 3}},
		{"vec4", Vec4([4]float32{1, 2, 3, 4}), bin.TypeVec4, [4]float32{1, 2, 3, 4}},
		{"rgba", RGBA([4]uint8{255, 128, 0, 255}), bin.TypeRGBA, [4]uint8{255, 128, 0, 255}},
		{"string", String("tex.dds"), bin.TypeString, "tex.dds"},
		{"hash", Hash("0x1f2e3d4c"), bin.TypeHash, "0x1f2e3d4c"},
		{"flag", Flag(false), bin.TypeFlag, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.typ, tt.v.Type())

			got, err := Payload(tt.v)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			n, err := ToNode("Field", tt.v)
			require.NoError(t, err)
			require.Equal(t, &bin.Node{Key: "Field", Type: tt.typ, Value: tt.want}, n)

			back, err := FromNode(n)
			require.NoError(t, err)
			require.Equal(t, tt.v, back)
		})
	}
}

func TestUnsupportedVariants(t *testing.T) {
	_, err := Mtx44([16]float32{})
	require.True(t, errors.Is(err, errors.ErrCodeUnsupportedVariant))

	_, err = File("data/a.bin")
	require.True(t, errors.Is(err, errors.ErrCodeUnsupportedVariant))

	_, err = Link("Characters/Xerath")
	require.True(t, errors.Is(err, errors.ErrCodeUnsupportedVariant))

	_, err = List(bin.TypeMtx44)
	require.True(t, errors.Is(err, errors.ErrCodeUnsupportedVariant))

	_, err = Of(bin.TypeLink, "x")
	require.True(t, errors.Is(err, errors.ErrCodeUnsupportedVariant))
}

func TestList_AutoWrap(t *testing.T) {
	v, err := List(bin.TypeU32, 1, uint8(2), U32(3))
	require.NoError(t, err)
	require.Equal(t, bin.TypeU32, v.ElementType())
	require.Len(t, v.Items(), 3)

	p, err := Payload(v)
	require.NoError(t, err)
	want := &bin.List{ValueType: bin.TypeU32, Items: []any{uint64(1), uint64(2), uint64(3)}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestList_Homogeneity(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Value, error)
	}{
		{"mixed value types", func() (Value, error) { return List(bin.TypeU32, U32(1), U8(2)) }},
		{"raw string for u32", func() (Value, error) { return List2(bin.TypeU32, "three") }},
		{"out of range raw", func() (Value, error) { return List(bin.TypeU8, 256) }},
		{"raw item for struct elements", func() (Value, error) { return List(bin.TypePointer, "x") }},
		{"wrong record kind", func() (Value, error) { return List(bin.TypePointer, Embed("A")) }},
		{"option overflow", func() (Value, error) { return Option(bin.TypeF32, 1, 2) }},
		{"map value mismatch", func() (Value, error) {
			return Map(bin.TypeHash, bin.TypeEmbed, Entry{Key: "0x1", Value: Pointer("A")})
		}},
		{"map key out of range", func() (Value, error) {
			return Map(bin.TypeU8, bin.TypeString, Entry{Key: -1, Value: "x"})
		}},
		{"map key not primitive", func() (Value, error) { return Map(bin.TypeEmbed, bin.TypeString) }},
		{"unknown element type", func() (Value, error) { return List("u128") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrCodeInvalidValue), "code = %s", errors.GetCode(err))
		})
	}
}

func TestNestedContainers(t *testing.T) {
	emitter := Pointer("VfxEmitterDefinitionData",
		F("EmitterName", String("glow")),
		F("ColorRenderFlags", U8(1)),
	)
	emitters := Must(List(bin.TypePointer, emitter))
	lookup := Must(Map(bin.TypeHash, bin.TypeList,
		Entry{Key: "0xaa", Value: emitters},
	))

	n, err := ToNode("Lookup", lookup)
	require.NoError(t, err)

	m := n.Value.(*bin.Map)
	require.Equal(t, bin.TypeHash, m.KeyType)
	require.Equal(t, "0xaa", m.Items[0].Key)

	inner := m.Items[0].Value.(*bin.List)
	s := inner.Items[0].(*bin.Struct)
	require.Equal(t, "VfxEmitterDefinitionData", s.Name)
	require.Equal(t, uint64(1), s.Field("ColorRenderFlags").Value)

	back, err := FromNode(n)
	require.NoError(t, err)
	again, err := ToNode("Lookup", back)
	require.NoError(t, err)
	if diff := cmp.Diff(n, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPayload_FreshStorage(t *testing.T) {
	v := Embed("ValueFloat", F("ConstantValue", F32(1)))

	a, err := Payload(v)
	require.NoError(t, err)
	b, err := Payload(v)
	require.NoError(t, err)

	a.(*bin.Struct).Items[0].Value = float32(2)
	require.Equal(t, float32(1), b.(*bin.Struct).Items[0].Value)
}

func TestPayload_ZeroValue(t *testing.T) {
	_, err := Payload(Value{})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidValue))

	_, err = ToNode("Broken", Embed("A", F("Missing", Value{})))
	require.Error(t, err)
}

func TestMust(t *testing.T) {
	require.Panics(t, func() { Must(File("x")) })
	require.NotPanics(t, func() { Must(Option(bin.TypeString)) })
}
