package bin

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/binpatch/pkg/errors"
)

func loadSkin(t *testing.T) *Document {
	t.Helper()
	f, err := os.Open("testdata/skin.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func TestDecode_Sections(t *testing.T) {
	doc := loadSkin(t)

	var names []string
	for _, s := range doc.Sections {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"type", "version", "linked", "entries"}, names); diff != "" {
		t.Errorf("section order mismatch (-want +got):\n%s", diff)
	}

	version := doc.Section("version").Node
	if version.Type != TypeU32 || version.Value != uint64(3) {
		t.Errorf("version = %s %v (%T), want u32 3", version.Type, version.Value, version.Value)
	}
}

func TestDecode_Payloads(t *testing.T) {
	doc := loadSkin(t)
	root, err := doc.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}

	entries := root.(*Node).Value.(*Map)
	if entries.KeyType != TypeHash || entries.ValueType != TypeEmbed {
		t.Fatalf("entries types = %s/%s", entries.KeyType, entries.ValueType)
	}
	obj := entries.Items[0].Value.(*Struct)

	tests := []struct {
		key  string
		want any
	}{
		{"Flags", uint64(197)},
		{"Offset", int64(-9007199254740993)},
		{"Seed", uint64(18446744073709551615)},
		{"Visible", true},
	}
	for _, tt := range tests {
		got := obj.Field(tt.key)
		if got == nil {
			t.Fatalf("field %q missing", tt.key)
		}
		if got.Value != tt.want {
			t.Errorf("%s = %v (%T), want %v (%T)", tt.key, got.Value, got.Value, tt.want, tt.want)
		}
	}

	lifetime := obj.Field("Lifetime").Value.(*List)
	if len(lifetime.Items) != 1 || lifetime.Items[0] != float32(1.5) {
		t.Errorf("Lifetime items = %v", lifetime.Items)
	}

	emitters := obj.Field("ComplexEmitterDefinitionData").Value.(*List)
	second := emitters.Items[1].(*Struct)
	if tint := second.Field("Tint").Value; tint != [4]uint8{255, 128, 0, 255} {
		t.Errorf("Tint = %v", tint)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	doc := loadSkin(t)

	first, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := Decode(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := Marshal(again)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("encoding is not stable:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(string(first), "18446744073709551615") {
		t.Error("u64 lost precision in round trip")
	}
}

func TestDecode_BareEntries(t *testing.T) {
	in := `{"entries": [{"key": "ParticleColorTexture", "type": "string", "value": "tex.dds"}]}`
	doc, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	root, err := doc.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	fields, ok := root.(*Fields)
	if !ok {
		t.Fatalf("root = %T, want *Fields", root)
	}
	want := Fields{{Key: "ParticleColorTexture", Type: TypeString, Value: "tex.dds"}}
	if diff := cmp.Diff(want, *fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	*fields = (*fields)[:0]
	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := strings.Join(strings.Fields(string(out)), ""); got != `{"entries":[]}` {
		t.Errorf("Marshal = %s", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not an object", `[1, 2]`},
		{"unknown tag", `{"entries": [{"key": "a", "type": "u128", "value": 1}]}`},
		{"out of range", `{"entries": [{"key": "a", "type": "u8", "value": 256}]}`},
		{"wrong arity", `{"entries": [{"key": "a", "type": "vec3", "value": [1, 2]}]}`},
		{"option overflow", `{"entries": [{"key": "a", "type": "option", "value": {"valueType": "u8", "items": [1, 2]}}]}`},
		{"truncated", `{"entries": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("Decode() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), errors.ErrCodeInvalidDocument, err)
			}
		})
	}
}

func TestMarshal_RejectsForeignPayload(t *testing.T) {
	doc := &Document{Sections: []*Section{{
		Name:   "entries",
		Fields: &Fields{{Key: "Flags", Type: TypeU32, Value: "three"}},
	}}}
	if _, err := Marshal(doc); err == nil {
		t.Fatal("Marshal() error = nil, want error for string payload on u32")
	}
}

func TestDocumentClone(t *testing.T) {
	doc := loadSkin(t)
	clone := doc.Clone()

	obj := clone.Section("entries").Node.Value.(*Map).Items[0].Value.(*Struct)
	obj.Items = obj.Items[:0]

	orig := doc.Section("entries").Node.Value.(*Map).Items[0].Value.(*Struct)
	if len(orig.Items) == 0 {
		t.Error("mutating the clone changed the original")
	}
}
