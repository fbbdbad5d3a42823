package types

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/bin/value"
)

func TestValueColor_Node(t *testing.T) {
	n, err := value.ToNode("Color", ValueColor(RGB(230, 100, 255, 1)))
	if err != nil {
		t.Fatalf("ToNode: %v", err)
	}

	want := &bin.Node{
		Key:  "Color",
		Type: bin.TypeEmbed,
		Value: &bin.Struct{
			Name: "ValueColor",
			Items: []*bin.Node{{
				Key:   "ConstantValue",
				Type:  bin.TypeVec4,
				Value: [4]float32{230.0 / 255, 100.0 / 255, 1, 1},
			}},
		},
	}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}

	b, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	const wantJSON = `{"key":"Color","type":"embed","value":{"name":"ValueColor","items":[{"key":"ConstantValue","type":"vec4","value":[0.9019608,0.39215687,1,1]}]}}`
	if string(b) != wantJSON {
		t.Errorf("json = %s\nwant  %s", b, wantJSON)
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		typ  bin.Type
	}{
		{"ValueFloat", ValueFloat(0.5), bin.TypeF32},
		{"ValueVector2", ValueVector2([2]float32{1, 2}), bin.TypeVec2},
		{"ValueVector3", ValueVector3([3]float32{1, 2, 3}), bin.TypeVec3},
		{"ValueColor", ValueColor([4]float32{1, 1, 1, 1}), bin.TypeVec4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Type() != bin.TypeEmbed || tt.v.Name() != tt.name {
				t.Fatalf("got %s %q, want embed %q", tt.v.Type(), tt.v.Name(), tt.name)
			}
			fields := tt.v.Fields()
			if len(fields) != 1 || fields[0].Key != ConstantField || fields[0].Value.Type() != tt.typ {
				t.Errorf("fields = %+v", fields)
			}
		})
	}
}

func TestByName(t *testing.T) {
	v, err := ByName("ValueVector3", []any{1, 2, 3})
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if want := ValueVector3([3]float32{1, 2, 3}); !reflect.DeepEqual(want, v) {
		t.Errorf("ByName = %+v, want %+v", v, want)
	}

	if _, err := ByName("ValueMatrix", nil); err == nil {
		t.Error("ByName(ValueMatrix) error = nil")
	}
	if _, err := ByName("ValueVector2", []any{1}); err == nil {
		t.Error("ByName with wrong arity error = nil")
	}
}

func ExampleRGB() {
	fmt.Println(RGB(255, 0, 51, 0.5))
	// Output: [1 0 0.2 0.5]
}
