// Package types provides builders for record shapes that recur across game
// asset documents.
//
// Most animated or constant parameters in particle definitions are stored as
// a small named record holding one ConstantValue field, for example
//
//	{"name": "ValueColor", "items": [{"key": "ConstantValue", "type": "vec4", "value": [1, 0, 0, 1]}]}
//
// The helpers here build those records as [value.Value] embeds.
package types

import (
	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/bin/value"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// ConstantField is the key of the single field every constant wrapper holds.
const ConstantField = "ConstantValue"

// Constant wraps v in an embed named name with v as its ConstantValue.
func Constant(name string, v value.Value) value.Value {
	return value.Embed(name, value.F(ConstantField, v))
}

// ValueFloat is a constant f32 parameter.
func ValueFloat(f float32) value.Value {
	return Constant("ValueFloat", value.F32(f))
}

// ValueVector2 is a constant vec2 parameter.
func ValueVector2(v [2]float32) value.Value {
	return Constant("ValueVector2", value.Vec2(v))
}

// ValueVector3 is a constant vec3 parameter.
func ValueVector3(v [3]float32) value.Value {
	return Constant("ValueVector3", value.Vec3(v))
}

// ValueColor is a constant colour parameter with normalized components.
func ValueColor(rgba [4]float32) value.Value {
	return Constant("ValueColor", value.Vec4(rgba))
}

// RGB converts 8-bit channel values into the normalized vec4 colour form
// used by ValueColor, with alpha set to opacity.
func RGB(r, g, b uint8, opacity float32) [4]float32 {
	return [4]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255, opacity}
}

// ByName builds the named helper from a natively shaped argument. It backs
// the helper form of edit scripts.
func ByName(name string, x any) (value.Value, error) {
	var t bin.Type
	switch name {
	case "ValueFloat":
		t = bin.TypeF32
	case "ValueVector2":
		t = bin.TypeVec2
	case "ValueVector3":
		t = bin.TypeVec3
	case "ValueColor":
		t = bin.TypeVec4
	default:
		return value.Value{}, errors.New(errors.ErrCodeInvalidValue, "unknown helper %q", name)
	}
	v, err := value.Of(t, x)
	if err != nil {
		return value.Value{}, errors.Wrap(errors.GetCode(err), err, "helper %s", name)
	}
	return Constant(name, v), nil
}

// Helpers lists the names accepted by ByName.
var Helpers = []string{"ValueFloat", "ValueVector2", "ValueVector3", "ValueColor"}
