package bin

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/binpatch/pkg/errors"
)

// Coerce converts x into the canonical payload for t (see [Node]). Generic Go
// numbers, slices and json.Number values are accepted as long as they fit the
// tag exactly: integers must be in range, floats bound for integer tags must
// be integral, and tuples must have the right arity. Container tags accept
// only their payload pointer type.
func Coerce(t Type, x any) (any, error) {
	switch {
	case t == TypeBool || t == TypeFlag:
		b, ok := x.(bool)
		if !ok {
			return nil, mismatch(t, x)
		}
		return b, nil

	case t.IsSigned():
		i, err := toInt(t, x)
		if err != nil {
			return nil, err
		}
		return i, nil

	case t.IsUnsigned():
		u, err := toUint(t, x)
		if err != nil {
			return nil, err
		}
		return u, nil

	case t == TypeF32:
		f, ok := toFloat(x)
		if !ok {
			return nil, mismatch(t, x)
		}
		return float32(f), nil

	case t == TypeVec2:
		c, err := floats(t, x)
		if err != nil {
			return nil, err
		}
		return [2]float32{c[0], c[1]}, nil

	case t == TypeVec3:
		c, err := floats(t, x)
		if err != nil {
			return nil, err
		}
		return [3]float32{c[0], c[1], c[2]}, nil

	case t == TypeVec4:
		c, err := floats(t, x)
		if err != nil {
			return nil, err
		}
		return [4]float32{c[0], c[1], c[2], c[3]}, nil

	case t == TypeMtx44:
		c, err := floats(t, x)
		if err != nil {
			return nil, err
		}
		var m [16]float32
		copy(m[:], c)
		return m, nil

	case t == TypeRGBA:
		return toRGBA(x)

	case t == TypeString || t == TypeHash || t == TypeFile || t == TypeLink:
		s, ok := x.(string)
		if !ok {
			return nil, mismatch(t, x)
		}
		return s, nil

	case t.IsList():
		l, ok := x.(*List)
		if !ok || l == nil {
			return nil, mismatch(t, x)
		}
		if t == TypeOption && len(l.Items) > 1 {
			return nil, errors.New(errors.ErrCodeInvalidValue, "option holds %d items, want at most 1", len(l.Items))
		}
		return l, nil

	case t == TypeMap:
		m, ok := x.(*Map)
		if !ok || m == nil {
			return nil, mismatch(t, x)
		}
		return m, nil

	case t == TypeEmbed:
		s, ok := x.(*Struct)
		if !ok || s == nil {
			return nil, mismatch(t, x)
		}
		return s, nil

	case t == TypePointer:
		s, ok := x.(*Struct)
		if !ok {
			if x == nil {
				return (*Struct)(nil), nil
			}
			return nil, mismatch(t, x)
		}
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "no payload shape for type tag %q", t)
}

func mismatch(t Type, x any) error {
	return errors.New(errors.ErrCodeInvalidValue, "cannot use %T (%v) as %s", x, x, t)
}

func toInt(t Type, x any) (int64, error) {
	var i int64
	switch v := x.(type) {
	case int:
		i = int64(v)
	case int8:
		i = int64(v)
	case int16:
		i = int64(v)
	case int32:
		i = int64(v)
	case int64:
		i = v
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint(TypeU64, v)
		if u > math.MaxInt64 {
			return 0, outOfRange(t, x)
		}
		i = int64(u)
	case float32, float64, json.Number:
		f, _ := toFloat(v)
		if n, err := strconv.ParseInt(numberString(v), 10, 64); err == nil {
			i = n
			break
		}
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			return 0, mismatch(t, x)
		}
		i = int64(f)
	default:
		return 0, mismatch(t, x)
	}
	bits := t.bits()
	if bits < 64 {
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if i < lo || i > hi {
			return 0, outOfRange(t, x)
		}
	}
	return i, nil
}

func toUint(t Type, x any) (uint64, error) {
	var u uint64
	switch v := x.(type) {
	case uint:
		u = uint64(v)
	case uint8:
		u = uint64(v)
	case uint16:
		u = uint64(v)
	case uint32:
		u = uint64(v)
	case uint64:
		u = v
	case int, int8, int16, int32, int64:
		i, _ := toInt(TypeI64, v)
		if i < 0 {
			return 0, outOfRange(t, x)
		}
		u = uint64(i)
	case float32, float64, json.Number:
		if n, err := strconv.ParseUint(numberString(v), 10, 64); err == nil {
			u = n
			break
		}
		f, _ := toFloat(v)
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, mismatch(t, x)
		}
		u = uint64(f)
	default:
		return 0, mismatch(t, x)
	}
	if bits := t.bits(); bits < 64 && u > uint64(1)<<bits-1 {
		return 0, outOfRange(t, x)
	}
	return u, nil
}

func outOfRange(t Type, x any) error {
	return errors.New(errors.ErrCodeInvalidValue, "%v out of range for %s", x, t)
}

func numberString(x any) string {
	switch v := x.(type) {
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return ""
}

func toFloat(x any) (float64, bool) {
	switch v := x.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// components flattens the supported tuple inputs into a generic slice.
func components(x any) ([]any, bool) {
	switch v := x.(type) {
	case []any:
		return v, true
	case []float32:
		res := make([]any, len(v))
		for i := range v {
			res[i] = v[i]
		}
		return res, true
	case []float64:
		res := make([]any, len(v))
		for i := range v {
			res[i] = v[i]
		}
		return res, true
	case []int:
		res := make([]any, len(v))
		for i := range v {
			res[i] = v[i]
		}
		return res, true
	case []uint8:
		res := make([]any, len(v))
		for i := range v {
			res[i] = v[i]
		}
		return res, true
	case [2]float32:
		return []any{v[0], v[1]}, true
	case [3]float32:
		return []any{v[0], v[1], v[2]}, true
	case [4]float32:
		return []any{v[0], v[1], v[2], v[3]}, true
	case [4]uint8:
		return []any{v[0], v[1], v[2], v[3]}, true
	case [16]float32:
		res := make([]any, 16)
		for i := range v {
			res[i] = v[i]
		}
		return res, true
	}
	return nil, false
}

func floats(t Type, x any) ([]float32, error) {
	parts, ok := components(x)
	if !ok {
		return nil, mismatch(t, x)
	}
	if len(parts) != t.arity() {
		return nil, errors.New(errors.ErrCodeInvalidValue, "%s needs %d components, got %d", t, t.arity(), len(parts))
	}
	res := make([]float32, len(parts))
	for i, p := range parts {
		f, ok := toFloat(p)
		if !ok {
			return nil, mismatch(t, x)
		}
		res[i] = float32(f)
	}
	return res, nil
}

func toRGBA(x any) ([4]uint8, error) {
	var res [4]uint8
	parts, ok := components(x)
	if !ok {
		return res, mismatch(TypeRGBA, x)
	}
	if len(parts) != 4 {
		return res, errors.New(errors.ErrCodeInvalidValue, "rgba needs 4 components, got %d", len(parts))
	}
	for i, p := range parts {
		u, err := toUint(TypeU8, p)
		if err != nil {
			return res, err
		}
		res[i] = uint8(u)
	}
	return res, nil
}
