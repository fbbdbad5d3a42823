package script

import (
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/binpatch/pkg/edit"
	"github.com/matzehuels/binpatch/pkg/errors"
)

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.AllowUndefinedVariables(),
		expr.Function("rgb", func(params ...any) (any, error) {
			return []any{
				float64(params[0].(int)) / 255,
				float64(params[1].(int)) / 255,
				float64(params[2].(int)) / 255,
				1.0,
			}, nil
		},
			new(func(int, int, int) []any)),
	}
}

// compileExpr compiles a modify expression. The program sees the field's
// current payload as value; numbers are ints or floats and tuples are
// arrays.
func compileExpr(src string) (edit.Update, error) {
	prg, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "compile expr %q", src)
	}
	return func(old any) (any, error) {
		return runExpr(prg, src, old)
	}, nil
}

func runExpr(prg *vm.Program, src string, old any) (any, error) {
	in, err := toExpr(old)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(prg, map[string]any{"value": in})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidValue, err, "run expr %q", src)
	}
	return out, nil
}

// toExpr converts a canonical payload into the value types expr programs
// operate on.
func toExpr(p any) (any, error) {
	switch v := p.(type) {
	case bool, string:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v <= math.MaxInt64 {
			return int(v), nil
		}
		return v, nil
	case float32:
		return float64(v), nil
	case [2]float32:
		return floatsToExpr(v[:]), nil
	case [3]float32:
		return floatsToExpr(v[:]), nil
	case [4]float32:
		return floatsToExpr(v[:]), nil
	case [4]uint8:
		return []any{int(v[0]), int(v[1]), int(v[2]), int(v[3])}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidValue, "expr cannot read %T payloads", p)
}

func floatsToExpr(fs []float32) []any {
	res := make([]any, len(fs))
	for i, f := range fs {
		res[i] = float64(f)
	}
	return res
}
