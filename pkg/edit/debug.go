package edit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/binpatch/pkg/bin"
)

// Describe returns a short label for s, used in logs and error messages.
func Describe(s Subject) string {
	switch v := s.(type) {
	case nil:
		return "undefined"
	case *bin.Node:
		if v.Key == "" {
			return fmt.Sprintf("%s item", v.Type)
		}
		return fmt.Sprintf("%s %q", v.Type, v.Key)
	case *bin.MapEntry:
		return fmt.Sprintf("entry %v", v.Key)
	case *bin.Struct:
		if v == nil {
			return "null pointer"
		}
		return fmt.Sprintf("%s{%d}", v.Name, len(v.Items))
	case *bin.List:
		return fmt.Sprintf("list<%s>[%d]", v.ValueType, len(v.Items))
	case *bin.Map:
		return fmt.Sprintf("map<%s,%s>[%d]", v.KeyType, v.ValueType, len(v.Items))
	case *bin.Fields:
		return fmt.Sprintf("fields[%d]", len(*v))
	}
	return fmt.Sprintf("%T", s)
}

// Debug writes the JSON form of the subject to w and passes it through.
func Debug(w io.Writer) Func {
	return func(s Subject) (Result, error) {
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return Result{}, fmt.Errorf("debug: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return Result{}, fmt.Errorf("debug: %w", err)
		}
		return Continue(s), nil
	}
}

// Print logs msg at debug level with a description of the subject and
// passes the subject through.
func Print(logger *log.Logger, msg string) Func {
	return func(s Subject) (Result, error) {
		if logger != nil {
			logger.Debug(msg, "subject", Describe(s))
		}
		return Continue(s), nil
	}
}
