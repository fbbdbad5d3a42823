package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/binpatch/pkg/errors"
)

func TestRunInspect_Text(t *testing.T) {
	c, _ := testCLI(t, "")
	var out bytes.Buffer

	err := c.runInspect(&out, testDoc, inspectOpts{
		selects: []string{reticle},
		section: "entries",
		format:  formatText,
	})
	if err != nil {
		t.Fatalf("runInspect: %v", err)
	}
	if !strings.Contains(out.String(), "Flags: u16 197") {
		t.Errorf("tree missing Flags field:\n%s", out.String())
	}
}

func TestRunInspect_DOT(t *testing.T) {
	c, _ := testCLI(t, "")
	path := filepath.Join(t.TempDir(), "tree.dot")

	err := c.runInspect(&bytes.Buffer{}, testDoc, inspectOpts{
		section: "entries",
		depth:   1,
		format:  formatDOT,
		output:  path,
	})
	if err != nil {
		t.Fatalf("runInspect: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("output is not DOT:\n%s", data)
	}
}

func TestRunInspect_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts inspectOpts
		code errors.Code
	}{
		{"missing selector target", inspectOpts{section: "entries", format: formatText, selects: []string{"NoSuchEntry"}}, errors.ErrCodeStructuralLookup},
		{"missing section", inspectOpts{section: "patches", format: formatText}, errors.ErrCodeStructuralLookup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testCLI(t, "")
			err := c.runInspect(&bytes.Buffer{}, testDoc, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("runInspect() error = %v, want code %s", err, tt.code)
			}
		})
	}

	c, _ := testCLI(t, "")
	if err := c.runInspect(&bytes.Buffer{}, testDoc, inspectOpts{section: "entries", format: "png"}); err == nil {
		t.Error("unknown format should fail")
	}
}
