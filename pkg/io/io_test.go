package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/binpatch/pkg/errors"
)

func TestImportExportRoundTrip(t *testing.T) {
	doc, err := ImportJSON("testdata/skin.json")
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if doc.Section("entries") == nil {
		t.Fatal("entries section missing")
	}

	out := filepath.Join(t.TempDir(), "mods", "Xerath.wad.client", "skin.json")
	if err := ExportJSON(doc, out); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	again, err := ImportJSON(out)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}

	var a, b bytes.Buffer
	if err := WriteJSON(doc, &a); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(again, &b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("export/import changed the document")
	}
}

func TestImportJSON_Errors(t *testing.T) {
	if _, err := ImportJSON("testdata/none.json"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`[1, 2]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportJSON(bad); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("bad document: %v", err)
	}
}

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"type": {"type": "string", "value": "PROP"}, "version": {"type": "u32", "value": 3}}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got := doc.Section("version").Node.Value; got != uint64(3) {
		t.Errorf("version = %v", got)
	}
}
