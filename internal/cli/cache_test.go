package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/binpatch/pkg/cache"
)

func testCLI(t *testing.T, cfg string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	c.configPath = filepath.Join(t.TempDir(), "binpatch.toml")
	if cfg != "" {
		if err := os.WriteFile(c.configPath, []byte(cfg), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return c, &logs
}

func TestCachePathCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	c, _ := testCLI(t, "[cache]\ndir = '"+dir+"'\n")

	cmd := c.cachePathCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCachePathCommand_Default(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	c, _ := testCLI(t, "")

	cmd := c.cachePathCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.Join(xdg, "binpatch") {
		t.Errorf("cache path = %q", got)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"doc:a", "doc:b"} {
		if err := fc.Set(context.Background(), k, []byte("{}"), 0); err != nil {
			t.Fatal(err)
		}
	}

	c, _ := testCLI(t, "[cache]\ndir = '"+dir+"'\n")
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, hit, _ := fc.Get(context.Background(), "doc:a"); hit {
		t.Error("cache clear should remove entries")
	}
}

func TestCacheClearCommand_BadConfig(t *testing.T) {
	c, _ := testCLI(t, "[cache]\nbackend = 'memcached'\n")
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err == nil {
		t.Error("invalid backend should fail")
	}
}
