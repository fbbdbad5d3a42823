package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, "extract")
	p.OnStageComplete(ctx, "extract", time.Second, nil)
	p.OnUnitApplied(ctx, "Champions/Xerath.wad.client", "a.json", true, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "doc:1")
	c.OnCacheMiss(ctx, "doc:2")
	c.OnCacheSet(ctx, "doc:3", 1024)

	tl := NoopToolHooks{}
	tl.OnToolStart(ctx, "ritobin", []string{"-i", "bin"})
	tl.OnToolComplete(ctx, "ritobin", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Tool().(NoopToolHooks); !ok {
		t.Error("Tool() should return NoopToolHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customTool := &testToolHooks{}
	SetToolHooks(customTool)
	if Tool() != customTool {
		t.Error("SetToolHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	h.Install()

	ctx := context.Background()
	Pipeline().OnStageComplete(ctx, "convert", time.Millisecond, errors.New("boom"))
	Cache().OnCacheMiss(ctx, "doc:abc")
	Tool().OnToolStart(ctx, "wad_tool", []string{"extract", "--input", "a.wad.client"})

	out := buf.String()
	for _, want := range []string{"stage failed", "convert", "boom", "cache miss", "doc:abc", "extract --input a.wad.client"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testToolHooks struct{ NoopToolHooks }
