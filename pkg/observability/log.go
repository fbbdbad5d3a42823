package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. It implements
// PipelineHooks, CacheHooks and ToolHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetToolHooks(h)
}

func (h *LogHooks) OnStageStart(_ context.Context, stage string) {
	h.Logger.Debug("stage started", "stage", stage)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("stage failed", "stage", stage, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("stage complete", "stage", stage, "duration", d)
}

func (h *LogHooks) OnUnitApplied(_ context.Context, wad, bin string, stopped bool, err error) {
	h.Logger.Debug("unit applied", "wad", wad, "bin", bin, "stopped", stopped, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, key string) {
	h.Logger.Debug("cache hit", "key", key)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, key string) {
	h.Logger.Debug("cache miss", "key", key)
}

func (h *LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.Logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *LogHooks) OnToolStart(_ context.Context, tool string, args []string) {
	h.Logger.Debug("exec", "tool", tool, "args", strings.Join(args, " "))
}

func (h *LogHooks) OnToolComplete(_ context.Context, tool string, d time.Duration, err error) {
	h.Logger.Debug("exit", "tool", tool, "duration", d, "error", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ToolHooks     = (*LogHooks)(nil)
)
