package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/cache"
	"github.com/matzehuels/binpatch/pkg/config"
	"github.com/matzehuels/binpatch/pkg/edit"
	"github.com/matzehuels/binpatch/pkg/edit/script"
	"github.com/matzehuels/binpatch/pkg/errors"
	"github.com/matzehuels/binpatch/pkg/io"
	"github.com/matzehuels/binpatch/pkg/observability"
	"github.com/matzehuels/binpatch/pkg/tools"
)

// Runner executes builds. It holds no per-build state, so one Runner can
// serve several builds in sequence; concurrent builds must use different
// work directories.
type Runner struct {
	Config *config.Config
	Tools  tools.Toolchain
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the DefaultKeyer.
func NewRunner(cfg *config.Config, tc tools.Toolchain, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Config: cfg,
		Tools:  tc,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// build carries the state of one Execute call.
type build struct {
	opts   Options
	result *Result
	docs   map[script.Target]*bin.Document
	mu     sync.Mutex
}

// Execute runs load → edit → rebuild → package → overlay.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &build{
		opts:   opts,
		result: &Result{},
		docs:   make(map[script.Target]*bin.Document),
	}
	stats := &b.result.Stats

	r.Logger.Info("loading documents", "documents", len(opts.Script.Targets()), "wads", len(opts.Script.Wads()))
	if err := r.stage(ctx, StageLoad, &stats.LoadTime, func() error { return r.load(ctx, b) }); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	r.Logger.Info("applying edits", "units", len(opts.Script.Units))
	if err := r.stage(ctx, StageEdit, &stats.EditTime, func() error { return r.edit(ctx, b) }); err != nil {
		return nil, fmt.Errorf("edit: %w", err)
	}

	r.Logger.Info("rebuilding bins")
	if err := r.stage(ctx, StageRebuild, &stats.RebuildTime, func() error { return r.rebuild(ctx, b) }); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	r.Logger.Info("packaging mod", "name", r.Config.Mod.Name)
	if err := r.stage(ctx, StagePackage, &stats.PackageTime, func() error { return r.pack(b) }); err != nil {
		return nil, fmt.Errorf("package: %w", err)
	}

	if !opts.SkipOverlay {
		r.Logger.Info("preparing overlay")
		if err := r.stage(ctx, StageOverlay, &stats.OverlayTime, func() error { return r.overlay(ctx) }); err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
	}

	return b.result, nil
}

// Run activates the overlay built by Execute and blocks until ctx is
// cancelled or mod-tools exits.
func (r *Runner) Run(ctx context.Context) error {
	dir := r.Config.OverlayDir()
	if _, err := os.Stat(dir); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "overlay %s not built", dir)
	}
	r.Logger.Info("initializing overlay", "dir", dir)
	return r.Tools.RunOverlay(ctx, dir, ".", r.Config.Paths.GameDir)
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) stage(ctx context.Context, name string, took *time.Duration, fn func() error) error {
	observability.Pipeline().OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*took = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, name, *took, err)
	return err
}

// =============================================================================
// Load
// =============================================================================

func (r *Runner) load(ctx context.Context, b *build) error {
	b.result.Ref = r.reference()
	if err := r.reset(); err != nil {
		return err
	}

	missing := make(map[string][]string)
	for _, t := range b.opts.Script.Targets() {
		if doc, ok := r.cached(ctx, b, t); ok {
			b.docs[t] = doc
			b.result.CacheInfo.Hits++
			continue
		}
		b.result.CacheInfo.Misses++
		missing[t.Wad] = append(missing[t.Wad], t.Bin)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Config.Build.Jobs)
	for _, wad := range b.opts.Script.Wads() {
		bins := missing[wad]
		if len(bins) == 0 {
			continue
		}
		g.Go(func() error {
			return r.extract(gctx, b, wad, bins)
		})
	}
	return g.Wait()
}

// reference hashes the configured reference file. An empty result disables
// caching for the build.
func (r *Runner) reference() string {
	ref := r.Config.CacheRefPath()
	if ref == "" {
		return ""
	}
	h, err := cache.HashFile(ref)
	if err != nil {
		r.Logger.Warn("cache reference unavailable, caching disabled", "file", ref, "error", err)
		return ""
	}
	r.Logger.Debug("cache reference", "file", ref, "hash", h)
	return h
}

// reset clears the staging area and the previous install and overlay.
func (r *Runner) reset() error {
	for _, dir := range []string{r.Config.InstallDir(), r.Config.OverlayDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	for _, stage := range config.Stages {
		dir := r.Config.TempDir(stage)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (r *Runner) cached(ctx context.Context, b *build, t script.Target) (*bin.Document, bool) {
	if b.result.Ref == "" || b.opts.Refresh {
		return nil, false
	}
	key := r.Keyer.DocumentKey(b.result.Ref, t.Wad, t.Bin)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "wad", t.Wad, "bin", t.Bin, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	doc, err := bin.Decode(bytes.NewReader(data))
	if err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "wad", t.Wad, "bin", t.Bin, "error", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	r.Logger.Debug("cache hit", "wad", t.Wad, "bin", t.Bin)
	return doc, true
}

// extract pulls the bins of one archive, converts them and loads the
// documents in bins.
func (r *Runner) extract(ctx context.Context, b *build, wad string, bins []string) error {
	gameDir := filepath.Join(r.Config.TempDir(config.StageGame), filepath.FromSlash(wad))
	textDir := filepath.Join(r.Config.TempDir(config.StageText), filepath.FromSlash(wad))
	if err := os.MkdirAll(gameDir, 0755); err != nil {
		return err
	}

	r.Logger.Info("extracting", "wad", wad)
	if err := r.Tools.ExtractWad(ctx, r.Config.WadPath(wad), gameDir); err != nil {
		return fmt.Errorf("%s: %w", wad, err)
	}
	if err := r.Tools.BinToJSON(ctx, gameDir, textDir); err != nil {
		return fmt.Errorf("%s: %w", wad, err)
	}

	for _, name := range bins {
		file := filepath.Join(textDir, name)
		data, err := os.ReadFile(file)
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s: %s not found in archive", wad, name)
		}
		if err != nil {
			return err
		}
		doc, err := bin.Decode(bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s: %s", wad, name)
		}

		if b.result.Ref != "" {
			key := r.Keyer.DocumentKey(b.result.Ref, wad, name)
			if err := r.Cache.Set(ctx, key, data, r.Config.Cache.TTL.Duration); err != nil {
				r.Logger.Warn("cache write failed", "wad", wad, "bin", name, "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, key, len(data))
			}
		}

		b.mu.Lock()
		b.docs[script.Target{Wad: wad, Bin: name}] = doc
		b.mu.Unlock()
	}
	return nil
}

// =============================================================================
// Edit
// =============================================================================

func (r *Runner) edit(ctx context.Context, b *build) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Config.Build.Jobs)
	for _, t := range b.opts.Script.Targets() {
		doc := b.docs[t]
		units := b.opts.Script.UnitsFor(t)
		g.Go(func() error {
			return r.apply(gctx, b, doc, units)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	b.result.Documents = len(b.docs)
	return nil
}

// apply runs units against doc in order. A stopped unit is reported and the
// next unit still runs.
func (r *Runner) apply(ctx context.Context, b *build, doc *bin.Document, units []*script.Unit) error {
	root, err := doc.Entries()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s", units[0])
	}
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := edit.Exec(root, u.Transform)
		observability.Pipeline().OnUnitApplied(ctx, u.Wad, u.Bin, res.IsStop(), err)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "unit %s (line %d)", u, u.Line)
		}

		b.mu.Lock()
		b.result.Units++
		if res.IsStop() {
			b.result.Stopped = append(b.result.Stopped, u.String())
		}
		b.mu.Unlock()

		if res.IsStop() {
			r.Logger.Warn("unit stopped early", "wad", u.Wad, "bin", u.Bin, "line", u.Line)
		} else {
			r.Logger.Debug("unit applied", "wad", u.Wad, "bin", u.Bin, "result", res)
		}
	}
	return nil
}

// =============================================================================
// Rebuild, package, overlay
// =============================================================================

func (r *Runner) rebuild(ctx context.Context, b *build) error {
	mods := r.Config.TempDir(config.StageMods)
	for t, doc := range b.docs {
		out := filepath.Join(mods, path.Base(t.Wad), t.Bin)
		r.Logger.Debug("writing edited document", "file", out)
		if err := io.ExportJSON(doc, out); err != nil {
			return err
		}
	}
	return r.Tools.JSONToBin(ctx, mods, r.Config.TempDir(config.StageDone))
}

// info is the mod's META/info.json.
type info struct {
	config.Mod
	BuildID string `json:"BuildID"`
}

func (r *Runner) pack(b *build) error {
	modDir := filepath.Join(r.Config.InstallDir(), ModName)
	wadDir := filepath.Join(modDir, "WAD")
	if err := os.MkdirAll(filepath.Dir(wadDir), 0755); err != nil {
		return err
	}
	if err := os.CopyFS(wadDir, os.DirFS(r.Config.TempDir(config.StageDone))); err != nil {
		return fmt.Errorf("copy bins: %w", err)
	}

	b.result.BuildID = uuid.NewString()
	data, err := json.MarshalIndent(info{Mod: r.Config.Mod, BuildID: b.result.BuildID}, "", "  ")
	if err != nil {
		return err
	}
	return io.WriteFile(filepath.Join(modDir, "META", "info.json"), data)
}

func (r *Runner) overlay(ctx context.Context) error {
	return r.Tools.MakeOverlay(ctx, r.Config.InstallDir(), r.Config.OverlayDir(), r.Config.Paths.GameDir, []string{ModName})
}
