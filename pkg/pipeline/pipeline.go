// Package pipeline builds a mod from an edit script.
//
// A build runs five stages:
//
//  1. Load: hash the game's reference file, then fetch every document the
//     script targets from the cache, or extract and convert it from its
//     archive.
//  2. Edit: apply the units of each document in script order.
//  3. Rebuild: write the edited documents and convert them back to .bin.
//  4. Package: assemble the mod folder with its META/info.json.
//  5. Overlay: let mod-tools build the overlay the game loads.
//
// Archives are processed concurrently, as are documents during the edit
// stage, bounded by build.jobs. Units targeting the same document always
// run sequentially.
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, toolchain, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Script: s})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = runner.Run(ctx) // blocks while the overlay is active
package pipeline

import (
	"time"

	"github.com/matzehuels/binpatch/pkg/edit/script"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// Stage names reported to observability hooks.
const (
	StageLoad    = "load"
	StageEdit    = "edit"
	StageRebuild = "rebuild"
	StagePackage = "package"
	StageOverlay = "overlay"
)

// ModName is the folder name of the packaged mod under the install dir.
const ModName = "mod"

// Options select what a build does.
type Options struct {
	// Script holds the units to apply.
	Script *script.Script

	// Refresh ignores cached documents. Fresh conversions are still stored.
	Refresh bool

	// SkipOverlay stops after packaging.
	SkipOverlay bool
}

// Validate checks that the options describe a build.
func (o *Options) Validate() error {
	if o.Script == nil || len(o.Script.Units) == 0 {
		return errors.New(errors.ErrCodeInvalidScript, "no edit units to apply")
	}
	return nil
}

// Result describes a finished build.
type Result struct {
	// Ref is the reference hash keying the cache, empty when caching was
	// disabled for the run.
	Ref string

	// BuildID is written to the mod's META/info.json.
	BuildID string

	// Documents is the number of edited documents.
	Documents int

	// Units is the number of applied units.
	Units int

	// Stopped lists the units whose chain stopped early.
	Stopped []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains stage timings.
type Stats struct {
	LoadTime    time.Duration
	EditTime    time.Duration
	RebuildTime time.Duration
	PackageTime time.Duration
	OverlayTime time.Duration
}

// CacheInfo counts document cache lookups.
type CacheInfo struct {
	Hits   int
	Misses int
}
