// Package tools runs the external programs of a build: the WAD extractor,
// the ritobin converter and mod-tools.
//
// The pipeline talks to them only through [Toolchain], so tests can swap in
// a fake. [Exec] is the real implementation on top of os/exec; every line a
// tool prints is logged at debug level and a non-zero exit becomes an
// errors.ErrCodeToolFailed error carrying the tail of its stderr.
package tools

import (
	"context"
)

// Toolchain is the set of external operations a build needs.
type Toolchain interface {
	// ExtractWad extracts every .bin file of the archive wad into dir.
	ExtractWad(ctx context.Context, wad, dir string) error

	// BinToJSON converts the .bin tree under src into JSON documents under dst.
	BinToJSON(ctx context.Context, src, dst string) error

	// JSONToBin converts the JSON tree under src back into .bin files under dst.
	JSONToBin(ctx context.Context, src, dst string) error

	// MakeOverlay builds an overlay from the mods installed under install.
	MakeOverlay(ctx context.Context, install, overlay, gameDir string, mods []string) error

	// RunOverlay activates overlay and blocks until ctx is cancelled or the
	// tool exits.
	RunOverlay(ctx context.Context, overlay, configDir, gameDir string) error
}
