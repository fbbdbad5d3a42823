package tools

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/binpatch/pkg/errors"
	"github.com/matzehuels/binpatch/pkg/observability"
)

// stderrTail is how many stderr lines a ToolFailed error keeps.
const stderrTail = 5

// Exec runs the real binaries.
type Exec struct {
	WadTool  string
	Ritobin  string
	ModTools string

	// Dir is the working directory of every tool; empty means the current one.
	Dir    string
	Logger *log.Logger
}

// ExtractWad runs `wad_tool extract --input WAD --output DIR --filter-type bin`.
func (e *Exec) ExtractWad(ctx context.Context, wad, dir string) error {
	return e.run(ctx, e.WadTool, "extract", "--input", wad, "--output", dir, "--filter-type", "bin")
}

// BinToJSON runs `ritobin -i bin -o json -r SRC DST`.
func (e *Exec) BinToJSON(ctx context.Context, src, dst string) error {
	return e.run(ctx, e.Ritobin, "-i", "bin", "-o", "json", "-r", src, dst)
}

// JSONToBin runs `ritobin -i json -o bin -r SRC DST`.
func (e *Exec) JSONToBin(ctx context.Context, src, dst string) error {
	return e.run(ctx, e.Ritobin, "-i", "json", "-o", "bin", "-r", src, dst)
}

// MakeOverlay runs `mod_tools mkoverlay INSTALL OVERLAY --noTFT --game:G --mods:M`.
func (e *Exec) MakeOverlay(ctx context.Context, install, overlay, gameDir string, mods []string) error {
	return e.run(ctx, e.ModTools, "mkoverlay", install, overlay, "--noTFT",
		"--game:"+gameDir, "--mods:"+strings.Join(mods, "/"))
}

// RunOverlay runs `mod_tools runoverlay OVERLAY CONFIG --game:G`. A
// cancelled context is not reported as a failure.
func (e *Exec) RunOverlay(ctx context.Context, overlay, configDir, gameDir string) error {
	err := e.run(ctx, e.ModTools, "runoverlay", overlay, configDir, "--game:"+gameDir)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (e *Exec) run(ctx context.Context, tool string, args ...string) (err error) {
	name := filepath.Base(tool)
	logger := e.logger().With("tool", name)

	observability.Tool().OnToolStart(ctx, name, args)
	start := time.Now()
	defer func() {
		observability.Tool().OnToolComplete(ctx, name, time.Since(start), err)
	}()

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = e.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed, err, "%s", name)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed, err, "%s", name)
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed, err, "start %s", name)
	}

	tail := &tailBuffer{max: stderrTail}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, func(line string) { logger.Debug(line) })
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, func(line string) {
			logger.Debug(line)
			tail.add(line)
		})
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if msg := tail.String(); msg != "" {
			return errors.Wrap(errors.ErrCodeToolFailed, err, "%s: %s", name, msg)
		}
		return errors.Wrap(errors.ErrCodeToolFailed, err, "%s", name)
	}
	return nil
}

func (e *Exec) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

func scanLines(r io.Reader, fn func(string)) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			fn(line)
		}
	}
}

// tailBuffer keeps the last max lines written to it.
type tailBuffer struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func (t *tailBuffer) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "; ")
}

var _ Toolchain = (*Exec)(nil)
