// Package config loads binpatch.toml.
//
// Every field has a default, so a missing file is not an error:
//
//	[paths]
//	game_dir  = 'C:\Riot Games\League of Legends\Game'
//	ritobin   = "./bins/ritobin/ritobin_cli.exe"
//	mod_tools = "./bins/cslol-tools/mod-tools.exe"
//	wad_tool  = "./bins/wadtools.exe"
//	work_dir  = ".local"
//	cache_ref = "League of Legends.exe"
//
//	[cache]
//	backend   = "file"   # file, redis or none
//	dir       = ""       # defaults to $XDG_CACHE_HOME/binpatch
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "720h"
//
//	[mod]
//	name = "binpatch"
//
//	[build]
//	jobs = 4
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/binpatch/pkg/errors"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "binpatch.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Staging stages under <work_dir>/temp.
const (
	StageGame = "game"
	StageText = "text"
	StageMods = "mods"
	StageDone = "done"
)

// Stages lists the staging stages in pipeline order.
var Stages = []string{StageGame, StageText, StageMods, StageDone}

// Config is the complete tool configuration.
type Config struct {
	Paths Paths `toml:"paths"`
	Cache Cache `toml:"cache"`
	Mod   Mod   `toml:"mod"`
	Build Build `toml:"build"`

	// file the config was loaded from, empty for defaults
	file string
}

// Paths locates the game, the external tools and the working area.
type Paths struct {
	GameDir  string `toml:"game_dir"`
	Ritobin  string `toml:"ritobin"`
	ModTools string `toml:"mod_tools"`
	WadTool  string `toml:"wad_tool"`
	WorkDir  string `toml:"work_dir"`

	// CacheRef is a file under GameDir whose hash keys the document cache.
	CacheRef string `toml:"cache_ref"`
}

// Cache selects the converted-document cache backend.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Mod is written to META/info.json of the packaged mod.
type Mod struct {
	Name        string `toml:"name" json:"Name"`
	Author      string `toml:"author" json:"Author"`
	Version     string `toml:"version" json:"Version"`
	Description string `toml:"description" json:"Description"`
}

// Build tunes the pipeline.
type Build struct {
	// Jobs bounds concurrent extraction and editing.
	Jobs int `toml:"jobs"`
}

// Duration is a time.Duration decoded from a TOML string such as "12h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Paths: Paths{
			GameDir:  `C:\Riot Games\League of Legends\Game`,
			Ritobin:  "./bins/ritobin/ritobin_cli.exe",
			ModTools: "./bins/cslol-tools/mod-tools.exe",
			WadTool:  "./bins/wadtools.exe",
			WorkDir:  ".local",
			CacheRef: "League of Legends.exe",
		},
		Cache: Cache{
			Backend:  BackendFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      Duration{30 * 24 * time.Hour},
		},
		Mod: Mod{
			Name:    "binpatch",
			Author:  "binpatch",
			Version: "1.0.0",
		},
		Build: Build{Jobs: runtime.NumCPU()},
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := cfg.decode(string(data)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	cfg.file = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return nil
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Build.Jobs < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "build.jobs must be at least 1, got %d", c.Build.Jobs)
	}
	for key, v := range map[string]string{
		"paths.game_dir":  c.Paths.GameDir,
		"paths.ritobin":   c.Paths.Ritobin,
		"paths.mod_tools": c.Paths.ModTools,
		"paths.wad_tool":  c.Paths.WadTool,
		"paths.work_dir":  c.Paths.WorkDir,
		"mod.name":        c.Mod.Name,
	} {
		if v == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s is required", key)
		}
	}
	return nil
}

// File returns the path the config was loaded from, or "" for defaults.
func (c *Config) File() string { return c.file }

// WadDir is where the game keeps its archives.
func (c *Config) WadDir() string {
	return filepath.Join(c.Paths.GameDir, "DATA", "FINAL")
}

// WadPath resolves an archive path from an edit script.
func (c *Config) WadPath(wad string) string {
	return filepath.Join(c.WadDir(), filepath.FromSlash(wad))
}

// CacheRefPath is the file hashed to key the document cache. Empty when
// cache_ref is unset.
func (c *Config) CacheRefPath() string {
	if c.Paths.CacheRef == "" {
		return ""
	}
	return filepath.Join(c.Paths.GameDir, c.Paths.CacheRef)
}

// TempDir returns the staging directory of a stage.
func (c *Config) TempDir(stage string) string {
	return filepath.Join(c.Paths.WorkDir, "temp", stage)
}

// InstallDir is where the packaged mod is assembled.
func (c *Config) InstallDir() string {
	return filepath.Join(c.Paths.WorkDir, "install")
}

// ModDir is the mod folder inside InstallDir.
func (c *Config) ModDir() string {
	return filepath.Join(c.InstallDir(), "mod")
}

// OverlayDir is the overlay built by mod-tools.
func (c *Config) OverlayDir() string {
	return filepath.Join(c.Paths.WorkDir, "overlay")
}

// CacheDir returns the file cache directory: cache.dir if set, otherwise
// $XDG_CACHE_HOME/binpatch or ~/.cache/binpatch.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return DefaultCacheDir()
}

// DefaultCacheDir returns the XDG cache directory for binpatch.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "binpatch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "binpatch-cache")
	}
	return filepath.Join(home, ".cache", "binpatch")
}
