package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Options locates the config sources. Zero fields fall back to the real
// home directory, working directory and environment.
type Options struct {
	Home    string
	WorkDir string
	Getenv  func(string) string
	Flags   *pflag.FlagSet
}

// Load builds the config in precedence order:
//  1. Defaults
//  2. ~/.gantry/gantry.toml
//  3. ./gantry.toml
//  4. GANTRY_* environment variables
//  5. Flags the user actually set
func Load(opts Options) (*Config, error) {
	if err := opts.fill(); err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.DBPath = filepath.Join(opts.Home, DefaultDir, DBFileName)

	for _, path := range []string{
		filepath.Join(opts.Home, DefaultDir, FileName),
		filepath.Join(opts.WorkDir, FileName),
	} {
		if err := loadFile(&cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(&cfg, opts.Getenv); err != nil {
		return nil, err
	}
	if opts.Flags != nil {
		applyFlags(&cfg, opts.Flags)
	}

	cfg.DBPath = expandHome(cfg.DBPath, opts.Home)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (o *Options) fill() error {
	if o.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		o.Home = home
	}
	if o.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		o.WorkDir = wd
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	return nil
}

// loadFile overlays the keys present in path; a missing file is skipped.
func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
