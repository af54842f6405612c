// Package config resolves gantry settings from defaults, TOML files, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
)

const (
	FileName   = "gantry.toml"
	DefaultDir = ".gantry"
	DBFileName = "gantry.db"
)

type Config struct {
	DBPath        string     `toml:"db_path"`
	ViewUnit      string     `toml:"view_unit"`
	Zoom          int        `toml:"zoom"`
	Theme         string     `toml:"theme"`
	ShowCompleted bool       `toml:"show_completed"`
	SortByDue     bool       `toml:"sort_by_due"`
	Drag          DragConfig `toml:"drag"`
	LogLevel      string     `toml:"log_level"`
	LogUseCases   bool       `toml:"log_use_cases"`
}

type DragConfig struct {
	PreventPastDates    bool `toml:"prevent_past_dates"`
	EnforceDateOrder    bool `toml:"enforce_date_order"`
	HandleWidth         int  `toml:"handle_width"`
	Threshold           int  `toml:"threshold"`
	MaxDisplacementDays int  `toml:"max_displacement_days"`
}

// Default returns the built-in settings. DBPath is filled in by Load.
func Default() Config {
	return Config{
		ViewUnit:      string(domain.ViewDay),
		Zoom:          domain.DefaultZoom,
		Theme:         string(domain.ThemeLight),
		ShowCompleted: true,
		Drag: DragConfig{
			PreventPastDates:    true,
			EnforceDateOrder:    true,
			HandleWidth:         drag.DefaultHandleWidth,
			Threshold:           drag.DefaultThreshold,
			MaxDisplacementDays: drag.DefaultMaxDisplacementDays,
		},
		LogLevel: "warn",
	}
}

// Validate normalizes the view unit and rejects values nothing downstream
// could honor.
func (c *Config) Validate() error {
	unit, err := domain.ParseViewUnit(strings.ToLower(c.ViewUnit))
	if err != nil {
		return err
	}
	c.ViewUnit = string(unit)

	if !domain.ValidThemes[c.Theme] {
		return fmt.Errorf("invalid theme %q (expected light or dark)", c.Theme)
	}
	if c.Zoom < domain.MinZoom || c.Zoom > domain.MaxZoom {
		return fmt.Errorf("zoom %d out of range [%d, %d]", c.Zoom, domain.MinZoom, domain.MaxZoom)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Drag.HandleWidth < 0 || c.Drag.Threshold < 0 || c.Drag.MaxDisplacementDays < 0 {
		return fmt.Errorf("drag settings must not be negative")
	}
	if c.Drag.MaxDisplacementDays > drag.DefaultMaxDisplacementDays {
		c.Drag.MaxDisplacementDays = drag.DefaultMaxDisplacementDays
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is empty")
	}
	return nil
}

func (c Config) Rules() drag.Rules {
	return drag.Rules{
		PreventPastDates:    c.Drag.PreventPastDates,
		EnforceDateOrder:    c.Drag.EnforceDateOrder,
		MaxDisplacementDays: c.Drag.MaxDisplacementDays,
	}
}

// ViewState is the initial timeline state described by the config.
func (c Config) ViewState() domain.TimelineViewState {
	s := domain.NewViewState()
	s.SetZoom(c.Zoom)
	s.SetViewUnit(domain.ViewUnit(c.ViewUnit))
	s.Theme = domain.Theme(c.Theme)
	return s
}

func (c Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
	}
	return l, nil
}
