package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{Home: t.TempDir(), WorkDir: t.TempDir(), Getenv: env(nil)}
}

func TestLoad_Defaults(t *testing.T) {
	opts := testOptions(t)
	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(opts.Home, ".gantry", "gantry.db"), cfg.DBPath)
	assert.Equal(t, "day", cfg.ViewUnit)
	assert.Equal(t, 100, cfg.Zoom)
	assert.True(t, cfg.Drag.PreventPastDates)
	assert.Equal(t, 8, cfg.Drag.HandleWidth)
	assert.Equal(t, 10, cfg.Drag.Threshold)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}

func TestLoad_Precedence(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, filepath.Join(opts.Home, ".gantry", "gantry.toml"), `
zoom = 150
theme = "dark"
view_unit = "week"

[drag]
threshold = 6
`)
	writeFile(t, filepath.Join(opts.WorkDir, "gantry.toml"), `
zoom = 120
db_path = "~/work.db"
`)
	opts.Getenv = env(map[string]string{
		"GANTRY_ZOOM":               "90",
		"GANTRY_PREVENT_PAST_DATES": "false",
	})
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--unit", "d"}))
	opts.Flags = fs

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Zoom, "env beats both files and the unset zoom flag")
	assert.Equal(t, "dark", cfg.Theme, "user file survives when nothing overrides it")
	assert.Equal(t, 6, cfg.Drag.Threshold)
	assert.Equal(t, 8, cfg.Drag.HandleWidth, "untouched nested keys keep defaults")
	assert.Equal(t, filepath.Join(opts.Home, "work.db"), cfg.DBPath)
	assert.False(t, cfg.Drag.PreventPastDates)
	assert.Equal(t, "day", cfg.ViewUnit, "flag beats user file and is normalized")
}

func TestLoad_DisplacementCappedAtAYear(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, filepath.Join(opts.WorkDir, "gantry.toml"), "[drag]\nmax_displacement_days = 5000\n")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, 365, cfg.Drag.MaxDisplacementDays)

	opts.Getenv = env(map[string]string{"GANTRY_MAX_DISPLACEMENT_DAYS": "30"})
	cfg, err = Load(opts)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Drag.MaxDisplacementDays)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "unknown key", file: "colour = \"red\"\n"},
		{name: "bad toml", file: "zoom = \n"},
		{name: "bad unit", file: "view_unit = \"month\"\n"},
		{name: "zoom out of range", file: "zoom = 500\n"},
		{name: "bad theme", env: map[string]string{"GANTRY_THEME": "solarized"}},
		{name: "bad int", env: map[string]string{"GANTRY_ZOOM": "big"}},
		{name: "bad bool", env: map[string]string{"GANTRY_SORT_BY_DUE": "maybe"}},
		{name: "bad level", env: map[string]string{"GANTRY_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(opts.WorkDir, "gantry.toml"), tt.file)
			}
			opts.Getenv = env(tt.env)
			_, err := Load(opts)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Derived(t *testing.T) {
	cfg := Default()
	cfg.Zoom = 150
	cfg.ViewUnit = "week"
	cfg.Theme = "dark"
	cfg.Drag.PreventPastDates = false
	cfg.LogLevel = "debug"

	state := cfg.ViewState()
	assert.Equal(t, 150, state.ZoomLevel)
	assert.Equal(t, domain.ViewWeek, state.ViewUnit)
	assert.Equal(t, domain.ThemeDark, state.Theme)

	rules := cfg.Rules()
	assert.False(t, rules.PreventPastDates)
	assert.True(t, rules.EnforceDateOrder)
	assert.Equal(t, 365, rules.MaxDisplacementDays)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}
