package config

import "github.com/spf13/pflag"

// RegisterFlags defines the config flags on fs. Their defaults are only
// shown in help; Load applies a flag only when the user set it.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("db", "", "path to the task database (default ~/.gantry/gantry.db)")
	fs.StringP("unit", "u", d.ViewUnit, "timeline unit: day or week")
	fs.IntP("zoom", "z", d.Zoom, "zoom level in percent (10-200)")
	fs.String("theme", d.Theme, "color theme: light or dark")
	fs.Bool("show-completed", d.ShowCompleted, "include completed tasks")
	fs.Bool("sort-by-due", d.SortByDue, "order siblings by due date")
	fs.Bool("prevent-past-dates", d.Drag.PreventPastDates, "reject reschedules into the past")
	fs.Bool("enforce-date-order", d.Drag.EnforceDateOrder, "reject start dates after due dates")
	fs.Int("max-displacement", d.Drag.MaxDisplacementDays, "largest date move in days")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn or error")
	fs.Bool("log-use-cases", d.LogUseCases, "log every write to stderr")
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	num := func(name string, dst *int) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if n, err := fs.GetInt(name); err == nil {
				*dst = n
			}
		}
	}
	flag := func(name string, dst *bool) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if b, err := fs.GetBool(name); err == nil {
				*dst = b
			}
		}
	}

	str("db", &cfg.DBPath)
	str("unit", &cfg.ViewUnit)
	num("zoom", &cfg.Zoom)
	str("theme", &cfg.Theme)
	flag("show-completed", &cfg.ShowCompleted)
	flag("sort-by-due", &cfg.SortByDue)
	flag("prevent-past-dates", &cfg.Drag.PreventPastDates)
	flag("enforce-date-order", &cfg.Drag.EnforceDateOrder)
	num("max-displacement", &cfg.Drag.MaxDisplacementDays)
	str("log-level", &cfg.LogLevel)
	flag("log-use-cases", &cfg.LogUseCases)
}
