package config

import (
	"fmt"
	"strconv"
)

// loadFromEnv overrides cfg from GANTRY_* variables. Empty values are
// treated as unset; malformed numbers and booleans are errors.
func loadFromEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"GANTRY_DB":        &cfg.DBPath,
		"GANTRY_VIEW_UNIT": &cfg.ViewUnit,
		"GANTRY_THEME":     &cfg.Theme,
		"GANTRY_LOG_LEVEL": &cfg.LogLevel,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"GANTRY_ZOOM":                  &cfg.Zoom,
		"GANTRY_HANDLE_WIDTH":          &cfg.Drag.HandleWidth,
		"GANTRY_DRAG_THRESHOLD":        &cfg.Drag.Threshold,
		"GANTRY_MAX_DISPLACEMENT_DAYS": &cfg.Drag.MaxDisplacementDays,
	}
	for key, dst := range ints {
		v := getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"GANTRY_SHOW_COMPLETED":     &cfg.ShowCompleted,
		"GANTRY_SORT_BY_DUE":        &cfg.SortByDue,
		"GANTRY_PREVENT_PAST_DATES": &cfg.Drag.PreventPastDates,
		"GANTRY_ENFORCE_DATE_ORDER": &cfg.Drag.EnforceDateOrder,
		"GANTRY_LOG_USE_CASES":      &cfg.LogUseCases,
	}
	for key, dst := range bools {
		v := getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}
