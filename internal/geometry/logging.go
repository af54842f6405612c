package geometry

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger installs the logger used to report malformed input. A nil logger
// restores the discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// InputError describes malformed input to a coordinate computation. The
// computation itself never fails; it returns a neutral value and reports the
// error through the package logger.
type InputError struct {
	Op        string
	Date      time.Time
	Start     time.Time
	CellWidth int
	Unit      string
	Reason    string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s (date=%s start=%s cell_width=%d unit=%q)",
		e.Op, e.Reason, e.Date.Format(time.DateOnly), e.Start.Format(time.DateOnly), e.CellWidth, e.Unit)
}

func reportInput(e *InputError) {
	logger.Load().Warn("geometry_input_error",
		"op", e.Op,
		"reason", e.Reason,
		"cell_width", e.CellWidth,
		"unit", e.Unit,
		"error", e.Error(),
	)
}
