package repository

import (
	"database/sql"
	"time"
)

const dateLayout = "2006-01-02"

// parseDate parses a stored civil date ("2006-01-02") as midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// parseTimestamp parses an RFC3339 timestamp, returning the zero time on failure.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// nullableString converts a *string to a value suitable for SQLite storage.
// Returns nil (SQL NULL) for nil or empty strings.
func nullableString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// requireOneRow maps a zero-row write to err.
func requireOneRow(res sql.Result, err error) error {
	n, raErr := res.RowsAffected()
	if raErr != nil {
		return raErr
	}
	if n == 0 {
		return err
	}
	return nil
}
