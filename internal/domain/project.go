package domain

import (
	"regexp"
	"time"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultProjectColor is used when a project carries no color of its own.
const DefaultProjectColor = "#83a598"

type Project struct {
	ID         string
	Name       string
	Color      string
	Collapsed  bool
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidColor reports whether c is a #rrggbb hex color.
func ValidColor(c string) bool {
	return colorPattern.MatchString(c)
}

// DisplayColor returns the project color, falling back to the default.
func (p *Project) DisplayColor() string {
	if ValidColor(p.Color) {
		return p.Color
	}
	return DefaultProjectColor
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
