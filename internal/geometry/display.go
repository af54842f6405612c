package geometry

type DisplayLevel string

const (
	DisplayMinimal DisplayLevel = "minimal"
	DisplayCompact DisplayLevel = "compact"
	DisplayReduced DisplayLevel = "reduced"
	DisplayFull    DisplayLevel = "full"
)

// DisplayLevelFor maps a zoom level to how much label text fits on a bar.
func DisplayLevelFor(zoom int) DisplayLevel {
	switch {
	case zoom <= 30:
		return DisplayMinimal
	case zoom <= 50:
		return DisplayCompact
	case zoom <= 80:
		return DisplayReduced
	default:
		return DisplayFull
	}
}

const ellipsis = "…"

// DisplayText truncates a bar label for the zoom level. maxLen applies to
// the reduced level only; 0 means 70% of the text length.
func DisplayText(text string, zoom, maxLen int) string {
	r := []rune(text)
	switch DisplayLevelFor(zoom) {
	case DisplayMinimal:
		return ""
	case DisplayCompact:
		if len(r) > 5 {
			return string(r[:3]) + ellipsis
		}
		return text
	case DisplayReduced:
		short := maxLen
		if short <= 0 {
			short = len(r) * 7 / 10
		}
		if len(r) > short {
			if short < 1 {
				short = 1
			}
			return string(r[:short-1]) + ellipsis
		}
		return text
	default:
		return text
	}
}
