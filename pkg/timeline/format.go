package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
)

// checkInstant is rendered and parsed back to check a pattern. Every field
// differs so no directive can hide behind another.
var checkInstant = time.Date(2001, time.February, 3, 16, 5, 6, 0, time.UTC)

// CheckFormat reports whether a strftime pattern can both render and parse a
// timestamp. Literal text is kept as written.
func CheckFormat(format string) error {
	if strings.TrimSpace(format) == "" {
		return fmt.Errorf("timeline: datetime format is empty")
	}
	if strings.HasSuffix(strings.ReplaceAll(format, "%%", ""), "%") {
		return fmt.Errorf("timeline: datetime format %q ends with a bare %%", format)
	}
	if _, err := timefmt.Parse(timefmt.Format(checkInstant, format), format); err != nil {
		return fmt.Errorf("timeline: datetime format %q cannot be parsed back: %w", format, err)
	}
	return nil
}

// FormatTime renders t with the strftime pattern.
func FormatTime(t time.Time, format string) (string, error) {
	if err := CheckFormat(format); err != nil {
		return "", err
	}
	return timefmt.Format(t, format), nil
}

// ParseTime parses text with the strftime pattern.
func ParseTime(text, format string) (time.Time, error) {
	return timefmt.Parse(text, format)
}
