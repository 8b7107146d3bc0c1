package compose

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted completion date format: month/day/two-digit
// year, with or without zero padding.
const DateLayout = "1/2/06"

// FormatDate renders a completion date as "02nd Jul 2025". Input which does
// not parse is returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return s
	}
	day := t.Day()
	return fmt.Sprintf("%02d%s %s", day, ordinalSuffix(day), t.Format("Jan 2006"))
}

func ordinalSuffix(day int) string {
	if (day >= 4 && day <= 20) || (day >= 24 && day <= 30) {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
