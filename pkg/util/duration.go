package util

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds the way video players do, m:ss below an
// hour and h:mm:ss above it. Negative values are treated as zero.
func FormatDuration(seconds float64) string {
	total := int64(math.Round(math.Max(seconds, 0)))

	hours := total / 3600
	minutes := total % 3600 / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
