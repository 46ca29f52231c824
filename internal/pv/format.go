package pv

import (
	"fmt"
	"time"
)

const unitBase = 1024

var units = []string{"b", "Kb", "Mb", "Gb", "Tb"}

// scale returns value expressed in the largest unit whose threshold value is strictly above.
func scale(value float64) (float64, string) {
	exp := 0
	threshold := float64(unitBase)

	for exp < len(units)-1 && value > threshold {
		exp++
		threshold *= unitBase
	}

	if exp == 0 {
		return value, units[0]
	}

	return value / (threshold / unitBase), units[exp]
}

func formatScaled(value float64, suffix string) string {
	scaled, unit := scale(value)
	if unit == units[0] {
		return fmt.Sprintf("%.0f %s%s", scaled, unit, suffix)
	}

	return fmt.Sprintf("%.2f %s%s", scaled, unit, suffix)
}

// FormatBytes returns size in binary units, e.g. "2.44 Kb".
func FormatBytes(size int64) string {
	return formatScaled(float64(size), "")
}

// FormatRate returns bytesPerSecond in binary units, e.g. "1.22 Kb/s".
func FormatRate(bytesPerSecond float64) string {
	return formatScaled(bytesPerSecond, "/s")
}

// FormatElapsed returns the whole seconds of elapsed as H:MM:SS.
func FormatElapsed(elapsed time.Duration) string {
	secs := int64(elapsed / time.Second)
	if secs < 0 {
		secs = 0
	}

	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// FormatStatus returns the status line: total, elapsed time and current rate.
func FormatStatus(total int64, elapsed time.Duration, rate float64) string {
	return fmt.Sprintf("%s %s [%s]", FormatBytes(total), FormatElapsed(elapsed), FormatRate(rate))
}
