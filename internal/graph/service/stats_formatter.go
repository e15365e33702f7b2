package service

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Avi18971911/tracegraph/internal/graph/model"
)

// FormatStats renders the total and self time of a span as "<ms>ms (<percent>%)" strings.
// Division by zero is not guarded and shows up as Infinity or NaN.
func FormatStats(duration float64, traceDuration float64, selfDuration float64) model.Stats {
	return model.Stats{
		Main: fmt.Sprintf(
			"%sms (%s%%)",
			round2(duration),
			round2(duration/traceDuration*100),
		),
		Secondary: fmt.Sprintf(
			"%sms (%s%%)",
			round2(selfDuration),
			round2(selfDuration/duration*100),
		),
	}
}

// round2 rounds to two decimal places and drops trailing zeros: 14.20 -> "14.2", 0.00 -> "0".
// Values too large to scale by 100 are rendered unrounded.
func round2(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	scaled := n * 100
	if math.IsInf(scaled, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	// halves round away from zero: 0.125 -> 0.13
	rounded := math.Round(scaled) / 100
	if rounded == 0 {
		// -0.001 rounds to -0
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
