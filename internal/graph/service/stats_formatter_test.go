package service

import (
	"testing"

	"github.com/Avi18971911/tracegraph/internal/graph/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatStats(t *testing.T) {
	t.Run("Formats total and self time with percentages", func(t *testing.T) {
		stats := FormatStats(10, 100, 5)
		assert.Equal(t, model.Stats{Main: "10ms (10%)", Secondary: "5ms (50%)"}, stats)
	})

	t.Run("Rounds to two decimal places", func(t *testing.T) {
		stats := FormatStats(14.984, 14.984, 14.984)
		assert.Equal(t, "14.98ms (100%)", stats.Main)
		assert.Equal(t, "14.98ms (100%)", stats.Secondary)
	})

	t.Run("Keeps the percentage of a tiny span", func(t *testing.T) {
		stats := FormatStats(0.004, 18.21, 0.004)
		assert.Equal(t, "0ms (0.02%)", stats.Main)
		assert.Equal(t, "0ms (100%)", stats.Secondary)
	})

	t.Run("Rounds half a hundredth up", func(t *testing.T) {
		stats := FormatStats(12.5, 100, 0.125)
		assert.Equal(t, "12.5ms (12.5%)", stats.Main)
		assert.Equal(t, "0.13ms (1%)", stats.Secondary)
	})

	t.Run("Shows negative self time unclamped", func(t *testing.T) {
		stats := FormatStats(10, 20, -2)
		assert.Equal(t, "10ms (50%)", stats.Main)
		assert.Equal(t, "-2ms (-20%)", stats.Secondary)
	})

	t.Run("Propagates division by zero", func(t *testing.T) {
		stats := FormatStats(5, 0, 5)
		assert.Equal(t, "5ms (Infinity%)", stats.Main)
		assert.Equal(t, "5ms (100%)", stats.Secondary)

		stats = FormatStats(0, 0, 0)
		assert.Equal(t, "0ms (NaN%)", stats.Main)
		assert.Equal(t, "0ms (NaN%)", stats.Secondary)
	})
}

func TestRound2(t *testing.T) {
	t.Run("Drops trailing zeros", func(t *testing.T) {
		assert.Equal(t, "14.2", round2(14.2))
		assert.Equal(t, "14", round2(14.0))
		assert.Equal(t, "0", round2(0.001))
	})

	t.Run("Does not render negative zero", func(t *testing.T) {
		assert.Equal(t, "0", round2(-0.001))
	})

	t.Run("Rounds to nearest", func(t *testing.T) {
		assert.Equal(t, "3.22", round2(3.2249))
		assert.Equal(t, "17.71", round2(17.7123))
		assert.Equal(t, "18.21", round2(18.2099))
	})

	t.Run("Rounds exact halves away from zero", func(t *testing.T) {
		assert.Equal(t, "0.13", round2(0.125))
		assert.Equal(t, "12.13", round2(12.125))
		assert.Equal(t, "50.63", round2(50.625))
		assert.Equal(t, "-0.13", round2(-0.125))
	})
}
