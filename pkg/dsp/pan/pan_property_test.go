package pan

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConstantPowerMaintainsUnitPowerProperty checks §8's pan-law gain
// boundary property: across the whole [-1, 1] pan range, ConstantPower
// keeps left^2 + right^2 == 1 (equal-power panning never changes
// perceived loudness as the signal is panned).
func TestConstantPowerMaintainsUnitPowerProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("left^2 + right^2 stays at unit power for ConstantPower", prop.ForAll(
		func(p float32) bool {
			left, right := MonoToStereo(p, ConstantPower)
			power := float64(left)*float64(left) + float64(right)*float64(right)
			return math.Abs(power-1.0) < 1e-5
		},
		gen.Float32Range(-1, 1),
	))

	properties.TestingRun(t)
}

// TestGainsStayWithinUnitRangeProperty checks the weaker boundary that
// holds for every law: neither channel's gain ever exceeds unity or
// drops below zero.
func TestGainsStayWithinUnitRangeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	laws := []Law{Linear, ConstantPower, Balanced}

	properties.Property("gains stay within [0, 1] for every pan law", prop.ForAll(
		func(p float32, lawIdx int) bool {
			law := laws[lawIdx%len(laws)]
			left, right := MonoToStereo(p, law)
			return left >= 0 && left <= 1 && right >= 0 && right <= 1
		},
		gen.Float32Range(-1, 1),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
