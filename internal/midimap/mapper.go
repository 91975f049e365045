// Package midimap converts simulation coordinates into wire values:
// 7-bit control changes and signed 14-bit pitch bend. The conversions
// are total functions; no physics state, however broken, can produce
// an out-of-range wire value.
package midimap

import "math"

const (
	// ControlMax is the top of the 7-bit control range.
	ControlMax = 127

	// BendMin and BendMax bound the signed 14-bit bend range. The
	// positive side is one step shorter than the negative side.
	BendMin = -8192
	BendMax = 8191
)

// ToControlValue maps x from [min, max] onto 0-127, rounding half away
// from zero. Points outside the domain clamp to the nearest end. A
// degenerate domain (max <= min) and non-finite inputs map to 0.
func ToControlValue(x, min, max float64) int {
	if max <= min {
		return 0
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	v := int(math.Round((x - min) / (max - min) * ControlMax))
	if v < 0 {
		return 0
	}
	if v > ControlMax {
		return ControlMax
	}
	return v
}

// ToPitchBend maps a normalized displacement in [-1, 1] onto the bend
// range. Inputs past the ends clamp, so +1.0 lands on 8191 rather than
// the unrepresentable 8192. Non-finite inputs map to 0 (center).
func ToPitchBend(norm float64) int {
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		return 0
	}
	v := int(math.Round(norm * 8192))
	if v < BendMin {
		return BendMin
	}
	if v > BendMax {
		return BendMax
	}
	return v
}
