package sims

import "github.com/drmarkreuter/physiCCs/internal/engine"

// vslider maps a vertical track to a normalized [0,1] fraction with
// the top of the track at 1. All three modules use the same shape for
// their scalar controls.
type vslider struct {
	track engine.Rect
}

// handleAt returns the handle point for a fraction, centered on the
// track's width.
func (s vslider) handleAt(frac float64) engine.Vec2 {
	return engine.Vec2{
		X: s.track.X + s.track.W/2,
		Y: s.track.Y + s.track.H - frac*s.track.H,
	}
}

// fracAt converts a (grab-corrected) pointer position to the clamped
// fraction. Only the vertical component matters.
func (s vslider) fracAt(p engine.Vec2) float64 {
	frac := 1 - (p.Y-s.track.Y)/s.track.H
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}
