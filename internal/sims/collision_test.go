package sims

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/drmarkreuter/physiCCs/internal/engine"
)

var _ = Describe("resolvePair", func() {
	newBody := func(x, y, vx, vy float64) Body {
		return Body{
			Pos:    engine.Vec2{X: x, Y: y},
			Vel:    engine.Vec2{X: vx, Y: vy},
			Radius: bodyRadius,
		}
	}

	It("swaps normal speeds when a moving body hits a resting one head-on", func() {
		b1 := newBody(100, 200, 2, 0)
		b2 := newBody(128, 200, 0, 0)

		resolvePair(&b1, &b2)

		Expect(b1.Vel.X).To(BeNumerically("~", 0, 1e-9))
		Expect(b1.Vel.Y).To(BeZero())
		Expect(b2.Vel.X).To(BeNumerically("~", 2, 1e-9))
		Expect(b2.Vel.Y).To(BeZero())
	})

	It("exactly reverses an equal and opposite head-on pair", func() {
		b1 := newBody(100, 200, 3, 0)
		b2 := newBody(128, 200, -3, 0)

		resolvePair(&b1, &b2)

		Expect(b1.Vel.X).To(BeNumerically("~", -3, 1e-9))
		Expect(b2.Vel.X).To(BeNumerically("~", 3, 1e-9))
	})

	It("conserves total momentum through an oblique hit", func() {
		b1 := newBody(100, 100, 1.5, -0.5)
		b2 := newBody(120, 115, -1, 0.25)

		before := b1.Vel.Add(b2.Vel)
		resolvePair(&b1, &b2)
		after := b1.Vel.Add(b2.Vel)

		Expect(after.X).To(BeNumerically("~", before.X, 1e-9))
		Expect(after.Y).To(BeNumerically("~", before.Y, 1e-9))
	})

	It("pushes an overlapping pair out to exact contact", func() {
		b1 := newBody(100, 100, 1.5, -0.5)
		b2 := newBody(120, 115, -1, 0.25)

		resolvePair(&b1, &b2)

		Expect(b1.Pos.Distance(b2.Pos)).To(BeNumerically(">=", b1.Radius+b2.Radius-1e-9))
	})

	It("separates an overlapping pair that is already moving apart without touching velocities", func() {
		b1 := newBody(100, 200, -1, 0)
		b2 := newBody(128, 200, 1, 0)

		resolvePair(&b1, &b2)

		Expect(b1.Vel).To(Equal(engine.Vec2{X: -1, Y: 0}))
		Expect(b2.Vel).To(Equal(engine.Vec2{X: 1, Y: 0}))
		Expect(b1.Pos.Distance(b2.Pos)).To(BeNumerically("~", b1.Radius+b2.Radius, 1e-9))
	})

	It("leaves non-overlapping bodies alone", func() {
		b1 := newBody(100, 200, 2, 0)
		b2 := newBody(200, 200, -2, 0)

		resolvePair(&b1, &b2)

		Expect(b1.Pos).To(Equal(engine.Vec2{X: 100, Y: 200}))
		Expect(b2.Pos).To(Equal(engine.Vec2{X: 200, Y: 200}))
		Expect(b1.Vel.X).To(Equal(2.0))
		Expect(b2.Vel.X).To(Equal(-2.0))
	})

	It("skips a pair with identical centers", func() {
		b1 := newBody(100, 100, 2, 1)
		b2 := newBody(100, 100, -1, 3)

		resolvePair(&b1, &b2)

		Expect(b1.Pos).To(Equal(b2.Pos))
		Expect(b1.Vel).To(Equal(engine.Vec2{X: 2, Y: 1}))
		Expect(b2.Vel).To(Equal(engine.Vec2{X: -1, Y: 3}))
	})

	It("treats a held body as immovable", func() {
		b1 := newBody(100, 200, 2, 0)
		b2 := newBody(128, 200, 0, 0)
		b2.Held = true

		resolvePair(&b1, &b2)

		Expect(b2.Pos).To(Equal(engine.Vec2{X: 128, Y: 200}))
		Expect(b2.Vel).To(Equal(engine.Vec2{}))
		Expect(b1.Vel.X).To(BeNumerically("~", 0, 1e-9))
		Expect(b1.Pos.X).To(BeNumerically("<", 100))
	})

	It("skips a pair where both bodies are held", func() {
		b1 := newBody(100, 200, 0, 0)
		b2 := newBody(120, 200, 0, 0)
		b1.Held = true
		b2.Held = true

		resolvePair(&b1, &b2)

		Expect(b1.Pos).To(Equal(engine.Vec2{X: 100, Y: 200}))
		Expect(b2.Pos).To(Equal(engine.Vec2{X: 120, Y: 200}))
	})
})
