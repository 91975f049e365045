package tui

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midimap"
	"github.com/drmarkreuter/physiCCs/internal/sims"
)

func (m model) viewSim() string {
	cw, ch := m.canvasSize()
	c := NewCanvas(cw, ch)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("streaming")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	conn := dim.Render(noDevice)
	if m.port != nil {
		if m.loop.SinkOK() {
			conn = green.Render(m.port.Name())
		} else {
			conn = redSt.Render(m.port.Name() + " send failing")
		}
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n", statusIcon, cyan.Render(m.selected), statusText, conn))
	b.WriteString("   " + m.infoLine() + "\n\n")

	switch s := m.sim.(type) {
	case *sims.Gravity:
		drawGravity(c, s)
	case *sims.Particle:
		drawParticle(c, s)
	case *sims.Pendulum:
		drawPendulum(c, s, m.trail)
	}

	for _, row := range strings.Split(strings.TrimRight(c.String(), "\n"), "\n") {
		b.WriteString("   " + row + "\n")
	}

	b.WriteString(m.statsLines())
	b.WriteString("\n" + dim.Render("   space pause  r reset  m mode  q quit") + "\n")

	return b.String()
}

func (m model) infoLine() string {
	switch s := m.sim.(type) {
	case *sims.Gravity:
		st := s.State()
		return dim.Render(fmt.Sprintf("cc %d·%d·%d", st.Channels[0].CC, st.Channels[1].CC, st.Channels[2].CC)) +
			"  " + white.Render(st.Label) + dim.Render(fmt.Sprintf(" (%.2f)", st.Strength))
	case *sims.Particle:
		st := s.State()
		return dim.Render(fmt.Sprintf("red cc %d/%d  green cc %d/%d", st.Red.CCX, st.Red.CCY, st.Green.CCX, st.Green.CCY)) +
			"  " + white.Render(fmt.Sprintf("x%.1f", st.SpeedMultiplier))
	case *sims.Pendulum:
		st := s.State()
		enc := fmt.Sprintf("cc %d", st.CC)
		if st.Mode == midimap.ModeBend {
			enc = "pitch bend"
		}
		return dim.Render("out ") + white.Render(enc) + dim.Render(fmt.Sprintf("  arm %.0f", st.Arm))
	}
	return ""
}

func drawGravity(c *Canvas, g *sims.Gravity) {
	for i := 0; i < 3; i++ {
		track := g.SliderTrack(i)
		c.Box(track)
		h := g.SliderHandle(i)
		c.FillBox(engine.Rect{X: track.X, Y: h.Y - 6, W: track.W, H: 12})
	}

	track := g.StrengthTrack()
	c.Box(track)
	h := g.StrengthHandle()
	c.FillBox(engine.Rect{X: track.X, Y: h.Y - 5, W: track.W, H: 10})
}

// drawParticle draws the red body filled and the green body as a ring
// so they stay apart on a monochrome grid.
func drawParticle(c *Canvas, p *sims.Particle) {
	st := p.State()
	arena := p.Arena()
	c.Box(arena)

	origin := engine.Vec2{X: arena.X, Y: arena.Y}
	c.Disc(st.Red.Pos.Add(origin), st.Red.Radius)
	c.Circle(st.Green.Pos.Add(origin), st.Green.Radius)

	track := p.TempTrack()
	c.Box(track)
	h := p.TempHandle()
	c.FillBox(engine.Rect{X: track.X, Y: h.Y - 5, W: track.W, H: 10})
}

func drawPendulum(c *Canvas, p *sims.Pendulum, trail []engine.Vec2) {
	for _, pt := range trail {
		c.Dot(pt)
	}

	st := p.State()
	c.Line(st.Pivot, st.Bob)
	c.Disc(st.Bob, sims.BobRadius)
	c.Dot(st.Pivot)

	track := p.ArmTrack()
	c.Box(track)
	h := p.ArmHandle()
	c.FillBox(engine.Rect{X: track.X, Y: h.Y - 5, W: track.W, H: 10})

	c.Box(p.ModeButton())
}

func (m model) statsLines() string {
	var b strings.Builder

	b.WriteString("   " + m.valuesLine() + "\n")

	if msgs := m.rec.Messages(); len(msgs) > 0 {
		tail := msgs
		if len(tail) > 4 {
			tail = tail[len(tail)-4:]
		}
		parts := make([]string, len(tail))
		for i, msg := range tail {
			if msg.Kind == "cc" {
				parts[i] = fmt.Sprintf("cc%d=%d", msg.Controller, msg.Value)
			} else {
				parts[i] = fmt.Sprintf("bend=%d", msg.Value)
			}
		}
		b.WriteString("   " + dim.Render("wire ") + dimmer.Render(strings.Join(parts, "  ")) + "\n")
	}

	if len(m.history) > 1 {
		cw, _ := m.canvasSize()
		gw := cw - 12
		if gw > 60 {
			gw = 60
		}
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(gw),
			asciigraph.Precision(0),
		)
		for _, line := range strings.Split(graph, "\n") {
			b.WriteString("   " + dimmer.Render(line) + "\n")
		}
	}

	return b.String()
}

func (m model) valuesLine() string {
	held := func(h bool) string {
		if h {
			return magenta.Render("*")
		}
		return " "
	}

	switch s := m.sim.(type) {
	case *sims.Gravity:
		var parts []string
		st := s.State()
		for _, ch := range st.Channels {
			parts = append(parts, fmt.Sprintf("%s%s",
				white.Render(fmt.Sprintf("%6.1f", ch.Value)), held(ch.Held)))
		}
		return dim.Render("values ") + strings.Join(parts, " ")
	case *sims.Particle:
		st := s.State()
		return dim.Render("red ") + white.Render(fmt.Sprintf("(%.0f,%.0f)", st.Red.Pos.X, st.Red.Pos.Y)) + held(st.Red.Held) +
			dim.Render("  green ") + white.Render(fmt.Sprintf("(%.0f,%.0f)", st.Green.Pos.X, st.Green.Pos.Y)) + held(st.Green.Held) +
			dim.Render("  temp ") + white.Render(fmt.Sprintf("%.2f", st.Temperature))
	case *sims.Pendulum:
		st := s.State()
		return dim.Render("angle ") + white.Render(fmt.Sprintf("%+.3f", st.Angle)) +
			dim.Render("  ω ") + white.Render(fmt.Sprintf("%+.4f", st.Omega)) +
			dim.Render("  bob x ") + white.Render(fmt.Sprintf("%.0f", st.Bob.X)) + held(st.Held)
	}
	return ""
}
