package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/drmarkreuter/physiCCs/internal/config"
	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midiout"
	"github.com/drmarkreuter/physiCCs/internal/sims"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	redSt   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var moduleInfo = map[string]string{
	"gravity":  "spring-return sliders",
	"particle": "two-body collisions",
	"pendulum": "damped swing",
}

// Layout space is the fixed coordinate system the simulations share;
// the canvas scales it to whatever terminal size is available. The
// margins place the canvas below the two header lines so mouse cells
// translate back into layout points.
const (
	layoutW = 800.0
	layoutH = 600.0

	canvasTop  = 4
	canvasLeft = 3

	noDevice = "no device"

	historyLen = 120
	trailLen   = 50
)

type state int

const (
	stateMenu state = iota
	statePorts
	stateSetup
	stateSim
)

type model struct {
	state state
	cfg   *config.Config

	cursor   int
	modules  []string
	selected string

	ports      []string
	portErr    error
	portCursor int
	portName   string

	inputs      []textinput.Model
	inputLabels []string
	inputCursor int
	setupErr    string

	registry *sims.Registry
	runCfg   *config.Config
	sim      engine.Simulation
	loop     *engine.Loop
	port     *midiout.Port
	rec      *midiout.Recorder

	paused  bool
	active  string
	history []float64
	trail   []engine.Vec2

	width  int
	height int
}

func newModel(cfg *config.Config) *model {
	reg := sims.NewRegistry()
	return &model{
		state:    stateMenu,
		cfg:      cfg,
		modules:  reg.List(),
		registry: reg,
		portName: noDevice,
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(engine.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim || m.loop == nil {
			return m, nil
		}
		if !m.paused {
			m.loop.Tick(1.0)
			m.record()
		}
		return m, tick()
	}
	return m, nil
}

// record keeps the rolling output history for the graph strip and the
// pendulum bob trail.
func (m *model) record() {
	snap := m.loop.Snapshot()
	if len(snap.Outputs) > 0 {
		m.history = append(m.history, float64(snap.Outputs[0].Value))
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
	}
	if p, ok := m.sim.(*sims.Pendulum); ok {
		m.trail = append(m.trail, p.Bob())
		if len(m.trail) > trailLen {
			m.trail = m.trail[1:]
		}
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case statePorts:
		return m.portsKey(msg)
	case stateSetup:
		return m.setupKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.modules)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.modules[m.cursor]
		m.scanPorts()
		m.state = statePorts
	}
	return m, nil
}

func (m *model) scanPorts() {
	m.ports, m.portErr = midiout.Ports()
	m.portCursor = 0
	if len(m.ports) > 0 {
		m.portCursor = 1
	}
}

// portEntries is the pick list: streaming without hardware is always
// offered first.
func (m model) portEntries() []string {
	return append([]string{noDevice}, m.ports...)
}

func (m model) portsKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "escape":
		m.state = stateMenu
	case "up", "k":
		if m.portCursor > 0 {
			m.portCursor--
		}
	case "down", "j":
		if m.portCursor < len(m.portEntries())-1 {
			m.portCursor++
		}
	case "r":
		m.scanPorts()
	case "enter", " ":
		m.portName = m.portEntries()[m.portCursor]
		m.buildInputs()
		m.state = stateSetup
	}
	return m, nil
}

func (m *model) buildInputs() {
	switch m.selected {
	case "gravity":
		m.inputLabels = []string{"cc 1", "cc 2", "cc 3", "channel"}
		m.inputs = ccInputs(append(append([]int(nil), m.cfg.Gravity.Controllers...), m.cfg.Channel))
	case "particle":
		m.inputLabels = []string{"red x", "red y", "green x", "green y", "channel"}
		pc := m.cfg.Particle
		m.inputs = ccInputs([]int{pc.Red.X, pc.Red.Y, pc.Green.X, pc.Green.Y, m.cfg.Channel})
	case "pendulum":
		m.inputLabels = []string{"cc", "channel"}
		m.inputs = ccInputs([]int{m.cfg.Pendulum.CC, m.cfg.Channel})
	}
	m.inputCursor = 0
	m.setupErr = ""
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[0].Focus()
}

func ccInputs(defaults []int) []textinput.Model {
	inputs := make([]textinput.Model, len(defaults))
	for i, v := range defaults {
		ti := textinput.New()
		ti.CharLimit = 3
		ti.Width = 4
		ti.Prompt = ""
		ti.SetValue(strconv.Itoa(v))
		inputs[i] = ti
	}
	return inputs
}

func (m model) setupKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "escape":
		m.state = statePorts
		return m, nil
	case "up", "shift+tab":
		m.focusInput(m.inputCursor - 1)
		return m, nil
	case "down", "tab":
		m.focusInput(m.inputCursor + 1)
		return m, nil
	case "enter":
		if m.inputCursor < len(m.inputs)-1 {
			m.focusInput(m.inputCursor + 1)
			return m, nil
		}
		return m.startSim()
	}

	var cmd tea.Cmd
	m.inputs[m.inputCursor], cmd = m.inputs[m.inputCursor].Update(msg)
	return m, cmd
}

func (m *model) focusInput(i int) {
	if i < 0 || i >= len(m.inputs) {
		return
	}
	m.inputs[m.inputCursor].Blur()
	m.inputCursor = i
	m.inputs[i].Focus()
}

func (m model) startSim() (model, tea.Cmd) {
	values := make([]int, len(m.inputs))
	for i, ti := range m.inputs {
		v, err := strconv.Atoi(strings.TrimSpace(ti.Value()))
		if err != nil {
			m.setupErr = fmt.Sprintf("%s: not a number", m.inputLabels[i])
			return m, nil
		}
		values[i] = v
	}

	cfg := *m.cfg
	cfg.Module = m.selected
	cfg.Channel = values[len(values)-1]
	switch m.selected {
	case "gravity":
		cfg.Gravity.Controllers = []int{values[0], values[1], values[2]}
	case "particle":
		cfg.Particle.Red.X, cfg.Particle.Red.Y = values[0], values[1]
		cfg.Particle.Green.X, cfg.Particle.Green.Y = values[2], values[3]
	case "pendulum":
		cfg.Pendulum.CC = values[0]
	}

	sim, err := m.registry.Get(m.selected, &cfg)
	if err != nil {
		m.setupErr = err.Error()
		return m, nil
	}

	var out engine.Sink
	if m.portName != noDevice {
		port, err := midiout.Open(m.portName, cfg.Channel)
		if err != nil {
			m.setupErr = err.Error()
			return m, nil
		}
		m.port = port
		out = port
	}
	m.rec = midiout.NewRecorder(64, out)

	loop, err := engine.NewLoop(sim, m.rec)
	if err != nil {
		m.teardown()
		m.setupErr = err.Error()
		return m, nil
	}

	m.runCfg = &cfg
	m.sim = sim
	m.loop = loop
	m.paused = false
	m.active = ""
	m.history = nil
	m.trail = nil
	m.state = stateSim
	return m, tea.Batch(tea.ClearScreen, tick())
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.teardown()
		return m, tea.Quit
	case "q", "escape":
		m.teardown()
		m.state = stateMenu
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "m":
		if p, ok := m.sim.(*sims.Pendulum); ok {
			p.ToggleMode()
		}
	case "r":
		return m.restart()
	}
	return m, nil
}

// restart rebuilds the simulation with the running configuration but
// keeps the open port and recorder.
func (m model) restart() (model, tea.Cmd) {
	sim, err := m.registry.Get(m.selected, m.runCfg)
	if err != nil {
		return m, nil
	}
	loop, err := engine.NewLoop(sim, m.rec)
	if err != nil {
		return m, nil
	}
	m.sim = sim
	m.loop = loop
	m.active = ""
	m.history = nil
	m.trail = nil
	m.paused = false
	return m, tea.ClearScreen
}

func (m *model) teardown() {
	if m.port != nil {
		m.port.Close()
		m.port = nil
	}
	m.loop = nil
	m.sim = nil
	m.rec = nil
	m.active = ""
	m.paused = false
}

func (m model) handleMouse(msg tea.MouseMsg) (model, tea.Cmd) {
	if m.state != stateSim || m.loop == nil {
		return m, nil
	}
	pt := m.layoutPoint(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		id, ok := m.loop.HitTest(pt)
		if !ok {
			return m, nil
		}
		m.active = id
		m.loop.Push(engine.Event{Kind: engine.EventPress, Target: id, At: pt})
	case tea.MouseActionMotion:
		if m.active == "" {
			return m, nil
		}
		m.loop.Push(engine.Event{Kind: engine.EventDrag, Target: m.active, At: pt})
	case tea.MouseActionRelease:
		if m.active == "" {
			return m, nil
		}
		m.loop.Push(engine.Event{Kind: engine.EventRelease, Target: m.active, At: pt})
		m.active = ""
	}
	return m, nil
}

// layoutPoint translates a terminal cell to the center of the layout
// region it covers.
func (m model) layoutPoint(cellX, cellY int) engine.Vec2 {
	cw, ch := m.canvasSize()
	return engine.Vec2{
		X: (float64(cellX-canvasLeft) + 0.5) * layoutW / float64(cw),
		Y: (float64(cellY-canvasTop) + 0.5) * layoutH / float64(ch),
	}
}

func (m model) canvasSize() (int, int) {
	cw := m.width - 6
	ch := m.height - 14
	if cw < 60 {
		cw = 60
	}
	if ch < 15 {
		ch = 15
	}
	return cw, ch
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePorts:
		return m.viewPorts()
	case stateSetup:
		return m.viewSetup()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("p h y s i c c s") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.modules {
		desc := moduleInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m model) viewPorts() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render("midi output") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	if m.portErr != nil {
		b.WriteString("      " + redSt.Render(m.portErr.Error()) + "\n\n")
	}

	for i, name := range m.portEntries() {
		if i == m.portCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(name) + "\n")
		} else {
			b.WriteString("        " + dim.Render(name) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  enter next  r rescan  esc back") + "\n")

	return b.String()
}

func (m model) viewSetup() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(m.portName) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, label := range m.inputLabels {
		field := m.inputs[i].View()
		if i == m.inputCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", label)) + magenta.Render(field) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", label)) + dim.Render(field) + "\n")
		}
	}

	if m.setupErr != "" {
		b.WriteString("\n      " + redSt.Render(m.setupErr) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ field  enter next/start  esc back") + "\n")

	return b.String()
}

// Run starts the full interactive application at the module menu.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// RunModule starts the application at the port picker with the module
// already chosen.
func RunModule(cfg *config.Config, module string) error {
	m := newModel(cfg)
	m.selected = module
	m.scanPorts()
	m.state = statePorts
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
