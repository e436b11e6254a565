package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/relsim/internal/observe"
	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/universe"
	"github.com/san-kum/relsim/internal/worldline"
)

const (
	canvasWidth     = 70
	canvasHeight    = 22
	historyCapacity = 400
)

type TickMsg time.Time

// Model is the live view: it owns the universe, steps it on a fixed wall
// tick, and renders every other entity at its light-delayed apparent
// position in the user's rest frame.
type Model struct {
	uni *universe.Universe

	dt       float64
	accelMag float64
	// thrustDir accumulates the requested acceleration axes; keys toggle
	// rather than hold since terminals deliver no key-release events.
	thrustDir mgl64.Vec3

	paused bool
	scale  float64

	canvas       *Canvas
	gammaHistory []float64
}

// NewModel builds a live view over an existing universe. accelMag is the
// magnitude of proper acceleration a thrust key requests.
func NewModel(uni *universe.Universe, tickRate, accelMag float64) Model {
	return Model{
		uni:      uni,
		dt:       1 / tickRate,
		accelMag: accelMag,
		scale:    0.5,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
	}
}

// Run drives the live view until the user quits.
func Run(uni *universe.Universe, tickRate, accelMag float64) error {
	_, err := tea.NewProgram(NewModel(uni, tickRate, accelMag)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
		case "+", "=":
			m.scale /= 2
		case "-":
			m.scale *= 2
		case "w":
			m.thrustDir[2]--
			m.applyThrust()
		case "s":
			m.thrustDir[2]++
			m.applyThrust()
		case "a":
			m.thrustDir[0]--
			m.applyThrust()
		case "d":
			m.thrustDir[0]++
			m.applyThrust()
		case "r":
			m.thrustDir[1]++
			m.applyThrust()
		case "f":
			m.thrustDir[1]--
			m.applyThrust()
		case " ":
			m.thrustDir = mgl64.Vec3{}
			m.applyThrust()
		}
	case TickMsg:
		if !m.paused {
			m.uni.Step(m.dt)

			gamma := relativity.LorentzFactor(m.uni.UserEventNow().Frame.Velocity)
			m.gammaHistory = append(m.gammaHistory, gamma)
			if len(m.gammaHistory) > historyCapacity {
				m.gammaHistory = m.gammaHistory[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// applyThrust inserts a new worldline command only when the requested
// acceleration differs from the one already in effect, so holding a course
// does not flood the event list.
func (m *Model) applyThrust() {
	want := worldline.Coast()
	if m.thrustDir != (mgl64.Vec3{}) {
		want = worldline.Thrust(m.thrustDir.Normalize().Mul(m.accelMag))
	}

	if m.uni.UserEventNow().Command() == want {
		return
	}
	m.uni.User().Worldline.InsertEvent(m.uni.Time, want)
}

func (m Model) View() string {
	userEvent := m.uni.UserEventNow()
	userFrame := userEvent.Frame

	m.canvas.Clear()
	centerX := canvasWidth
	centerY := canvasHeight * 2
	m.canvas.DrawMarker(centerX, centerY)

	m.uni.Each(func(id universe.ID, e *universe.Entity) {
		if id == m.uni.UserID {
			return
		}
		app := observe.View(e.Worldline, m.uni.Time, userFrame, e.ModelMatrix)
		x := centerX + int(app.Relative.Position.X()/m.scale)
		y := centerY + int(app.Relative.Position.Z()/m.scale)
		m.canvas.DrawMarker(x, y)
	})

	gamma := relativity.LorentzFactor(userFrame.Velocity)

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("relsim") + "\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("coord time", fmt.Sprintf("%.2f", m.uni.Time))
	row("proper time", fmt.Sprintf("%.2f", userEvent.ProperTime))
	row("speed", fmt.Sprintf("%.6fc", userFrame.Velocity.Len()))
	row("gamma", fmt.Sprintf("%.4f", gamma))
	row("zoom", fmt.Sprintf("%.3g/dot", m.scale))
	if m.thrustDir != (mgl64.Vec3{}) {
		accel := m.thrustDir.Normalize().Mul(m.accelMag)
		stats.WriteString(labelStyle.Render("thrust") +
			thrustStyle.Render(fmt.Sprintf("(%.2f %.2f %.2f)", accel.X(), accel.Y(), accel.Z())) + "\n")
	} else {
		row("thrust", "coasting")
	}
	if m.paused {
		stats.WriteString("\n" + pausedStyle.Render("PAUSED"))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)

	graph := ""
	if len(m.gammaHistory) > 1 {
		graph = graphStyle.Render(asciigraph.Plot(m.gammaHistory,
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("lorentz factor"),
		))
	}

	help := helpStyle.Render("w/a/s/d r/f thrust · space coast · p pause · +/- zoom · q quit")

	return main + "\n" + graph + "\n" + help
}
