package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/sim"
)

// Replay styles
var (
	replayGroupStyles = [2]lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
	}
	replayIdleStyle = lipgloss.NewStyle().Foreground(colorWhite)
	replayDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ReplayModel - Interactive round-by-round replay
// =============================================================================

type replayTickMsg time.Time

// ReplayModel is the bubbletea model of the watch command. It steps through
// the trace of a finished run.
type ReplayModel struct {
	Result   *sim.Result
	Frame    int
	Playing  bool
	Interval time.Duration

	// cellWidth is the widest formatted value in the trace.
	cellWidth int
}

// NewReplayModel creates a replay of res, which must carry a trace.
func NewReplayModel(res *sim.Result, interval time.Duration, autoplay bool) ReplayModel {
	width := 1
	for _, snap := range res.Trace {
		for _, v := range snap.Values {
			width = max(width, len(fmt.Sprint(v)))
		}
	}
	return ReplayModel{
		Result:    res,
		Playing:   autoplay && len(res.Trace) > 1,
		Interval:  interval,
		cellWidth: width,
	}
}

func (m ReplayModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return replayTickMsg(t) })
}

func (m ReplayModel) last() int { return len(m.Result.Trace) - 1 }

func (m ReplayModel) Init() tea.Cmd {
	if m.Playing {
		return m.tick()
	}
	return nil
}

func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n":
			m.Playing = false
			if m.Frame < m.last() {
				m.Frame++
			}
		case "left", "h", "p":
			m.Playing = false
			if m.Frame > 0 {
				m.Frame--
			}
		case "home", "g":
			m.Playing = false
			m.Frame = 0
		case "end", "G":
			m.Playing = false
			m.Frame = m.last()
		case " ":
			if m.Playing {
				m.Playing = false
				return m, nil
			}
			if m.Frame == m.last() {
				m.Frame = 0
			}
			m.Playing = m.last() > 0
			if m.Playing {
				return m, m.tick()
			}
		}
	case replayTickMsg:
		if !m.Playing {
			return m, nil
		}
		if m.Frame < m.last() {
			m.Frame++
		}
		if m.Frame == m.last() {
			m.Playing = false
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m ReplayModel) View() string {
	var b strings.Builder
	snap := m.Result.Trace[m.Frame]

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %d values", m.Result.Strategy, m.Result.Stats.Size)))
	b.WriteString("\n")
	b.WriteString(replayDimStyle.Render("←/→ step  space play/pause  g/G first/last  q quit"))
	b.WriteString("\n\n")

	label := fmt.Sprintf("Round %d/%d", snap.Round, m.Result.Rounds)
	if snap.Round == 0 {
		label = fmt.Sprintf("Initial (%d rounds)", m.Result.Rounds)
	}
	b.WriteString(StyleHighlight.Render(label))
	b.WriteString("\n")
	b.WriteString(m.renderValues(snap))
	b.WriteString("\n\n")

	if snap.Sorted {
		b.WriteString(StyleSuccess.Render(iconSuccess + " sorted"))
	} else {
		b.WriteString(replayDimStyle.Render("not sorted"))
	}
	if m.Playing {
		b.WriteString(replayDimStyle.Render("  ▶ playing"))
	}
	b.WriteString("\n")
	return b.String()
}

// renderValues prints the values of snap, coloring each group of the round.
func (m ReplayModel) renderValues(snap engine.Snapshot) string {
	group := make(map[int]int)
	for gi, g := range snap.Groups {
		for _, i := range g {
			group[i] = gi
		}
	}

	cells := make([]string, len(snap.Values))
	for i, v := range snap.Values {
		text := fmt.Sprintf("%*d", m.cellWidth, v)
		if gi, ok := group[i]; ok {
			cells[i] = replayGroupStyles[gi%2].Render(text)
		} else {
			cells[i] = replayIdleStyle.Render(text)
		}
	}
	return strings.Join(cells, " ")
}
