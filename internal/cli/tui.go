package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cascade"
	"github.com/matzehuels/brickfall/pkg/report"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listLabelStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// InspectModel - Interactive brick browser
// =============================================================================

// InspectModel is the bubbletea model for browsing the bricks of a report.
// The panel below the table lists what the selected brick rests on, what
// rests on it, and which bricks fall when it is removed.
type InspectModel struct {
	Report   *report.Report
	Analyzer *cascade.Analyzer
	Cursor   int
	Height   int
	Offset   int

	// falling caches the cascade of the brick under the cursor.
	falling    []brick.ID
	fallingFor int
}

// NewInspectModel creates an inspect model for rep. analyzer must be built
// from rep's support graph.
func NewInspectModel(rep *report.Report, analyzer *cascade.Analyzer) InspectModel {
	m := InspectModel{
		Report:     rep,
		Analyzer:   analyzer,
		Height:     15,
		fallingFor: -1,
	}
	m.refresh()
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Report.Bricks)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(n - 1)
		case "n":
			m.moveTo(m.nextCritical())
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor on i, clamped to the brick range, and scrolls the
// window to keep it visible.
func (m *InspectModel) moveTo(i int) {
	n := len(m.Report.Bricks)
	if n == 0 {
		return
	}
	m.Cursor = max(0, min(i, n-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.refresh()
}

// nextCritical returns the next brick after the cursor whose removal fells
// something, wrapping around. It returns the cursor when there is none.
func (m InspectModel) nextCritical() int {
	n := len(m.Report.Bricks)
	for step := 1; step <= n; step++ {
		i := (m.Cursor + step) % n
		if m.Report.Bricks[i].Falls > 0 {
			return i
		}
	}
	return m.Cursor
}

func (m *InspectModel) refresh() {
	if len(m.Report.Bricks) == 0 || m.fallingFor == m.Cursor {
		return
	}
	falling, err := m.Analyzer.Fall(brick.ID(m.Cursor))
	if err != nil {
		falling = nil
	}
	m.falling = falling
	m.fallingFor = m.Cursor
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect Bricks"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("safe %d · cascade total %d", m.Report.SafeCount, m.Report.CascadeTotal)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  n next critical  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Report.Bricks) == 0 {
		b.WriteString(listDimStyle.Render("  no bricks"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Report.Bricks))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Report.Bricks[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor + "#" + strconv.Itoa(int(e.ID)),
			e.Lo.String() + "~" + e.Hi.String(),
			strconv.Itoa(e.Drop),
			strconv.Itoa(len(e.Below)),
			strconv.Itoa(len(e.Above)),
			strconv.Itoa(e.Falls),
		})
	}

	t := newTable(func(row, col int) lipgloss.Style {
		idx := m.Offset + row
		if idx >= len(m.Report.Bricks) {
			return lipgloss.NewStyle()
		}
		base := lipgloss.NewStyle()
		if m.Report.Bricks[idx].Safe() {
			base = base.Foreground(colorGreen)
		} else if col == 5 {
			base = base.Foreground(colorYellow)
		}
		if idx == m.Cursor {
			return base.Bold(true)
		}
		return base
	}, "Brick", "Settled at", "Drop", "Below", "Above", "Falls").Rows(rows...)

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Report.Bricks))))

	return b.String()
}

// detail renders the support panel of the brick under the cursor.
func (m InspectModel) detail() string {
	e := m.Report.Bricks[m.Cursor]
	var b strings.Builder

	below := "floor"
	if len(e.Below) > 0 {
		below = formatIDs(e.Below)
	}
	fmt.Fprintf(&b, "%s %s\n", listLabelStyle.Render("rests on "), below)
	fmt.Fprintf(&b, "%s %s\n", listLabelStyle.Render("carries  "), orNone(formatIDs(e.Above)))

	var fells []brick.ID
	for _, id := range m.falling {
		if id != e.ID {
			fells = append(fells, id)
		}
	}
	if len(fells) == 0 {
		fmt.Fprintf(&b, "%s %s\n", listLabelStyle.Render("removing "), StyleSuccess.Render("safe, nothing falls"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", listLabelStyle.Render("removing "), StyleWarning.Render("fells "+formatIDs(fells)))
	}
	return b.String()
}

// formatIDs formats ids as "#1 #2 #3".
func formatIDs(ids []brick.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(int(id))
	}
	return strings.Join(parts, " ")
}

func orNone(s string) string {
	if s == "" {
		return "nothing"
	}
	return s
}
