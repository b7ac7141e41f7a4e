package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/internal/dates"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// Style definitions.
var (
	calTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	calGridStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	calWeekdayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	calCursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	calTodayStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	calBusyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	calDoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	calDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	calDetailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type calendarModel struct {
	store core.TaskStore

	year       int
	monthIndex int // 0-based
	cursorDay  int

	snap    core.Snapshot
	loading bool
	err     error
}

// monthLoadedMsg carries a finished load back to the model.
type monthLoadedMsg struct {
	snap core.Snapshot
	err  error
}

func newCalendarModel(store core.TaskStore, now time.Time) calendarModel {
	return calendarModel{
		store:      store,
		year:       now.Year(),
		monthIndex: int(now.Month()) - 1,
		cursorDay:  now.Day(),
		loading:    true,
	}
}

// loadMonth fetches the model's month. The store drops superseded
// responses itself, so paging quickly through months can never show a
// stale month's tasks.
func (m calendarModel) loadMonth() tea.Cmd {
	year, monthIndex := m.year, m.monthIndex
	store := m.store
	return func() tea.Msg {
		first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		snap, err := store.Load(context.Background(), models.TaskQuery{
			FromDate:         dates.KeyFromTime(first),
			ToDate:           dates.KeyFromTime(last),
			IncludeCompleted: true,
		})
		if errors.Is(err, core.ErrSuperseded) {
			return nil
		}
		return monthLoadedMsg{snap: snap, err: err}
	}
}

func (m calendarModel) Init() tea.Cmd {
	return m.loadMonth()
}

func (m calendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.cursorDay = maxInt(1, m.cursorDay-1)
			return m, nil
		case "right", "l":
			m.cursorDay = minInt(m.daysInMonth(), m.cursorDay+1)
			return m, nil
		case "up", "k":
			m.cursorDay = maxInt(1, m.cursorDay-7)
			return m, nil
		case "down", "j":
			m.cursorDay = minInt(m.daysInMonth(), m.cursorDay+7)
			return m, nil
		case "pgup", "p":
			m.shiftMonth(-1)
			m.loading = true
			return m, m.loadMonth()
		case "pgdown", "n":
			m.shiftMonth(1)
			m.loading = true
			return m, m.loadMonth()
		case "r":
			m.loading = true
			return m, m.loadMonth()
		}

	case monthLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
		}
		return m, nil
	}

	return m, nil
}

func (m calendarModel) View() string {
	title := calTitleStyle.Render(fmt.Sprintf("%s %d",
		time.Month(m.monthIndex+1).String(), m.year))

	grid := m.renderGrid()
	detail := m.renderDay(dates.Key(m.year, m.monthIndex, m.cursorDay))
	help := calDimStyle.Render("arrows: move  n/p: month  r: reload  q: quit")

	status := ""
	if m.loading {
		status = calDimStyle.Render("loading...")
	} else if m.err != nil {
		status = calDimStyle.Render("error: " + m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, grid, detail, status, help)
}

// renderGrid draws the month as a week-per-row grid. Days with open
// tasks show the count; days where everything is done show a check.
func (m calendarModel) renderGrid() string {
	var b strings.Builder

	b.WriteString(calWeekdayStyle.Render(" Mo   Tu   We   Th   Fr   Sa   Su"))
	b.WriteString("\n")

	first := time.Date(m.year, time.Month(m.monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	// Monday-first column of day 1.
	col := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("     ", col))

	today := dates.KeyFromTime(time.Now())
	for day := 1; day <= m.daysInMonth(); day++ {
		key := dates.Key(m.year, m.monthIndex, day)
		cell := m.renderDayCell(day, key, key == today)
		b.WriteString(cell)

		col++
		if col == 7 {
			col = 0
			b.WriteString("\n")
		}
	}

	return calGridStyle.Render(b.String())
}

func (m calendarModel) renderDayCell(day int, key string, isToday bool) string {
	bucket := m.snap.TasksOn(key)
	open := 0
	for _, t := range bucket {
		if !t.Completed {
			open++
		}
	}

	mark := " "
	switch {
	case open > 0:
		mark = fmt.Sprintf("%d", minInt(open, 9))
	case len(bucket) > 0:
		mark = "*"
	}

	text := fmt.Sprintf("%2d%s ", day, mark)
	switch {
	case day == m.cursorDay:
		return calCursorStyle.Render(text) + " "
	case isToday:
		return calTodayStyle.Render(text) + " "
	case open > 0:
		return calBusyStyle.Render(text) + " "
	case len(bucket) > 0:
		return calDoneStyle.Render(text) + " "
	default:
		return text + " "
	}
}

// renderDay draws the detail pane for the cursor day.
func (m calendarModel) renderDay(key string) string {
	bucket := m.snap.TasksOn(key)
	if len(bucket) == 0 {
		return calDetailStyle.Render(key + ": nothing planned")
	}

	var b strings.Builder
	b.WriteString(key + ":")
	for _, t := range bucket {
		marker := "[ ]"
		if t.Completed {
			marker = "[x]"
		}
		b.WriteString(fmt.Sprintf("\n %s %s", marker, t.DisplayName()))
	}
	return calDetailStyle.Render(b.String())
}

func (m *calendarModel) shiftMonth(delta int) {
	m.monthIndex += delta
	for m.monthIndex < 0 {
		m.monthIndex += 12
		m.year--
	}
	for m.monthIndex > 11 {
		m.monthIndex -= 12
		m.year++
	}
	m.cursorDay = minInt(m.cursorDay, m.daysInMonth())
}

func (m calendarModel) daysInMonth() int {
	first := time.Date(m.year, time.Month(m.monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Browse tasks on an interactive month calendar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		model := newCalendarModel(Store, time.Now())
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("running calendar: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}
