package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/portal"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/urfave/cli/v3"
)

// Browser states.
const (
	StateFieldSelect = iota
	StateSymbolInput
	StateHistoryDisplay
)

// historySource is the part of a data portal the browser reads from.
type historySource interface {
	History(symbols []string, endDate time.Time, barCount int, frequency portal.Frequency, field types.Field, dataFrequency portal.Frequency) (*portal.Frame, error)
}

// frameMsg carries a loaded history window.
type frameMsg struct {
	frame *portal.Frame
}

// historyErrorMsg carries a failed history request.
type historyErrorMsg struct {
	err error
}

// browseModel is the Bubble Tea model of the interactive history browser.
// Stepping the end session forward advances cached windows; stepping back
// makes the loader rebuild them.
type browseModel struct {
	state       int
	fieldList   list.Model
	symbolInput textinput.Model
	dataTable   table.Model

	source   historySource
	cal      calendar.TradingCalendar
	field    types.Field
	symbols  []string
	end      time.Time
	barCount int
	frame    *portal.Frame
	err      error
}

func newBrowseModel(source historySource, cal calendar.TradingCalendar, end time.Time, barCount int) browseModel {
	return browseModel{
		state:       StateFieldSelect,
		fieldList:   newFieldList(),
		symbolInput: newSymbolInput(),
		dataTable:   table.New(table.WithFocused(true), table.WithHeight(barCount+1)),
		source:      source,
		cal:         cal,
		end:         types.NormalizeSession(end),
		barCount:    barCount,
	}
}

// Init implements tea.Model.
func (m browseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.state != StateSymbolInput {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.fieldList.SetSize(msg.Width, msg.Height-4)
		m.dataTable.SetWidth(msg.Width)

		return m, nil

	case frameMsg:
		m.frame = msg.frame
		m.err = nil
		m.dataTable = frameTable(m.dataTable, msg.frame)

		return m, nil

	case historyErrorMsg:
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case StateFieldSelect:
		return m.updateFieldSelect(msg)
	case StateSymbolInput:
		return m.updateSymbolInput(msg)
	case StateHistoryDisplay:
		return m.updateHistoryDisplay(msg)
	}

	return m, nil
}

func (m browseModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateSymbolInput:
		m.state = StateFieldSelect
	case StateHistoryDisplay:
		m.frame = nil
		m.err = nil
		m.symbols = nil
		m.symbolInput.Reset()
		m.symbolInput.Focus()
		m.state = StateSymbolInput

		return m, textinput.Blink
	}

	return m, nil
}

func (m browseModel) updateFieldSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.fieldList.SelectedItem().(listItem); ok {
			m.field = types.Field(item.name)
			m.state = StateSymbolInput
			m.symbolInput.Focus()

			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.fieldList, cmd = m.fieldList.Update(msg)

	return m, cmd
}

func (m browseModel) updateSymbolInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		symbols := splitSymbols(strings.ToUpper(m.symbolInput.Value()))
		if len(symbols) > 0 {
			m.symbols = symbols
			m.state = StateHistoryDisplay
			m.symbolInput.Blur()

			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.symbolInput, cmd = m.symbolInput.Update(msg)

	return m, cmd
}

func (m browseModel) updateHistoryDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "left", "h":
			if previous, ok := m.cal.PreviousSession(m.end); ok {
				m.end = previous

				return m, m.load()
			}
		case "right", "l":
			if next, ok := m.cal.NextSession(m.end); ok {
				m.end = next

				return m, m.load()
			}
		}
	}

	var cmd tea.Cmd
	m.dataTable, cmd = m.dataTable.Update(msg)

	return m, cmd
}

// load returns a command that requests the window ending at the current session.
func (m browseModel) load() tea.Cmd {
	source, symbols, end, barCount, field := m.source, m.symbols, m.end, m.barCount, m.field

	return func() tea.Msg {
		frame, err := source.History(symbols, end, barCount, portal.FrequencyDaily, field, portal.FrequencyDaily)
		if err != nil {
			return historyErrorMsg{err: err}
		}

		return frameMsg{frame: frame}
	}
}

// View implements tea.Model.
func (m browseModel) View() string {
	var s strings.Builder

	switch m.state {
	case StateFieldSelect:
		s.WriteString(m.fieldList.View())
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("Press Enter to select, q to quit"))

	case StateSymbolInput:
		s.WriteString(titleStyle.Render("Enter Symbols"))
		s.WriteString("\n\n")
		s.WriteString("Enter comma-separated symbols (e.g., AAPL,CL_0_calendar):\n\n")
		s.WriteString(m.symbolInput.View())
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("Press Enter to confirm, Esc to go back"))

	case StateHistoryDisplay:
		s.WriteString(titleStyle.Render(fmt.Sprintf("%s history ending %s", m.field, m.end.Format(time.DateOnly))))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		if m.frame == nil {
			s.WriteString("Loading...\n")
		} else {
			s.WriteString(m.dataTable.View())
		}

		s.WriteString("\n")
		s.WriteString(helpStyle.Render("←/→: step one session | q: quit | Esc: back"))
	}

	return s.String()
}

// listItem implements list.Item for the field list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

func newFieldList() list.Model {
	items := []list.Item{
		listItem{name: string(types.FieldClose), description: "Adjusted close"},
		listItem{name: string(types.FieldPrice), description: "Adjusted close, forward filled"},
		listItem{name: string(types.FieldOpen), description: "Adjusted open"},
		listItem{name: string(types.FieldHigh), description: "Adjusted high"},
		listItem{name: string(types.FieldLow), description: "Adjusted low"},
		listItem{name: string(types.FieldVolume), description: "Adjusted volume"},
		listItem{name: string(types.FieldOpenInterest), description: "Open interest"},
		listItem{name: string(types.FieldExchangeSymbol), description: "Contract traded on each session"},
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Field"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

func newSymbolInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "AAPL,CL_0_calendar"
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "> "

	return ti
}

// frameTable replaces the columns and rows of t with the content of frame.
func frameTable(t table.Model, frame *portal.Frame) table.Model {
	columns := []table.Column{{Title: "Session", Width: 12}}
	for _, symbol := range frame.Symbols {
		columns = append(columns, table.Column{Title: symbol, Width: max(len(symbol), 10) + 2})
	}

	rows := make([]table.Row, len(frame.Sessions))
	for i, session := range frame.Sessions {
		row := table.Row{session.Format(time.DateOnly)}
		for c := range frame.Symbols {
			row = append(row, frameCell(frame, i, c))
		}

		rows[i] = row
	}

	// rows must shrink before columns or the table indexes past the new width
	t.SetRows(nil)
	t.SetColumns(columns)
	t.SetRows(rows)

	return t
}

func browseAction(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	end := cmd.Timestamp("end")
	if end.IsZero() {
		end = a.calendar.SessionAt(a.calendar.Len() - 1)
	}

	m := newBrowseModel(a.portal, a.calendar, end, int(cmd.Int("bars")))

	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()

	return err
}
