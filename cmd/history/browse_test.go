package main

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/portal"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource answers every request with one row per session ending at endDate.
type stubSource struct {
	cal  calendar.TradingCalendar
	ends []time.Time
	err  error
}

func (s *stubSource) History(symbols []string, endDate time.Time, barCount int, _ portal.Frequency, field types.Field, _ portal.Frequency) (*portal.Frame, error) {
	s.ends = append(s.ends, endDate)
	if s.err != nil {
		return nil, s.err
	}

	pos, _ := s.cal.PositionOf(endDate)
	frame := &portal.Frame{Field: field, Symbols: symbols}

	for i := pos - barCount + 1; i <= pos; i++ {
		frame.Sessions = append(frame.Sessions, s.cal.SessionAt(i))

		row := make([]float64, len(symbols))
		for c := range row {
			row[c] = float64(100 + i)
		}

		frame.Values = append(frame.Values, row)
	}

	return frame, nil
}

func browseFixture() (*stubSource, browseModel) {
	cal := calendar.NewWeekdayCalendar("TEST", day(time.January, 1), day(time.January, 31), []time.Time{day(time.January, 1)})
	source := &stubSource{cal: cal}

	return source, newBrowseModel(source, cal, day(time.January, 10), 3)
}

func TestNewBrowseModel(t *testing.T) {
	_, m := browseFixture()

	assert.Equal(t, StateFieldSelect, m.state)
	assert.Empty(t, m.symbols)
	assert.Nil(t, m.frame)
	assert.Equal(t, day(time.January, 10), m.end)
}

func TestFieldSelection(t *testing.T) {
	_, m := browseFixture()
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Select Field"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Enter Symbols"))
	}, teatest.WithDuration(2*time.Second))

	require.NoError(t, tm.Quit())
}

func TestSymbolInputLoadsHistory(t *testing.T) {
	_, m := browseFixture()
	m.state = StateSymbolInput
	m.field = types.FieldClose
	m.symbolInput.Focus()

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Enter Symbols"))
	}, teatest.WithDuration(2*time.Second))

	tm.Type("aapl,ibm")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("close history ending 2024-01-10")) &&
			bytes.Contains(bts, []byte("IBM")) &&
			bytes.Contains(bts, []byte("2024-01-08"))
	}, teatest.WithDuration(2*time.Second))

	require.NoError(t, tm.Quit())
}

func TestStepSessions(t *testing.T) {
	source, m := browseFixture()
	m.state = StateHistoryDisplay
	m.field = types.FieldClose
	m.symbols = []string{"AAPL"}

	step := func(m browseModel, key tea.KeyMsg) browseModel {
		next, cmd := m.Update(key)
		require.NotNil(t, cmd)

		next, _ = next.Update(cmd())

		return next.(browseModel)
	}

	m = step(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, day(time.January, 11), m.end)
	require.NotNil(t, m.frame)
	assert.Equal(t, day(time.January, 11), m.frame.Sessions[2])

	// Jan 15 is a weekday session in this calendar; the weekend is skipped
	m = step(m, tea.KeyMsg{Type: tea.KeyRight})
	m = step(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, day(time.January, 15), m.end)

	m = step(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Equal(t, day(time.January, 12), m.end)

	assert.Equal(t, []time.Time{day(time.January, 11), day(time.January, 12), day(time.January, 15), day(time.January, 12)}, source.ends)
	assert.Len(t, m.dataTable.Rows(), 3)
}

func TestHistoryError(t *testing.T) {
	source, m := browseFixture()
	source.err = errors.NewSymbolsNotFoundError([]string{"MSFT"})
	m.state = StateHistoryDisplay
	m.field = types.FieldClose
	m.symbols = []string{"MSFT"}

	next, _ := m.Update(m.load()())
	updated := next.(browseModel)

	require.Error(t, updated.err)
	assert.Contains(t, updated.View(), "MSFT")
}

func TestEscFromHistoryDisplay(t *testing.T) {
	_, m := browseFixture()
	m.state = StateHistoryDisplay
	m.symbols = []string{"AAPL"}
	m.frame = &portal.Frame{}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	updated := next.(browseModel)

	assert.Equal(t, StateSymbolInput, updated.state)
	assert.Nil(t, updated.symbols)
	assert.Nil(t, updated.frame)

	next, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateFieldSelect, next.(browseModel).state)
}
