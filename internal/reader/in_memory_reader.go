package reader

import (
	"sort"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

// InMemoryBarReader serves preloaded bars indexed by symbol and session.
type InMemoryBarReader struct {
	cal calendar.TradingCalendar

	// bars[symbol] is ordered by session
	bars map[string][]types.DailyBar

	// index[symbol][session] = position in bars[symbol]
	index map[string]map[time.Time]int

	mu sync.RWMutex
}

// NewInMemoryBarReader indexes bars on cal. Bars on sessions outside cal are dropped.
func NewInMemoryBarReader(cal calendar.TradingCalendar, bars ...types.DailyBar) *InMemoryBarReader {
	r := &InMemoryBarReader{
		cal:   cal,
		bars:  make(map[string][]types.DailyBar),
		index: make(map[string]map[time.Time]int),
		mu:    sync.RWMutex{},
	}

	r.Add(bars...)

	return r
}

// Add merges bars into the reader, replacing bars of the same symbol and session.
func (r *InMemoryBarReader) Add(bars ...types.DailyBar) {
	r.mu.Lock()
	defer r.mu.Unlock()

	touched := make(map[string]struct{})

	for _, bar := range bars {
		bar.Session = types.NormalizeSession(bar.Session)
		if _, ok := r.cal.PositionOf(bar.Session); !ok {
			continue
		}

		if _, ok := r.index[bar.Symbol]; !ok {
			r.index[bar.Symbol] = make(map[time.Time]int)
		}

		if pos, ok := r.index[bar.Symbol][bar.Session]; ok {
			r.bars[bar.Symbol][pos] = bar

			continue
		}

		r.bars[bar.Symbol] = append(r.bars[bar.Symbol], bar)
		r.index[bar.Symbol][bar.Session] = len(r.bars[bar.Symbol]) - 1
		touched[bar.Symbol] = struct{}{}
	}

	for symbol := range touched {
		series := r.bars[symbol]
		sort.Slice(series, func(i, j int) bool {
			return series[i].Session.Before(series[j].Session)
		})

		for pos, bar := range series {
			r.index[symbol][bar.Session] = pos
		}
	}
}

// Calendar implements BarReader.
func (r *InMemoryBarReader) Calendar() calendar.TradingCalendar {
	return r.cal
}

// FirstTradingDay implements BarReader.
func (r *InMemoryBarReader) FirstTradingDay() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var first time.Time

	for _, series := range r.bars {
		if len(series) > 0 && (first.IsZero() || series[0].Session.Before(first)) {
			first = series[0].Session
		}
	}

	if first.IsZero() && r.cal.Len() > 0 {
		return r.cal.SessionAt(0)
	}

	return first
}

// LastAvailableDate implements BarReader.
func (r *InMemoryBarReader) LastAvailableDate() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last time.Time

	for _, series := range r.bars {
		if len(series) > 0 && series[len(series)-1].Session.After(last) {
			last = series[len(series)-1].Session
		}
	}

	if last.IsZero() && r.cal.Len() > 0 {
		return r.cal.SessionAt(r.cal.Len() - 1)
	}

	return last
}

// LoadRawArrays implements BarReader.
func (r *InMemoryBarReader) LoadRawArrays(fields []types.Field, start time.Time, end time.Time, instruments []types.Instrument) ([]*types.Block, error) {
	sessions := r.cal.SessionsInRange(start, end)

	set, err := newBlockSet(fields, sessions, instruments)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, instrument := range instruments {
		for _, session := range sessions {
			if pos, ok := r.index[instrument.Symbol][session]; ok {
				set.add(r.bars[instrument.Symbol][pos])
			}
		}
	}

	return set.blocks, nil
}

// GetValue implements BarReader.
func (r *InMemoryBarReader) GetValue(instrument types.Instrument, session time.Time, field types.Field) (float64, error) {
	if field.IsLabelField() || !types.IsHistoryField(field) {
		return 0, errors.Newf(errors.ErrCodeInvalidField, "invalid field for value lookup: %s", field)
	}

	session = types.NormalizeSession(session)

	r.mu.RLock()
	defer r.mu.RUnlock()

	series := r.bars[instrument.Symbol]
	if len(series) == 0 {
		return 0, errors.NewNoDataOnDateError(instrument.Symbol, session, "no bars for symbol")
	}

	if session.Before(series[0].Session) || session.After(series[len(series)-1].Session) {
		return 0, errors.NewNoDataOnDateError(instrument.Symbol, session, "session outside of available bars")
	}

	pos, ok := r.index[instrument.Symbol][session]
	if !ok {
		return field.FillValue(), nil
	}

	value, _ := series[pos].Value(field)

	return value, nil
}

// GetLastTradedDate implements BarReader.
func (r *InMemoryBarReader) GetLastTradedDate(instrument types.Instrument, session time.Time) (optional.Option[time.Time], error) {
	session = types.NormalizeSession(session)

	r.mu.RLock()
	defer r.mu.RUnlock()

	series := r.bars[instrument.Symbol]

	// first bar after session
	pos := sort.Search(len(series), func(i int) bool {
		return series[i].Session.After(session)
	})

	for i := pos - 1; i >= 0; i-- {
		if series[i].Traded() {
			return optional.Some(series[i].Session), nil
		}
	}

	return optional.None[time.Time](), nil
}

// GetLabel implements BarReader.
func (r *InMemoryBarReader) GetLabel(instrument types.Instrument, session time.Time) (string, error) {
	session = types.NormalizeSession(session)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.index[instrument.Symbol][session]; !ok {
		return "", nil
	}

	return instrument.Symbol, nil
}
