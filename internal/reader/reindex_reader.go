package reader

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

// ReindexBarReader presents a reader on a sparser calendar as if it served the
// target calendar. Sessions the inner calendar lacks are filled.
type ReindexBarReader struct {
	cal   calendar.TradingCalendar
	inner BarReader
	first time.Time
	last  time.Time
}

// NewReindexBarReader fails when an inner session within [first, last] is not a
// session of targetCal.
func NewReindexBarReader(targetCal calendar.TradingCalendar, inner BarReader, first time.Time, last time.Time) (*ReindexBarReader, error) {
	first = types.NormalizeSession(first)
	last = types.NormalizeSession(last)

	if last.Before(first) {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"reindex range is empty: %s > %s", first.Format(time.DateOnly), last.Format(time.DateOnly))
	}

	if !calendar.IsSubset(targetCal, inner.Calendar(), first, last) {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration,
			"calendar %s has sessions missing from %s between %s and %s",
			inner.Calendar().Name(), targetCal.Name(), first.Format(time.DateOnly), last.Format(time.DateOnly))
	}

	return &ReindexBarReader{
		cal:   targetCal,
		inner: inner,
		first: first,
		last:  last,
	}, nil
}

// Calendar implements BarReader.
func (r *ReindexBarReader) Calendar() calendar.TradingCalendar {
	return r.cal
}

// FirstTradingDay implements BarReader.
func (r *ReindexBarReader) FirstTradingDay() time.Time {
	return r.first
}

// LastAvailableDate implements BarReader.
func (r *ReindexBarReader) LastAvailableDate() time.Time {
	return r.last
}

// LoadRawArrays implements BarReader.
func (r *ReindexBarReader) LoadRawArrays(fields []types.Field, start time.Time, end time.Time, instruments []types.Instrument) ([]*types.Block, error) {
	outer := r.cal.SessionsInRange(start, end)

	out := make([]*types.Block, len(fields))
	for i, field := range fields {
		if !types.IsHistoryField(field) {
			return nil, errors.Newf(errors.ErrCodeInvalidField, "invalid field: %s", field)
		}

		out[i] = types.NewBlock(field, len(outer), len(instruments))
	}

	// the inner calendar is only known to be a subset of the target within [first, last]
	innerStart, innerEnd := types.NormalizeSession(start), types.NormalizeSession(end)
	if innerStart.Before(r.first) {
		innerStart = r.first
	}

	if innerEnd.After(r.last) {
		innerEnd = r.last
	}

	inner := r.inner.Calendar().SessionsInRange(innerStart, innerEnd)
	if len(inner) == 0 || len(outer) == 0 {
		return out, nil
	}

	rowPositions := make([]int, len(inner))
	for i, session := range inner {
		pos := searchSessions(outer, session)
		if pos >= len(outer) || !outer[pos].Equal(session) {
			return nil, errors.Newf(errors.ErrCodeCalendarMismatch, "session %s of %s is not a session of %s",
				session.Format(time.DateOnly), r.inner.Calendar().Name(), r.cal.Name())
		}

		rowPositions[i] = pos
	}

	columns := make([]int, len(instruments))
	for i := range columns {
		columns[i] = i
	}

	blocks, err := r.inner.LoadRawArrays(fields, inner[0], inner[len(inner)-1], instruments)
	if err != nil {
		return nil, err
	}

	for i := range fields {
		if err := out[i].ScatterColumns(blocks[i], rowPositions, columns); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeCalendarMismatch, err, "failed to reindex %s", fields[i])
		}
	}

	return out, nil
}

// GetValue implements BarReader. Missing data reads as the field's fill value.
func (r *ReindexBarReader) GetValue(inst types.Instrument, session time.Time, field types.Field) (float64, error) {
	value, err := r.inner.GetValue(inst, session, field)
	if err != nil {
		if errors.IsNoDataOnDate(err) {
			return field.FillValue(), nil
		}

		return 0, err
	}

	return value, nil
}

// GetLastTradedDate implements BarReader.
func (r *ReindexBarReader) GetLastTradedDate(inst types.Instrument, session time.Time) (optional.Option[time.Time], error) {
	return r.inner.GetLastTradedDate(inst, session)
}

// GetLabel implements BarReader.
func (r *ReindexBarReader) GetLabel(inst types.Instrument, session time.Time) (string, error) {
	return r.inner.GetLabel(inst, session)
}

// searchSessions returns the index of the first session not before t.
func searchSessions(sessions []time.Time, t time.Time) int {
	return sort.Search(len(sessions), func(i int) bool {
		return !sessions[i].Before(t)
	})
}
