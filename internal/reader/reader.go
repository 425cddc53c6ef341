// Package reader loads raw daily bars for batches of instruments and
// normalises heterogeneous stores onto one trading calendar.
package reader

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/types"
)

// BarReader reads raw, unadjusted daily bars.
type BarReader interface {
	// Calendar returns the calendar whose sessions the reader serves.
	Calendar() calendar.TradingCalendar
	// FirstTradingDay returns the first session with data.
	FirstTradingDay() time.Time
	// LastAvailableDate returns the last session with data.
	LastAvailableDate() time.Time
	// LoadRawArrays returns one block per field shaped
	// (sessions in [start, end], len(instruments)), columns in instrument order.
	LoadRawArrays(fields []types.Field, start time.Time, end time.Time, instruments []types.Instrument) ([]*types.Block, error)
	// GetValue returns a single value. It fails with NoDataOnDateError when the
	// session is outside the instrument's data.
	GetValue(instrument types.Instrument, session time.Time, field types.Field) (float64, error)
	// GetLastTradedDate returns the last session on or before session with a trade.
	GetLastTradedDate(instrument types.Instrument, session time.Time) (optional.Option[time.Time], error)
	// GetLabel returns the exchange symbol traded on session.
	GetLabel(instrument types.Instrument, session time.Time) (string, error)
}
