// Package portal is the strategy-facing entry point for point-in-time history.
//
// A DataPortal is not safe for concurrent use by multiple simulations: give
// each worker its own loader and portal.
package portal

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/history"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/reader"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"go.uber.org/zap"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "1d"
	FrequencyMinute Frequency = "1m"
)

// Frame is the result of a history request. Values holds numeric fields and
// Labels holds exchange_symbol; rows follow Sessions and columns Symbols.
type Frame struct {
	Field    types.Field
	Sessions []time.Time
	Symbols  []string
	Values   [][]float64
	Labels   [][]string
}

type Option func(*DataPortal)

func WithLogger(log *logger.Logger) Option {
	return func(p *DataPortal) {
		p.logger = log
	}
}

type DataPortal struct {
	cal             calendar.TradingCalendar
	finder          instrument.Finder
	reader          reader.BarReader
	loader          history.Loader
	firstTradingDay time.Time
	logger          *logger.Logger
}

func NewDataPortal(
	cal calendar.TradingCalendar,
	finder instrument.Finder,
	r reader.BarReader,
	loader history.Loader,
	firstTradingDay time.Time,
	opts ...Option,
) *DataPortal {
	p := &DataPortal{
		cal:             cal,
		finder:          finder,
		reader:          r,
		loader:          loader,
		firstTradingDay: types.NormalizeSession(firstTradingDay),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.NewNopLogger()
	}

	return p
}

// History returns barCount daily bars of field ending at endDate for symbols.
// With a minute data frequency the daily bars are seen from the session after
// endDate, so adjustments effective on that session are already applied.
func (p *DataPortal) History(
	symbols []string,
	endDate time.Time,
	barCount int,
	frequency Frequency,
	field types.Field,
	dataFrequency Frequency,
) (*Frame, error) {
	if !types.IsHistoryField(field) {
		return nil, errors.Newf(errors.ErrCodeInvalidField, "invalid field: %s", field)
	}

	if barCount < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidBarCount, "bar count must be at least 1, got %d", barCount)
	}

	switch frequency {
	case FrequencyDaily:
	case FrequencyMinute:
		return nil, errors.New(errors.ErrCodeInvalidFrequency, "minute history is not supported")
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidFrequency, "invalid frequency: %q", frequency)
	}

	instruments, err := p.finder.RetrieveAll(symbols)
	if err != nil {
		return nil, err
	}

	sessions, err := p.daysForWindow(endDate, barCount)
	if err != nil {
		return nil, err
	}

	perspectiveAfter := dataFrequency == FrequencyMinute

	p.logger.Debug("History request",
		zap.Strings("symbols", symbols),
		zap.Time("end", sessions[len(sessions)-1]),
		zap.Int("bar_count", barCount),
		zap.String("field", string(field)),
		zap.Bool("perspective_after", perspectiveAfter),
	)

	frame := &Frame{
		Field:    field,
		Sessions: sessions,
		Symbols:  types.Symbols(instruments),
	}

	if field == types.FieldPrice {
		block, err := p.loader.History(instruments, sessions, types.FieldClose, perspectiveAfter)
		if err != nil {
			return nil, err
		}

		if err := p.fillLeadingPrices(block, instruments, sessions, perspectiveAfter); err != nil {
			return nil, err
		}

		block.ForwardFill()
		frame.Values = block.Matrix()

		return frame, nil
	}

	block, err := p.loader.History(instruments, sessions, field, perspectiveAfter)
	if err != nil {
		return nil, err
	}

	if field.IsLabelField() {
		frame.Labels = block.Labels()
	} else {
		frame.Values = block.Matrix()
	}

	return frame, nil
}

// daysForWindow returns the barCount sessions ending at the last session on or
// before endDate.
func (p *DataPortal) daysForWindow(endDate time.Time, barCount int) ([]time.Time, error) {
	endDate = types.NormalizeSession(endDate)

	endLoc, ok := p.cal.PositionOf(endDate)
	if !ok {
		endLoc = p.cal.SearchSorted(endDate) - 1
	}

	if endLoc < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "%s is before the first session of %s",
			endDate.Format(time.DateOnly), p.cal.Name())
	}

	firstLoc := p.cal.SearchSorted(p.firstTradingDay)
	startLoc := endLoc - barCount + 1

	if startLoc < firstLoc {
		suggestedLoc := min(firstLoc+barCount-1, p.cal.Len()-1)

		return nil, errors.NewHistoryWindowStartsBeforeDataError(p.firstTradingDay, barCount, p.cal.SessionAt(suggestedLoc))
	}

	sessions := make([]time.Time, barCount)
	copy(sessions, p.cal.Sessions()[startLoc:endLoc+1])

	return sessions, nil
}

// fillLeadingPrices seeds the first row with the last traded close before the
// window, restated as of the last session, so forward filling covers sessions
// before an instrument's first bar in the window.
func (p *DataPortal) fillLeadingPrices(block *types.Block, instruments []types.Instrument, sessions []time.Time, perspectiveAfter bool) error {
	if block.Rows() == 0 {
		return nil
	}

	before, ok := p.cal.PreviousSession(sessions[0])
	if !ok {
		return nil
	}

	for c, inst := range instruments {
		if !math.IsNaN(block.At(0, c)) {
			continue
		}

		traded, value, err := p.lastTradedClose(inst, before)
		if err != nil {
			return err
		}

		if traded.IsNone() || math.IsNaN(value) {
			continue
		}

		adjusted, err := p.loader.AdjustedValue(inst, traded.Unwrap(), sessions[len(sessions)-1], types.FieldClose, perspectiveAfter, value)
		if err != nil {
			return err
		}

		block.Set(0, c, adjusted)
	}

	return nil
}

// lastTradedClose returns the last session on or before session with a trade
// and its raw close. The close is NaN when nothing traded.
func (p *DataPortal) lastTradedClose(inst types.Instrument, session time.Time) (optional.Option[time.Time], float64, error) {
	lastTraded, err := p.reader.GetLastTradedDate(inst, session)
	if err != nil {
		return nil, 0, err
	}

	if lastTraded.IsNone() {
		return lastTraded, math.NaN(), nil
	}

	value, err := p.reader.GetValue(inst, lastTraded.Unwrap(), types.FieldClose)
	if err != nil {
		if errors.IsNoDataOnDate(err) {
			return lastTraded, math.NaN(), nil
		}

		return nil, 0, err
	}

	return lastTraded, value, nil
}

// GetSpotValue returns the unadjusted value of field on session. price falls
// back to the last traded close.
func (p *DataPortal) GetSpotValue(symbol string, session time.Time, field types.Field) (float64, error) {
	if !types.IsHistoryField(field) || field.IsLabelField() {
		return 0, errors.Newf(errors.ErrCodeInvalidField, "invalid field for spot value: %s", field)
	}

	inst, err := p.finder.Retrieve(symbol)
	if err != nil {
		return 0, err
	}

	session = types.NormalizeSession(session)

	if field == types.FieldPrice {
		_, value, err := p.lastTradedClose(inst, session)

		return value, err
	}

	return p.reader.GetValue(inst, session, field)
}

// GetSpotLabel returns the exchange symbol traded on session.
func (p *DataPortal) GetSpotLabel(symbol string, session time.Time) (string, error) {
	inst, err := p.finder.Retrieve(symbol)
	if err != nil {
		return "", err
	}

	return p.reader.GetLabel(inst, types.NormalizeSession(session))
}

// GetLastTradedDate returns the last session on or before session with a trade.
func (p *DataPortal) GetLastTradedDate(symbol string, session time.Time) (time.Time, bool, error) {
	inst, err := p.finder.Retrieve(symbol)
	if err != nil {
		return time.Time{}, false, err
	}

	lastTraded, err := p.reader.GetLastTradedDate(inst, types.NormalizeSession(session))
	if err != nil {
		return time.Time{}, false, err
	}

	return lastTraded.Unwrap(), lastTraded.IsSome(), nil
}
