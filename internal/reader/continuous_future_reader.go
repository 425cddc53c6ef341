package reader

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

// ContinuousFutureBarReader stitches the bars of a chain's contracts into one
// series per continuous future, switching contracts on each roll.
type ContinuousFutureBarReader struct {
	inner       BarReader
	finder      instrument.Finder
	rollFinders instrument.RollFinders
}

func NewContinuousFutureBarReader(inner BarReader, finder instrument.Finder, rollFinders instrument.RollFinders) *ContinuousFutureBarReader {
	return &ContinuousFutureBarReader{
		inner:       inner,
		finder:      finder,
		rollFinders: rollFinders,
	}
}

// segment is a contiguous run of sessions served by one contract.
type segment struct {
	contract types.Instrument
	start    int
	end      int
}

// Calendar implements BarReader.
func (r *ContinuousFutureBarReader) Calendar() calendar.TradingCalendar {
	return r.inner.Calendar()
}

// FirstTradingDay implements BarReader.
func (r *ContinuousFutureBarReader) FirstTradingDay() time.Time {
	return r.inner.FirstTradingDay()
}

// LastAvailableDate implements BarReader.
func (r *ContinuousFutureBarReader) LastAvailableDate() time.Time {
	return r.inner.LastAvailableDate()
}

// LoadRawArrays implements BarReader.
func (r *ContinuousFutureBarReader) LoadRawArrays(fields []types.Field, start time.Time, end time.Time, instruments []types.Instrument) ([]*types.Block, error) {
	sessions := r.Calendar().SessionsInRange(start, end)

	out := make([]*types.Block, len(fields))
	for i, field := range fields {
		if !types.IsHistoryField(field) {
			return nil, errors.Newf(errors.ErrCodeInvalidField, "invalid field: %s", field)
		}

		out[i] = types.NewBlock(field, len(sessions), len(instruments))
	}

	if len(sessions) == 0 {
		return out, nil
	}

	for c, cf := range instruments {
		segments, err := r.segments(cf, sessions)
		if err != nil {
			return nil, err
		}

		for _, seg := range segments {
			blocks, err := r.inner.LoadRawArrays(fields, sessions[seg.start], sessions[seg.end], []types.Instrument{seg.contract})
			if err != nil {
				return nil, err
			}

			rowPositions := make([]int, seg.end-seg.start+1)
			for i := range rowPositions {
				rowPositions[i] = seg.start + i
			}

			for i, field := range fields {
				if field.IsLabelField() {
					// the active contract labels its whole segment, traded or not
					for _, row := range rowPositions {
						out[i].SetLabel(row, c, seg.contract.Symbol)
					}

					continue
				}

				if err := out[i].ScatterColumns(blocks[i], rowPositions, []int{c}); err != nil {
					return nil, errors.Wrapf(errors.ErrCodeCalendarMismatch, err, "failed to stitch %s for %s", field, cf.Symbol)
				}
			}
		}
	}

	return out, nil
}

// segments partitions sessions by the contract active on each of them.
// Sessions without an active contract belong to no segment.
func (r *ContinuousFutureBarReader) segments(cf types.Instrument, sessions []time.Time) ([]segment, error) {
	if cf.Continuous == nil {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "%s is not a continuous future", cf.Symbol)
	}

	rf, err := r.rollFinders.For(cf.Continuous.RollStyle)
	if err != nil {
		return nil, err
	}

	rolls, err := rf.GetRolls(cf.Continuous.RootSymbol, sessions[0], sessions[len(sessions)-1], cf.Continuous.Offset)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(rolls))
	for _, roll := range rolls {
		if roll.Symbol != "" {
			symbols = append(symbols, roll.Symbol)
		}
	}

	contracts, err := r.finder.RetrieveAll(symbols)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]types.Instrument, len(contracts))
	for _, contract := range contracts {
		bySymbol[contract.Symbol] = contract
	}

	var out []segment

	first := 0
	for _, roll := range rolls {
		last := len(sessions) - 1
		if roll.Date.IsSome() {
			last = searchSessions(sessions, roll.Date.Unwrap()) - 1
		}

		if roll.Symbol != "" && last >= first {
			out = append(out, segment{contract: bySymbol[roll.Symbol], start: first, end: last})
		}

		first = last + 1
	}

	return out, nil
}

// GetValue implements BarReader.
func (r *ContinuousFutureBarReader) GetValue(cf types.Instrument, session time.Time, field types.Field) (float64, error) {
	contract, err := r.contractAt(cf, session)
	if err != nil {
		return 0, err
	}

	return r.inner.GetValue(contract, session, field)
}

// GetLastTradedDate implements BarReader.
func (r *ContinuousFutureBarReader) GetLastTradedDate(cf types.Instrument, session time.Time) (optional.Option[time.Time], error) {
	contract, err := r.contractAt(cf, session)
	if err != nil {
		if errors.IsNoDataOnDate(err) {
			return optional.None[time.Time](), nil
		}

		return optional.None[time.Time](), err
	}

	return r.inner.GetLastTradedDate(contract, session)
}

// GetLabel implements BarReader.
func (r *ContinuousFutureBarReader) GetLabel(cf types.Instrument, session time.Time) (string, error) {
	contract, err := r.contractAt(cf, session)
	if err != nil {
		if errors.IsNoDataOnDate(err) {
			return "", nil
		}

		return "", err
	}

	return contract.Symbol, nil
}

func (r *ContinuousFutureBarReader) contractAt(cf types.Instrument, session time.Time) (types.Instrument, error) {
	if cf.Continuous == nil {
		return types.Instrument{}, errors.Newf(errors.ErrCodeInvalidParameter, "%s is not a continuous future", cf.Symbol)
	}

	rf, err := r.rollFinders.For(cf.Continuous.RollStyle)
	if err != nil {
		return types.Instrument{}, err
	}

	session = types.NormalizeSession(session)

	symbol, err := rf.ContractAt(cf.Continuous.RootSymbol, session, cf.Continuous.Offset)
	if err != nil {
		return types.Instrument{}, err
	}

	if symbol == "" {
		return types.Instrument{}, errors.NewNoDataOnDateError(cf.Symbol, session, "no active contract")
	}

	return r.finder.Retrieve(symbol)
}
