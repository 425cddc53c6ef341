package adjustment

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

// PriceReader is the part of a bar reader needed to price a roll.
type PriceReader interface {
	GetValue(instrument types.Instrument, session time.Time, field types.Field) (float64, error)
	GetLastTradedDate(instrument types.Instrument, session time.Time) (optional.Option[time.Time], error)
}

// RollAdjustmentProvider splices the contracts of a continuous future into one
// series by restating every row before a roll in terms of the incoming contract.
type RollAdjustmentProvider struct {
	cal         calendar.TradingCalendar
	finder      instrument.Finder
	reader      PriceReader
	rollFinders instrument.RollFinders
}

func NewRollAdjustmentProvider(
	cal calendar.TradingCalendar,
	finder instrument.Finder,
	reader PriceReader,
	rollFinders instrument.RollFinders,
) *RollAdjustmentProvider {
	return &RollAdjustmentProvider{
		cal:         cal,
		finder:      finder,
		reader:      reader,
		rollFinders: rollFinders,
	}
}

// AdjustmentsInRange implements Provider.
func (p *RollAdjustmentProvider) AdjustmentsInRange(cf types.Instrument, sessions []time.Time, field types.Field) (Map, error) {
	out := Map{}

	if field.IsCountField() || field.IsLabelField() || len(sessions) == 0 {
		return out, nil
	}

	if cf.Continuous == nil {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "%s is not a continuous future", cf.Symbol)
	}

	style := cf.Continuous.AdjustmentStyle
	if style == types.AdjustmentStyleNone {
		return out, nil
	}

	if !style.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidAdjustmentStyle, "invalid adjustment style %q for %s", style, cf.Symbol)
	}

	rf, err := p.rollFinders.For(cf.Continuous.RollStyle)
	if err != nil {
		return nil, err
	}

	rolls, err := rf.GetRolls(cf.Continuous.RootSymbol, sessions[0], sessions[len(sessions)-1], cf.Continuous.Offset)
	if err != nil {
		return nil, err
	}

	for i := 0; i+1 < len(rolls); i++ {
		front, back := rolls[i], rolls[i+1]
		if front.Date.IsNone() || front.Symbol == "" || back.Symbol == "" {
			continue
		}

		rollDate := front.Date.Unwrap()

		loc := searchSorted(sessions, rollDate)
		if loc <= 0 || loc >= len(sessions) {
			continue
		}

		adj, ok, err := p.rollAdjustment(style, front.Symbol, back.Symbol, rollDate, loc)
		if err != nil {
			return nil, err
		}

		if ok {
			out.Add(loc, adj)
		}
	}

	return out, nil
}

// rollAdjustment prices one roll from the closes of both contracts as of the
// session before the roll. It reports false when either contract has not traded yet.
func (p *RollAdjustmentProvider) rollAdjustment(style types.AdjustmentStyle, frontSymbol string, backSymbol string, rollDate time.Time, loc int) (Adjustment, bool, error) {
	reference, ok := p.cal.PreviousSession(rollDate)
	if !ok {
		return Adjustment{}, false, nil
	}

	contracts, err := p.finder.RetrieveAll([]string{frontSymbol, backSymbol})
	if err != nil {
		return Adjustment{}, false, err
	}

	frontClose, ok, err := p.lastClose(contracts[0], reference)
	if err != nil || !ok {
		return Adjustment{}, false, err
	}

	backClose, ok, err := p.lastClose(contracts[1], reference)
	if err != nil || !ok {
		return Adjustment{}, false, err
	}

	delta := backClose - frontClose
	if style == types.AdjustmentStyleAdd {
		return NewAdd(loc-1, delta), true, nil
	}

	if frontClose == 0 {
		return Adjustment{}, false, nil
	}

	return NewMultiply(loc-1, 1+delta/frontClose), true, nil
}

func (p *RollAdjustmentProvider) lastClose(contract types.Instrument, asOf time.Time) (float64, bool, error) {
	lastTraded, err := p.reader.GetLastTradedDate(contract, asOf)
	if err != nil {
		return 0, false, err
	}

	if lastTraded.IsNone() {
		return 0, false, nil
	}

	value, err := p.reader.GetValue(contract, lastTraded.Unwrap(), types.FieldClose)
	if err != nil {
		if errors.IsNoDataOnDate(err) {
			return 0, false, nil
		}

		return 0, false, err
	}

	return value, true, nil
}
