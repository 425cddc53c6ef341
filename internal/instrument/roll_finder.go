package instrument

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

// Roll is one segment of a continuous future: Symbol is active until Date,
// exclusive. The last segment of a range has no Date.
type Roll struct {
	Symbol string
	Date   optional.Option[time.Time]
}

// RollFinder discovers which contract of a chain is active at each session.
type RollFinder interface {
	// GetRolls returns the ordered segments covering [start, end].
	GetRolls(root string, start time.Time, end time.Time, offset int) ([]Roll, error)
	// ContractAt returns the symbol of the contract active at session.
	// It returns "" when the chain has no contract at that offset.
	ContractAt(root string, session time.Time, offset int) (string, error)
}

// CalendarRollFinder rolls to the next contract on the auto close date of the active one.
type CalendarRollFinder struct {
	cal    calendar.TradingCalendar
	finder Finder
}

func NewCalendarRollFinder(cal calendar.TradingCalendar, finder Finder) *CalendarRollFinder {
	return &CalendarRollFinder{
		cal:    cal,
		finder: finder,
	}
}

// ContractAt implements RollFinder.
func (f *CalendarRollFinder) ContractAt(root string, session time.Time, offset int) (string, error) {
	oc, err := f.finder.OrderedContracts(root)
	if err != nil {
		return "", err
	}

	contract, ok := oc.ContractAtOffset(session, offset)
	if !ok {
		return "", nil
	}

	return contract.Symbol, nil
}

// GetRolls implements RollFinder.
func (f *CalendarRollFinder) GetRolls(root string, start time.Time, end time.Time, offset int) ([]Roll, error) {
	if offset < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "roll offset must not be negative, got %d", offset)
	}

	oc, err := f.finder.OrderedContracts(root)
	if err != nil {
		return nil, err
	}

	sessions := f.cal.SessionsInRange(start, end)
	if len(sessions) == 0 {
		return nil, nil
	}

	symbolAt := func(session time.Time) string {
		contract, ok := oc.ContractAtOffset(session, offset)
		if !ok {
			return ""
		}

		return contract.Symbol
	}

	current := symbolAt(sessions[0])
	rolls := []Roll{{Symbol: current, Date: optional.None[time.Time]()}}

	for _, session := range sessions[1:] {
		next := symbolAt(session)
		if next == current {
			continue
		}

		rolls[len(rolls)-1].Date = optional.Some(session)
		rolls = append(rolls, Roll{Symbol: next, Date: optional.None[time.Time]()})
		current = next
	}

	return rolls, nil
}

// RollFinders maps roll styles to their finders.
type RollFinders map[types.RollStyle]RollFinder

// For returns the roll finder of a style, or a configuration error when none is registered.
func (r RollFinders) For(style types.RollStyle) (RollFinder, error) {
	finder, ok := r[style]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownRollStyle, "no roll finder registered for roll style %q", style)
	}

	return finder, nil
}
