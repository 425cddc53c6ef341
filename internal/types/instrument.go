package types

import (
	"fmt"
	"time"
)

type InstrumentKind int

const (
	// KindUnknown is the zero value and never resolves to a reader
	KindUnknown InstrumentKind = iota
	// KindEquity is a listed equity, adjusted for corporate actions
	KindEquity
	// KindFuture is a single dated futures contract
	KindFuture
	// KindContinuousFuture is a specifier for a chain of futures contracts
	KindContinuousFuture
	// KindFixedIncome is a bond or bill
	KindFixedIncome
)

// AllInstrumentKinds lists every kind a reader can be registered for.
var AllInstrumentKinds = []InstrumentKind{
	KindEquity,
	KindFuture,
	KindContinuousFuture,
	KindFixedIncome,
}

func (k InstrumentKind) String() string {
	switch k {
	case KindEquity:
		return "equity"
	case KindFuture:
		return "future"
	case KindContinuousFuture:
		return "continuous_future"
	case KindFixedIncome:
		return "fixed_income"
	default:
		return "unknown"
	}
}

// ParseInstrumentKind converts the textual form produced by String back into a kind.
func ParseInstrumentKind(text string) (InstrumentKind, error) {
	for _, kind := range AllInstrumentKinds {
		if kind.String() == text {
			return kind, nil
		}
	}

	return KindUnknown, fmt.Errorf("unknown instrument kind: %q", text)
}

type RollStyle string

const (
	// RollStyleCalendar rolls to the next contract on the auto close date of the active one
	RollStyleCalendar RollStyle = "calendar"
)

type AdjustmentStyle string

const (
	// AdjustmentStyleNone leaves the spliced contract prices raw
	AdjustmentStyleNone AdjustmentStyle = ""
	// AdjustmentStyleMultiply scales prices before a roll by the ratio of the back and front closes
	AdjustmentStyleMultiply AdjustmentStyle = "mul"
	// AdjustmentStyleAdd shifts prices before a roll by the difference of the back and front closes
	AdjustmentStyleAdd AdjustmentStyle = "add"
)

// Valid reports whether the style is one of the supported adjustment styles.
func (s AdjustmentStyle) Valid() bool {
	switch s {
	case AdjustmentStyleNone, AdjustmentStyleMultiply, AdjustmentStyleAdd:
		return true
	default:
		return false
	}
}

// FutureDetail holds the fields only a dated futures contract carries.
type FutureDetail struct {
	RootSymbol    string
	AutoCloseDate time.Time
	DeliveryMonth string
}

// ContinuousDetail holds the coordinates of a continuous future chain.
type ContinuousDetail struct {
	RootSymbol string
	// Offset is the distance from the primary contract: 0 is the front, 1 the second, ...
	Offset          int
	RollStyle       RollStyle
	AdjustmentStyle AdjustmentStyle
}

// Instrument is the metadata of a tradable symbol.
// Exactly one of Future and Continuous is set for the corresponding kinds.
type Instrument struct {
	Symbol     string
	Kind       InstrumentKind
	Name       string
	Exchange   string
	TickSize   float64
	Multiplier float64
	StartDate  time.Time
	EndDate    time.Time

	Future     *FutureDetail
	Continuous *ContinuousDetail
}

// RootSymbol returns the chain root for futures and continuous futures, and "" otherwise.
func (i Instrument) RootSymbol() string {
	switch {
	case i.Future != nil:
		return i.Future.RootSymbol
	case i.Continuous != nil:
		return i.Continuous.RootSymbol
	default:
		return ""
	}
}

// IsAliveForSession reports whether the session falls inside the instrument's lifetime.
// Zero lifecycle bounds are treated as open.
func (i Instrument) IsAliveForSession(session time.Time) bool {
	if !i.StartDate.IsZero() && session.Before(i.StartDate) {
		return false
	}

	if !i.EndDate.IsZero() && session.After(i.EndDate) {
		return false
	}

	return true
}

func (i Instrument) String() string {
	if i.Continuous != nil {
		return fmt.Sprintf("ContinuousFuture(%s [%s, %d, %s, %s])",
			i.Symbol, i.Continuous.RootSymbol, i.Continuous.Offset, i.Continuous.RollStyle, i.Continuous.AdjustmentStyle)
	}

	return fmt.Sprintf("%s(%s)", i.Kind, i.Symbol)
}

// Symbols extracts the symbols of the instruments, preserving order.
func Symbols(instruments []Instrument) []string {
	out := make([]string, len(instruments))
	for i, instrument := range instruments {
		out[i] = instrument.Symbol
	}

	return out
}

// NormalizeSession truncates a timestamp to the UTC midnight used as session label.
func NormalizeSession(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
