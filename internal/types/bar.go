package types

import "time"

// DailyBar is one session of raw, unadjusted data for a symbol.
type DailyBar struct {
	Id           string    `csv:"id"`
	Symbol       string    `csv:"symbol"`
	Session      time.Time `csv:"session"`
	Open         float64   `csv:"open"`
	High         float64   `csv:"high"`
	Low          float64   `csv:"low"`
	Close        float64   `csv:"close"`
	Volume       float64   `csv:"volume"`
	OpenInterest float64   `csv:"open_interest"`
}

// Value returns the numeric value of a field. Label fields report false.
func (b DailyBar) Value(field Field) (float64, bool) {
	switch field {
	case FieldOpen:
		return b.Open, true
	case FieldHigh:
		return b.High, true
	case FieldLow:
		return b.Low, true
	case FieldClose, FieldPrice:
		return b.Close, true
	case FieldVolume:
		return b.Volume, true
	case FieldOpenInterest:
		return b.OpenInterest, true
	default:
		return 0, false
	}
}

// Traded reports whether any volume changed hands on the session.
func (b DailyBar) Traded() bool {
	return b.Volume > 0
}
