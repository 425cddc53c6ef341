package types

import (
	"math"
	"slices"
)

type Field string

const (
	FieldOpen         Field = "open"
	FieldHigh         Field = "high"
	FieldLow          Field = "low"
	FieldClose        Field = "close"
	FieldVolume       Field = "volume"
	FieldOpenInterest Field = "open_interest"
	// FieldPrice is the close, forward-filled across missing sessions
	FieldPrice Field = "price"
	// FieldExchangeSymbol is the contract label traded on a session
	FieldExchangeSymbol Field = "exchange_symbol"
)

// LoaderFields are the fields a history loader can window directly.
var LoaderFields = []Field{
	FieldOpen,
	FieldHigh,
	FieldLow,
	FieldClose,
	FieldVolume,
	FieldOpenInterest,
	FieldExchangeSymbol,
}

// HistoryFields are the fields accepted by a history request.
var HistoryFields = append(slices.Clone(LoaderFields), FieldPrice)

// IsLoaderField reports whether the field can be windowed by a loader.
func IsLoaderField(field Field) bool {
	return slices.Contains(LoaderFields, field)
}

// IsHistoryField reports whether the field can be requested from history.
func IsHistoryField(field Field) bool {
	return slices.Contains(HistoryFields, field)
}

// IsCountField reports whether missing values of the field are zero rather than NaN.
func (f Field) IsCountField() bool {
	return f == FieldVolume || f == FieldOpenInterest
}

// IsLabelField reports whether the field carries interned labels instead of numbers.
func (f Field) IsLabelField() bool {
	return f == FieldExchangeSymbol
}

// FillValue returns the value used for sessions without data.
func (f Field) FillValue() float64 {
	if f.IsCountField() || f.IsLabelField() {
		return 0
	}

	return math.NaN()
}
