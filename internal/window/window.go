// Package window serves forward-only, adjustment-applied views over a
// prefetched single-instrument buffer.
package window

import (
	"math"

	"github.com/rxtech-lab/argo-history/internal/adjustment"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/shopspring/decimal"
)

// NoRounding disables rounding of window views.
const NoRounding = -1

// AdjustedWindow is a forward-only view of length size over a buffer.
//
// Adjustments keyed at a location are applied to the buffer in place the first
// time a view whose anchor plus perspective offset passes that location is
// requested, and are never applied again.
type AdjustedWindow struct {
	data              []float64
	adjustments       adjustment.Map
	locations         []int
	next              int
	size              int
	anchor            int
	perspectiveOffset int
	roundingPlaces    int
}

// NewAdjustedWindow copies buffer and prepares a window of length size.
// offset shifts the first anchor past the start of the buffer, perspectiveOffset
// makes adjustments visible that many rows early, and roundingPlaces
// (or NoRounding) controls the rounding of every view.
func NewAdjustedWindow(buffer []float64, adjustments adjustment.Map, offset int, size int, perspectiveOffset int, roundingPlaces int) (*AdjustedWindow, error) {
	if size <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "window size must be positive, got %d", size)
	}

	if offset < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "window offset must not be negative, got %d", offset)
	}

	data := make([]float64, len(buffer))
	copy(data, buffer)

	if adjustments == nil {
		adjustments = adjustment.Map{}
	}

	return &AdjustedWindow{
		data:              data,
		adjustments:       adjustments,
		locations:         adjustments.Locations(),
		next:              0,
		size:              size,
		anchor:            size + offset,
		perspectiveOffset: perspectiveOffset,
		roundingPlaces:    roundingPlaces,
	}, nil
}

// Seek moves the window so that it ends just before row target and returns
// a rounded copy of rows [target-size, target).
func (w *AdjustedWindow) Seek(target int) ([]float64, error) {
	if target < w.anchor {
		return nil, errors.Newf(errors.ErrCodeWindowRewind, "cannot seek window back from %d to %d", w.anchor, target)
	}

	if target > len(w.data) {
		return nil, errors.Newf(errors.ErrCodeWindowExhausted, "cannot seek window to %d past buffer of %d rows", target, len(w.data))
	}

	for w.next < len(w.locations) && w.locations[w.next] < target+w.perspectiveOffset {
		for _, adj := range w.adjustments[w.locations[w.next]] {
			adj.Apply(w.data, 1)
		}

		w.next++
	}

	w.anchor = target

	out := make([]float64, w.size)
	copy(out, w.data[target-w.size:target])

	if w.roundingPlaces != NoRounding {
		for i, v := range out {
			out[i] = Round(v, w.roundingPlaces)
		}
	}

	return out, nil
}

// Round rounds v half away from zero. NaN and infinities pass through.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}

// DecimalPlaces returns the number of decimal places of a tick size, e.g. 2 for 0.01.
func DecimalPlaces(tickSize float64) int {
	if tickSize <= 0 || math.IsNaN(tickSize) || math.IsInf(tickSize, 0) {
		return 0
	}

	exp := decimal.NewFromFloat(tickSize).Exponent()
	if exp >= 0 {
		return 0
	}

	return int(-exp)
}
