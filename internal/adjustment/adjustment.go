// Package adjustment turns corporate actions and futures rolls into
// position-indexed corrections over a prefetched bar buffer.
package adjustment

import (
	"fmt"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-history/internal/types"
)

type Kind int

const (
	// Multiply scales the affected rows by Value
	Multiply Kind = iota
	// Add shifts the affected rows by Value
	Add
)

func (k Kind) String() string {
	if k == Add {
		return "add"
	}

	return "mul"
}

// Adjustment restates rows [FirstRow, LastRow] of columns [FirstCol, LastCol].
// FirstRow is always 0: every row before an event is restated.
type Adjustment struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
	Value    float64
	Kind     Kind
}

// NewMultiply restates rows [0, lastRow] of a single-column buffer by factor.
func NewMultiply(lastRow int, factor float64) Adjustment {
	return Adjustment{FirstRow: 0, LastRow: lastRow, FirstCol: 0, LastCol: 0, Value: factor, Kind: Multiply}
}

// NewAdd shifts rows [0, lastRow] of a single-column buffer by delta.
func NewAdd(lastRow int, delta float64) Adjustment {
	return Adjustment{FirstRow: 0, LastRow: lastRow, FirstCol: 0, LastCol: 0, Value: delta, Kind: Add}
}

// Apply mutates a row-major buffer with cols columns in place.
// Rows past the end of the buffer are ignored.
func (a Adjustment) Apply(data []float64, cols int) {
	rows := len(data) / cols

	lastRow := min(a.LastRow, rows-1)
	lastCol := min(a.LastCol, cols-1)

	for r := a.FirstRow; r <= lastRow; r++ {
		for c := a.FirstCol; c <= lastCol; c++ {
			idx := r*cols + c
			if a.Kind == Add {
				data[idx] += a.Value
			} else {
				data[idx] *= a.Value
			}
		}
	}
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s(rows=[%d,%d], cols=[%d,%d], value=%g)", a.Kind, a.FirstRow, a.LastRow, a.FirstCol, a.LastCol, a.Value)
}

// Map groups adjustments by the buffer location at which they take effect.
// Lists keep insertion order, which is the order they are applied in.
type Map map[int][]Adjustment

// Add appends an adjustment at loc.
func (m Map) Add(loc int, adj Adjustment) {
	m[loc] = append(m[loc], adj)
}

// Locations returns the keys in ascending order.
func (m Map) Locations() []int {
	locs := make([]int, 0, len(m))
	for loc := range m {
		locs = append(locs, loc)
	}

	sort.Ints(locs)

	return locs
}

// Provider computes the adjustments of one instrument and field over a list of
// adjustment-visible sessions. Locations and rows index into sessions.
type Provider interface {
	AdjustmentsInRange(instrument types.Instrument, sessions []time.Time, field types.Field) (Map, error)
}

// searchSorted returns the position of the first session on or after t.
func searchSorted(sessions []time.Time, t time.Time) int {
	t = types.NormalizeSession(t)

	return sort.Search(len(sessions), func(i int) bool {
		return !sessions[i].Before(t)
	})
}
