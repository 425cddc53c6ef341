package reader

import (
	"time"

	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

// blockSet accumulates bars into one fill-initialised block per field.
type blockSet struct {
	fields    []types.Field
	blocks    []*types.Block
	rowOf     map[time.Time]int
	columnsOf map[string][]int
}

func newBlockSet(fields []types.Field, sessions []time.Time, instruments []types.Instrument) (*blockSet, error) {
	for _, field := range fields {
		if !types.IsHistoryField(field) {
			return nil, errors.Newf(errors.ErrCodeInvalidField, "invalid field: %s", field)
		}
	}

	set := &blockSet{
		fields:    fields,
		blocks:    make([]*types.Block, len(fields)),
		rowOf:     make(map[time.Time]int, len(sessions)),
		columnsOf: make(map[string][]int, len(instruments)),
	}

	for i, field := range fields {
		set.blocks[i] = types.NewBlock(field, len(sessions), len(instruments))
	}

	for r, session := range sessions {
		set.rowOf[session] = r
	}

	for c, instrument := range instruments {
		set.columnsOf[instrument.Symbol] = append(set.columnsOf[instrument.Symbol], c)
	}

	return set, nil
}

// add stores a bar; bars on sessions outside the set or for unknown symbols are ignored.
func (s *blockSet) add(bar types.DailyBar) {
	r, ok := s.rowOf[types.NormalizeSession(bar.Session)]
	if !ok {
		return
	}

	for _, c := range s.columnsOf[bar.Symbol] {
		for i, field := range s.fields {
			if field.IsLabelField() {
				s.blocks[i].SetLabel(r, c, bar.Symbol)

				continue
			}

			value, _ := bar.Value(field)
			s.blocks[i].Set(r, c, value)
		}
	}
}
