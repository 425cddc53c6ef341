package reader

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"go.uber.org/zap"
)

// DispatchBarReader routes instruments to the reader registered for their kind
// and merges the results back into caller order.
type DispatchBarReader struct {
	cal           calendar.TradingCalendar
	finder        instrument.Finder
	readers       map[types.InstrumentKind]BarReader
	lastAvailable optional.Option[time.Time]
	logger        *logger.Logger
}

// NewDispatchBarReader fails with a calendar mismatch when any reader serves a
// calendar other than cal.
func NewDispatchBarReader(
	cal calendar.TradingCalendar,
	finder instrument.Finder,
	readers map[types.InstrumentKind]BarReader,
	lastAvailable optional.Option[time.Time],
	log *logger.Logger,
) (*DispatchBarReader, error) {
	for kind, r := range readers {
		if !r.Calendar().Equal(cal) {
			return nil, errors.Newf(errors.ErrCodeCalendarMismatch,
				"reader for %s serves calendar %s, expected %s", kind, r.Calendar().Name(), cal.Name())
		}
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DispatchBarReader{
		cal:           cal,
		finder:        finder,
		readers:       readers,
		lastAvailable: lastAvailable,
		logger:        log,
	}, nil
}

// Calendar implements BarReader.
func (d *DispatchBarReader) Calendar() calendar.TradingCalendar {
	return d.cal
}

// FirstTradingDay implements BarReader.
func (d *DispatchBarReader) FirstTradingDay() time.Time {
	var first time.Time

	for _, r := range d.readers {
		day := r.FirstTradingDay()
		if !day.IsZero() && (first.IsZero() || day.Before(first)) {
			first = day
		}
	}

	return first
}

// LastAvailableDate implements BarReader.
func (d *DispatchBarReader) LastAvailableDate() time.Time {
	if d.lastAvailable.IsSome() {
		return d.lastAvailable.Unwrap()
	}

	var last time.Time

	for _, r := range d.readers {
		if day := r.LastAvailableDate(); day.After(last) {
			last = day
		}
	}

	return last
}

// LoadRawArrays implements BarReader.
func (d *DispatchBarReader) LoadRawArrays(fields []types.Field, start time.Time, end time.Time, instruments []types.Instrument) ([]*types.Block, error) {
	partitions, err := d.partition(instruments)
	if err != nil {
		return nil, err
	}

	sessions := d.cal.SessionsInRange(start, end)

	out := make([]*types.Block, len(fields))
	for i, field := range fields {
		if !types.IsHistoryField(field) {
			return nil, errors.Newf(errors.ErrCodeInvalidField, "invalid field: %s", field)
		}

		out[i] = types.NewBlock(field, len(sessions), len(instruments))
	}

	for _, kind := range types.AllInstrumentKinds {
		positions, ok := partitions[kind]
		if !ok {
			continue
		}

		sub := make([]types.Instrument, len(positions))
		for i, pos := range positions {
			sub[i] = instruments[pos]
		}

		d.logger.Debug("Dispatching partition",
			zap.String("kind", kind.String()),
			zap.Int("instruments", len(sub)),
			zap.Int("sessions", len(sessions)),
		)

		blocks, err := d.readers[kind].LoadRawArrays(fields, start, end, sub)
		if err != nil {
			return nil, err
		}

		for i := range fields {
			if err := out[i].ScatterColumns(blocks[i], nil, positions); err != nil {
				return nil, errors.Wrapf(errors.ErrCodeCalendarMismatch, err, "reader for %s returned a misshaped %s block", kind, fields[i])
			}
		}
	}

	return out, nil
}

// GetValue implements BarReader.
func (d *DispatchBarReader) GetValue(inst types.Instrument, session time.Time, field types.Field) (float64, error) {
	r, err := d.readerFor(inst)
	if err != nil {
		return 0, err
	}

	return r.GetValue(inst, session, field)
}

// GetLastTradedDate implements BarReader.
func (d *DispatchBarReader) GetLastTradedDate(inst types.Instrument, session time.Time) (optional.Option[time.Time], error) {
	r, err := d.readerFor(inst)
	if err != nil {
		return optional.None[time.Time](), err
	}

	return r.GetLastTradedDate(inst, session)
}

// GetLabel implements BarReader.
func (d *DispatchBarReader) GetLabel(inst types.Instrument, session time.Time) (string, error) {
	r, err := d.readerFor(inst)
	if err != nil {
		return "", err
	}

	return r.GetLabel(inst, session)
}

// partition groups column positions by kind and reports every instrument
// whose kind has no reader in one error.
func (d *DispatchBarReader) partition(instruments []types.Instrument) (map[types.InstrumentKind][]int, error) {
	kinds := d.kinds(instruments)
	partitions := make(map[types.InstrumentKind][]int)

	var (
		missingSymbols []string
		missingKinds   []string
	)

	for pos, inst := range instruments {
		kind := kinds[pos]
		if _, ok := d.readers[kind]; !ok {
			missingSymbols = append(missingSymbols, inst.Symbol)
			missingKinds = append(missingKinds, kind.String())

			continue
		}

		partitions[kind] = append(partitions[kind], pos)
	}

	if len(missingSymbols) > 0 {
		return nil, errors.NewInstrumentTypeNotFoundError(missingSymbols, missingKinds)
	}

	return partitions, nil
}

// kinds resolves the kind of each instrument, asking the finder for instruments
// that do not carry one.
func (d *DispatchBarReader) kinds(instruments []types.Instrument) []types.InstrumentKind {
	out := make([]types.InstrumentKind, len(instruments))

	var unresolved []string

	for i, inst := range instruments {
		out[i] = inst.Kind
		if inst.Kind == types.KindUnknown {
			unresolved = append(unresolved, inst.Symbol)
		}
	}

	if len(unresolved) == 0 || d.finder == nil {
		return out
	}

	looked := d.finder.LookupKinds(unresolved)
	for i, inst := range instruments {
		if inst.Kind == types.KindUnknown {
			out[i] = looked[inst.Symbol]
		}
	}

	return out
}

func (d *DispatchBarReader) readerFor(inst types.Instrument) (BarReader, error) {
	kind := d.kinds([]types.Instrument{inst})[0]

	r, ok := d.readers[kind]
	if !ok {
		return nil, errors.NewInstrumentTypeNotFoundError([]string{inst.Symbol}, []string{kind.String()})
	}

	return r, nil
}
