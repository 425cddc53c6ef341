// Package history serves point-in-time adjusted history windows over a bar reader.
package history

import (
	"math"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-history/internal/adjustment"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/history/cache"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/reader"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/internal/window"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"go.uber.org/zap"
)

// defaultDecimalPlaces is used for every instrument without a tick size.
const defaultDecimalPlaces = 3

// Loader returns adjusted history for a contiguous run of sessions.
type Loader interface {
	// History returns a block of len(sessions) rows and one column per instrument,
	// in instrument order. With perspectiveAfter, adjustments effective on the
	// session after the last row are already applied.
	History(instruments []types.Instrument, sessions []time.Time, field types.Field, perspectiveAfter bool) (*types.Block, error)
	// AdjustedValue restates a raw value observed on session as it would appear
	// in a window ending at asOf, rounded the same way.
	AdjustedValue(instrument types.Instrument, session time.Time, asOf time.Time, field types.Field, perspectiveAfter bool, raw float64) (float64, error)
}

type windowKey struct {
	symbol           string
	size             int
	perspectiveAfter bool
}

// DailyHistoryLoader keeps one sliding window per (instrument, size, perspective)
// and field, and advances it as later sessions are requested.
type DailyHistoryLoader struct {
	reader reader.BarReader
	cal    calendar.TradingCalendar
	logger *logger.Logger

	finder            instrument.Finder
	rollFinders       instrument.RollFinders
	equityAdjustments adjustment.Provider
	rollAdjustments   adjustment.Provider

	prefetch  int
	cacheSize int
	caches    map[types.Field]*cache.ExpiringCache[windowKey, *window.SlidingWindow]

	// labels interns exchange symbols so they can share the numeric windows
	labels *types.LabelTable

	mu sync.Mutex
}

var _ Loader = (*DailyHistoryLoader)(nil)

func NewDailyHistoryLoader(r reader.BarReader, opts ...Option) (*DailyHistoryLoader, error) {
	l := &DailyHistoryLoader{
		reader:    r,
		cal:       r.Calendar(),
		prefetch:  DefaultPrefetchLength,
		cacheSize: DefaultCacheSize,
		caches:    make(map[types.Field]*cache.ExpiringCache[windowKey, *window.SlidingWindow]),
		labels:    types.NewLabelTable(),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = logger.NewNopLogger()
	}

	if l.prefetch < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "prefetch length must not be negative, got %d", l.prefetch)
	}

	if l.rollFinders != nil {
		l.rollAdjustments = adjustment.NewRollAdjustmentProvider(l.cal, l.finder, r, l.rollFinders)
	}

	for _, field := range types.LoaderFields {
		c, err := cache.NewExpiringCache[windowKey, *window.SlidingWindow](l.cacheSize)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid window cache size", err)
		}

		l.caches[field] = c
	}

	return l, nil
}

// History implements Loader.
func (l *DailyHistoryLoader) History(instruments []types.Instrument, sessions []time.Time, field types.Field, perspectiveAfter bool) (*types.Block, error) {
	if !types.IsLoaderField(field) {
		return nil, errors.Newf(errors.ErrCodeInvalidField, "invalid field for history loader: %s", field)
	}

	startLoc, err := l.locate(sessions)
	if err != nil {
		return nil, err
	}

	size := len(sessions)
	endLoc := startLoc + size - 1

	l.mu.Lock()
	defer l.mu.Unlock()

	windows, err := l.ensureWindows(instruments, field, startLoc, endLoc, size, perspectiveAfter)
	if err != nil {
		return nil, err
	}

	columns := make([][]float64, len(windows))
	for i, w := range windows {
		view, err := w.Get(endLoc)
		if err != nil {
			return nil, err
		}

		columns[i] = view
	}

	if !field.IsLabelField() {
		return types.ConcatColumns(field, columns)
	}

	out := types.NewBlock(field, size, len(columns))
	for c, column := range columns {
		labels := make([]string, len(column))
		for r, code := range column {
			labels[r] = l.labels.Label(code)
		}

		out.SetLabelColumn(c, labels)
	}

	return out, nil
}

// AdjustedValue implements Loader. It applies the adjustments a window ending
// at asOf would have applied to the row of session.
func (l *DailyHistoryLoader) AdjustedValue(
	inst types.Instrument,
	session time.Time,
	asOf time.Time,
	field types.Field,
	perspectiveAfter bool,
	raw float64,
) (float64, error) {
	if !types.IsLoaderField(field) || field.IsLabelField() {
		return 0, errors.Newf(errors.ErrCodeInvalidField, "invalid field for adjusted value: %s", field)
	}

	if math.IsNaN(raw) {
		return raw, nil
	}

	startLoc, ok := l.cal.PositionOf(types.NormalizeSession(session))
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s is not a session of %s",
			session.Format(time.DateOnly), l.cal.Name())
	}

	endLoc, ok := l.cal.PositionOf(types.NormalizeSession(asOf))
	if !ok || endLoc < startLoc {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s is not a session of %s on or after %s",
			asOf.Format(time.DateOnly), l.cal.Name(), session.Format(time.DateOnly))
	}

	visibleEnd := endLoc
	perspectiveOffset := 0

	if perspectiveAfter {
		perspectiveOffset = 1
		if visibleEnd+1 < l.cal.Len() {
			visibleEnd++
		}
	}

	adjustments, err := l.adjustmentsFor(inst, l.cal.Sessions()[startLoc:visibleEnd+1], field)
	if err != nil {
		return 0, err
	}

	value := []float64{raw}
	limit := endLoc - startLoc + 1 + perspectiveOffset

	for _, loc := range adjustments.Locations() {
		if loc >= limit {
			break
		}

		for _, adj := range adjustments[loc] {
			adj.Apply(value, 1)
		}
	}

	if places := l.decimalPlaces(inst, field, l.cal.SessionAt(endLoc)); places != window.NoRounding {
		return window.Round(value[0], places), nil
	}

	return value[0], nil
}

// locate returns the calendar location of the first session and checks that the
// sessions form a contiguous run of the calendar.
func (l *DailyHistoryLoader) locate(sessions []time.Time) (int, error) {
	if len(sessions) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "history requires at least one session")
	}

	startLoc, ok := l.cal.PositionOf(types.NormalizeSession(sessions[0]))
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s is not a session of %s",
			sessions[0].Format(time.DateOnly), l.cal.Name())
	}

	if startLoc+len(sessions) > l.cal.Len() {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "sessions run past the end of %s", l.cal.Name())
	}

	for i, session := range sessions {
		if !l.cal.SessionAt(startLoc + i).Equal(types.NormalizeSession(session)) {
			return 0, errors.Newf(errors.ErrCodeInvalidParameter, "sessions are not contiguous at %s",
				session.Format(time.DateOnly))
		}
	}

	return startLoc, nil
}

// ensureWindows returns a window per instrument that can serve endLoc,
// building the missing ones in one batch read.
func (l *DailyHistoryLoader) ensureWindows(
	instruments []types.Instrument,
	field types.Field,
	startLoc int,
	endLoc int,
	size int,
	perspectiveAfter bool,
) ([]*window.SlidingWindow, error) {
	c := l.caches[field]
	endDate := l.cal.SessionAt(endLoc)

	windows := make([]*window.SlidingWindow, len(instruments))
	built := make(map[string]*window.SlidingWindow)

	var (
		needed  []types.Instrument
		pending []int
	)

	for i, inst := range instruments {
		key := windowKey{symbol: inst.Symbol, size: size, perspectiveAfter: perspectiveAfter}

		if w, ok := c.Get(key, endDate); ok && w.MostRecentLoc() <= endLoc {
			windows[i] = w

			continue
		}

		pending = append(pending, i)

		if _, ok := built[inst.Symbol]; !ok {
			built[inst.Symbol] = nil
			needed = append(needed, inst)
		}
	}

	if len(needed) == 0 {
		return windows, nil
	}

	prefetchEnd := min(endLoc+l.prefetch, l.cal.Len()-1)

	l.logger.Debug("Building history windows",
		zap.String("field", string(field)),
		zap.Int("instruments", len(needed)),
		zap.Int("size", size),
		zap.Time("start", l.cal.SessionAt(startLoc)),
		zap.Time("prefetch_end", l.cal.SessionAt(prefetchEnd)),
		zap.Bool("perspective_after", perspectiveAfter),
	)

	blocks, err := l.reader.LoadRawArrays([]types.Field{field}, l.cal.SessionAt(startLoc), l.cal.SessionAt(prefetchEnd), needed)
	if err != nil {
		return nil, err
	}

	// adjustments on the session after the buffer are visible from its last row
	visibleEnd := prefetchEnd
	if perspectiveAfter && visibleEnd+1 < l.cal.Len() {
		visibleEnd++
	}

	visible := l.cal.Sessions()[startLoc : visibleEnd+1]

	perspectiveOffset := 0
	if perspectiveAfter {
		perspectiveOffset = 1
	}

	expiry := l.cal.SessionAt(prefetchEnd)

	for col, inst := range needed {
		var buffer []float64
		if field.IsLabelField() {
			buffer = l.labels.Encode(blocks[0].LabelColumn(col))
		} else {
			buffer = blocks[0].Column(col)
		}

		adjustments, err := l.adjustmentsFor(inst, visible, field)
		if err != nil {
			return nil, err
		}

		aw, err := window.NewAdjustedWindow(buffer, adjustments, 0, size, perspectiveOffset, l.decimalPlaces(inst, field, endDate))
		if err != nil {
			return nil, err
		}

		sw := window.NewSlidingWindow(aw, startLoc, 0)
		built[inst.Symbol] = sw

		c.Set(windowKey{symbol: inst.Symbol, size: size, perspectiveAfter: perspectiveAfter}, sw, expiry)
	}

	for _, i := range pending {
		windows[i] = built[instruments[i].Symbol]
	}

	return windows, nil
}

func (l *DailyHistoryLoader) adjustmentsFor(inst types.Instrument, visible []time.Time, field types.Field) (adjustment.Map, error) {
	var provider adjustment.Provider

	switch inst.Kind {
	case types.KindEquity:
		provider = l.equityAdjustments
	case types.KindContinuousFuture:
		provider = l.rollAdjustments
	}

	if provider == nil {
		return adjustment.Map{}, nil
	}

	return provider.AdjustmentsInRange(inst, visible, field)
}

// decimalPlaces returns the rounding of an instrument's views. Continuous
// futures round to the tick size of the contract with the next auto close
// as of the last requested session.
func (l *DailyHistoryLoader) decimalPlaces(inst types.Instrument, field types.Field, lastSession time.Time) int {
	if field.IsLabelField() {
		return window.NoRounding
	}

	switch inst.Kind {
	case types.KindFuture:
		if inst.TickSize > 0 {
			return window.DecimalPlaces(inst.TickSize)
		}
	case types.KindContinuousFuture:
		if l.finder == nil || inst.Continuous == nil {
			break
		}

		oc, err := l.finder.OrderedContracts(inst.Continuous.RootSymbol)
		if err != nil {
			l.logger.Warn("Failed to resolve contract chain for rounding",
				zap.String("symbol", inst.Symbol), zap.Error(err))

			break
		}

		if contract, ok := oc.ContractBeforeAutoClose(lastSession); ok && contract.TickSize > 0 {
			return window.DecimalPlaces(contract.TickSize)
		}
	}

	return defaultDecimalPlaces
}
