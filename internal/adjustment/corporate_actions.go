package adjustment

import (
	"time"

	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

type EventKind string

const (
	EventSplit    EventKind = "split"
	EventMerger   EventKind = "merger"
	EventDividend EventKind = "dividend"
)

// EventKinds lists the event kinds in the order they are applied at one location.
var EventKinds = []EventKind{EventSplit, EventMerger, EventDividend}

// Event is one corporate action. Ratio follows the multiplier convention:
// a 2:1 split has ratio 0.5, a dividend ratio is 1 - amount/close.
type Event struct {
	EffectiveDate time.Time
	Ratio         float64
}

// EventSource reads corporate actions of an instrument.
type EventSource interface {
	// GetAdjustmentsFor returns the events of one kind ordered by effective date.
	GetAdjustmentsFor(symbol string, kind EventKind) ([]Event, error)
}

// CorporateActionProvider converts split, merger and dividend events into adjustments.
type CorporateActionProvider struct {
	source EventSource
}

func NewCorporateActionProvider(source EventSource) *CorporateActionProvider {
	return &CorporateActionProvider{source: source}
}

// AdjustmentsInRange implements Provider.
//
// Events strictly after the first session and on or before the last one are
// located at the first session on or after their effective date, restating every
// earlier row. Volume only receives the reciprocal of split ratios.
func (p *CorporateActionProvider) AdjustmentsInRange(instrument types.Instrument, sessions []time.Time, field types.Field) (Map, error) {
	out := Map{}

	if len(sessions) == 0 || field == types.FieldOpenInterest || field.IsLabelField() {
		return out, nil
	}

	start, end := sessions[0], sessions[len(sessions)-1]

	for _, kind := range EventKinds {
		if field == types.FieldVolume && kind != EventSplit {
			continue
		}

		events, err := p.source.GetAdjustmentsFor(instrument.Symbol, kind)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeAdjustmentsFailed, err, "failed to read %s events for %s", kind, instrument.Symbol)
		}

		for _, event := range events {
			dt := types.NormalizeSession(event.EffectiveDate)
			if !dt.After(start) || dt.After(end) {
				continue
			}

			loc := searchSorted(sessions, dt)

			ratio := event.Ratio
			if field == types.FieldVolume {
				ratio = 1.0 / ratio
			}

			out.Add(loc, NewMultiply(loc-1, ratio))
		}
	}

	return out, nil
}

// StaticEventSource is an in-memory EventSource.
type StaticEventSource struct {
	events map[string]map[EventKind][]Event
}

func NewStaticEventSource() *StaticEventSource {
	return &StaticEventSource{events: make(map[string]map[EventKind][]Event)}
}

// Add records an event for symbol.
func (s *StaticEventSource) Add(symbol string, kind EventKind, effectiveDate time.Time, ratio float64) *StaticEventSource {
	if s.events[symbol] == nil {
		s.events[symbol] = make(map[EventKind][]Event)
	}

	s.events[symbol][kind] = append(s.events[symbol][kind], Event{EffectiveDate: effectiveDate, Ratio: ratio})

	return s
}

// GetAdjustmentsFor implements EventSource.
func (s *StaticEventSource) GetAdjustmentsFor(symbol string, kind EventKind) ([]Event, error) {
	return s.events[symbol][kind], nil
}
