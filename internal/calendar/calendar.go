package calendar

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-history/internal/types"
)

// TradingCalendar is an ordered, gap-free sequence of trading sessions.
// Sessions are UTC midnights; code refers to them by position for speed.
type TradingCalendar interface {
	// Name identifies the calendar, e.g. "NYSE"
	Name() string
	// Sessions returns every session of the calendar in order.
	Sessions() []time.Time
	// Len returns the number of sessions.
	Len() int
	// SessionsInRange returns the sessions in [start, end], both inclusive.
	SessionsInRange(start time.Time, end time.Time) []time.Time
	// PositionOf returns the position of an exact session.
	PositionOf(session time.Time) (int, bool)
	// SearchSorted returns the position of the first session on or after t.
	// It returns Len() when t is after the last session.
	SearchSorted(t time.Time) int
	// SessionAt returns the session at position pos.
	SessionAt(pos int) time.Time
	// PreviousSession returns the session immediately before session.
	PreviousSession(session time.Time) (time.Time, bool)
	// NextSession returns the session immediately after session.
	NextSession(session time.Time) (time.Time, bool)
	// Equal reports whether other describes the same session sequence.
	Equal(other TradingCalendar) bool
}

// SessionCalendar is an in-memory TradingCalendar.
type SessionCalendar struct {
	name     string
	sessions []time.Time
}

// NewSessionCalendar builds a calendar from an explicit session list.
// Sessions are normalised, sorted and deduplicated.
func NewSessionCalendar(name string, sessions []time.Time) *SessionCalendar {
	normalized := make([]time.Time, 0, len(sessions))
	for _, s := range sessions {
		normalized = append(normalized, types.NormalizeSession(s))
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Before(normalized[j])
	})

	normalized = slices.CompactFunc(normalized, func(a, b time.Time) bool {
		return a.Equal(b)
	})

	return &SessionCalendar{
		name:     name,
		sessions: normalized,
	}
}

// NewWeekdayCalendar builds a calendar of every Monday-Friday in [start, end]
// except the given holidays.
func NewWeekdayCalendar(name string, start time.Time, end time.Time, holidays []time.Time) *SessionCalendar {
	closed := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		closed[types.NormalizeSession(h)] = struct{}{}
	}

	var sessions []time.Time

	for day := types.NormalizeSession(start); !day.After(types.NormalizeSession(end)); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		if _, ok := closed[day]; ok {
			continue
		}

		sessions = append(sessions, day)
	}

	return &SessionCalendar{
		name:     name,
		sessions: sessions,
	}
}

// Name implements TradingCalendar.
func (c *SessionCalendar) Name() string {
	return c.name
}

// Sessions implements TradingCalendar.
func (c *SessionCalendar) Sessions() []time.Time {
	return c.sessions
}

// Len implements TradingCalendar.
func (c *SessionCalendar) Len() int {
	return len(c.sessions)
}

// SearchSorted implements TradingCalendar.
func (c *SessionCalendar) SearchSorted(t time.Time) int {
	target := types.NormalizeSession(t)

	return sort.Search(len(c.sessions), func(i int) bool {
		return !c.sessions[i].Before(target)
	})
}

// SessionsInRange implements TradingCalendar.
func (c *SessionCalendar) SessionsInRange(start time.Time, end time.Time) []time.Time {
	lo := c.SearchSorted(start)
	hi := sort.Search(len(c.sessions), func(i int) bool {
		return c.sessions[i].After(types.NormalizeSession(end))
	})

	if lo >= hi {
		return nil
	}

	return c.sessions[lo:hi]
}

// PositionOf implements TradingCalendar.
func (c *SessionCalendar) PositionOf(session time.Time) (int, bool) {
	pos := c.SearchSorted(session)
	if pos < len(c.sessions) && c.sessions[pos].Equal(types.NormalizeSession(session)) {
		return pos, true
	}

	return pos, false
}

// SessionAt implements TradingCalendar.
func (c *SessionCalendar) SessionAt(pos int) time.Time {
	return c.sessions[pos]
}

// PreviousSession implements TradingCalendar.
func (c *SessionCalendar) PreviousSession(session time.Time) (time.Time, bool) {
	pos := c.SearchSorted(session)
	if pos == 0 {
		return time.Time{}, false
	}

	return c.sessions[pos-1], true
}

// NextSession implements TradingCalendar.
func (c *SessionCalendar) NextSession(session time.Time) (time.Time, bool) {
	pos, exact := c.PositionOf(session)
	if exact {
		pos++
	}

	if pos >= len(c.sessions) {
		return time.Time{}, false
	}

	return c.sessions[pos], true
}

// Equal implements TradingCalendar.
func (c *SessionCalendar) Equal(other TradingCalendar) bool {
	if other == nil || c.name != other.Name() || c.Len() != other.Len() {
		return false
	}

	return slices.EqualFunc(c.sessions, other.Sessions(), func(a, b time.Time) bool {
		return a.Equal(b)
	})
}

func (c *SessionCalendar) String() string {
	if len(c.sessions) == 0 {
		return fmt.Sprintf("SessionCalendar(%s, empty)", c.name)
	}

	return fmt.Sprintf("SessionCalendar(%s, %s..%s, %d sessions)",
		c.name, c.sessions[0].Format(time.DateOnly), c.sessions[len(c.sessions)-1].Format(time.DateOnly), len(c.sessions))
}

// IsSubset reports whether every session of inner within [start, end] is also a session of outer.
func IsSubset(outer TradingCalendar, inner TradingCalendar, start time.Time, end time.Time) bool {
	for _, s := range inner.SessionsInRange(start, end) {
		if _, ok := outer.PositionOf(s); !ok {
			return false
		}
	}

	return true
}
