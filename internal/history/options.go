package history

import (
	"github.com/rxtech-lab/argo-history/internal/adjustment"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/logger"
)

const (
	// DefaultPrefetchLength is the number of sessions buffered past the requested end.
	DefaultPrefetchLength = 40
	// DefaultCacheSize is the number of windows kept per field.
	DefaultCacheSize = 1000
)

type Option func(*DailyHistoryLoader)

// WithEquityAdjustments adjusts equities for the corporate actions of source.
func WithEquityAdjustments(source adjustment.EventSource) Option {
	return func(l *DailyHistoryLoader) {
		l.equityAdjustments = adjustment.NewCorporateActionProvider(source)
	}
}

// WithRollFinders adjusts continuous futures across their rolls and rounds
// them to the tick size of their active contract.
func WithRollFinders(finder instrument.Finder, rollFinders instrument.RollFinders) Option {
	return func(l *DailyHistoryLoader) {
		l.finder = finder
		l.rollFinders = rollFinders
	}
}

func WithPrefetchLength(n int) Option {
	return func(l *DailyHistoryLoader) {
		l.prefetch = n
	}
}

func WithCacheSize(n int) Option {
	return func(l *DailyHistoryLoader) {
		l.cacheSize = n
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(l *DailyHistoryLoader) {
		l.logger = log
	}
}
