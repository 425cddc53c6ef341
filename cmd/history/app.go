package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/adjustment"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/config"
	"github.com/rxtech-lab/argo-history/internal/history"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/portal"
	"github.com/rxtech-lab/argo-history/internal/reader"
	"github.com/rxtech-lab/argo-history/internal/types"
	"go.uber.org/zap"
)

// app holds everything a command needs to answer history requests.
type app struct {
	config   *config.Config
	calendar *calendar.SessionCalendar
	finder   *instrument.InMemoryFinder
	bars     *reader.DuckDBBarReader
	events   *adjustment.DuckDBEventSource
	portal   *portal.DataPortal
	logger   *logger.Logger
}

// newApp wires the readers, the loader and the portal described by cfg.
func newApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	cal, err := cfg.Calendar.Build()
	if err != nil {
		return nil, err
	}

	instruments, err := cfg.BuildInstruments()
	if err != nil {
		return nil, err
	}

	finder := instrument.NewInMemoryFinder(instruments...)

	for _, cf := range cfg.ContinuousFutures {
		if _, err := finder.CreateContinuousFuture(cf.RootSymbol, cf.Offset, cf.RollStyleOf(), types.AdjustmentStyle(cf.AdjustmentStyle)); err != nil {
			return nil, err
		}
	}

	bars, err := reader.NewDuckDBBarReader(cfg.DatabasePath, cal, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		config:   cfg,
		calendar: cal,
		finder:   finder,
		bars:     bars,
		logger:   log,
	}

	if cfg.BarsParquet != "" {
		err = bars.Initialize(cfg.BarsParquet)
	} else {
		err = bars.InitializeTable()
	}

	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	rollFinders := instrument.RollFinders{
		types.RollStyleCalendar: instrument.NewCalendarRollFinder(cal, finder),
	}

	readers := map[types.InstrumentKind]reader.BarReader{
		types.KindEquity:           bars,
		types.KindFuture:           bars,
		types.KindContinuousFuture: reader.NewContinuousFutureBarReader(bars, finder, rollFinders),
	}

	if cfg.FixedIncomeCalendar != nil {
		fixedIncome, err := a.fixedIncomeReader(*cfg.FixedIncomeCalendar)
		if err != nil {
			return nil, errors.Join(err, a.Close())
		}

		readers[types.KindFixedIncome] = fixedIncome
	}

	dispatch, err := reader.NewDispatchBarReader(cal, finder, readers, optional.None[time.Time](), log)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	opts := []history.Option{
		history.WithRollFinders(finder, rollFinders),
		history.WithPrefetchLength(cfg.PrefetchLength),
		history.WithCacheSize(cfg.CacheSize),
		history.WithLogger(log),
	}

	if cfg.EventsDatabase != "" {
		events, err := adjustment.NewDuckDBEventSource(cfg.EventsDatabase, log)
		if err != nil {
			return nil, errors.Join(err, a.Close())
		}

		a.events = events

		if err := events.Initialize(); err != nil {
			return nil, errors.Join(err, a.Close())
		}

		opts = append(opts, history.WithEquityAdjustments(events))
	} else {
		log.Info("No events database configured, equity history is unadjusted")
	}

	loader, err := history.NewDailyHistoryLoader(dispatch, opts...)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	firstTradingDay, err := cfg.FirstTradingDayOr(dispatch.FirstTradingDay())
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	a.portal = portal.NewDataPortal(cal, finder, dispatch, loader, firstTradingDay, portal.WithLogger(log))

	log.Debug("History service ready",
		zap.String("calendar", cal.Name()),
		zap.Int("sessions", cal.Len()),
		zap.Int("instruments", len(instruments)),
		zap.Int("continuous_futures", len(cfg.ContinuousFutures)),
		zap.Time("first_trading_day", firstTradingDay),
	)

	return a, nil
}

// fixedIncomeReader serves fixed income bars stored on their own calendar,
// reindexed onto the trading calendar.
func (a *app) fixedIncomeReader(cc config.CalendarConfig) (reader.BarReader, error) {
	fiCal, err := cc.Build()
	if err != nil {
		return nil, err
	}

	if fiCal.Len() == 0 {
		return nil, fmt.Errorf("fixed income calendar %s has no sessions", fiCal.Name())
	}

	inner := reader.NewDuckDBBarReaderFromDB(a.bars.DB(), fiCal, a.logger)
	if err := inner.Refresh(); err != nil {
		return nil, err
	}

	return reader.NewReindexBarReader(a.calendar, inner, fiCal.SessionAt(0), fiCal.SessionAt(fiCal.Len()-1))
}

// Close releases the databases opened by newApp.
func (a *app) Close() error {
	var errs []error

	if a.events != nil {
		errs = append(errs, a.events.Close())
	}

	if a.bars != nil {
		errs = append(errs, a.bars.Close())
	}

	return errors.Join(errs...)
}
