package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-history/internal/config"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/mocks"
	"github.com/rxtech-lab/argo-history/pkg/writer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func seedAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	bars, err := seedBars(cfg, int64(cmd.Int("seed")))
	if err != nil {
		return err
	}

	path, err := writeBars(writer.NewDuckDBWriter(cmd.String("output"), log), bars, progressbar.Default(int64(len(bars)), "writing bars"))
	if err != nil {
		return err
	}

	log.Info("Seeded bars", zap.String("path", path), zap.Int("bars", len(bars)))

	return nil
}

// seedBars generates one synthetic series per configured instrument over the
// sessions the instrument is alive for. Futures stop at their auto close date.
func seedBars(cfg *config.Config, seed int64) ([]types.DailyBar, error) {
	cal, err := cfg.Calendar.Build()
	if err != nil {
		return nil, err
	}

	instruments, err := cfg.BuildInstruments()
	if err != nil {
		return nil, err
	}

	generator := mocks.NewDataGenerator(seed)

	var bars []types.DailyBar

	for _, inst := range instruments {
		var sessions []time.Time

		for _, session := range cal.Sessions() {
			if !inst.IsAliveForSession(session) {
				continue
			}

			if inst.Future != nil && session.After(inst.Future.AutoCloseDate) {
				break
			}

			sessions = append(sessions, session)
		}

		gc := mocks.DefaultConfig(sessions)
		gc.Symbol = inst.Symbol
		gc.TickSize = inst.TickSize

		if inst.Kind == types.KindFuture {
			gc.VolumeBase = 50_000
			gc.OpenInterest = 200_000
		}

		bars = append(bars, generator.Generate(gc)...)
	}

	return bars, nil
}

// writeBars streams bars through w and reports progress on bar.
func writeBars(w writer.BarWriter, bars []types.DailyBar, bar *progressbar.ProgressBar) (path string, err error) {
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := w.Initialize(); err != nil {
		return "", err
	}

	for _, b := range bars {
		if err := w.Write(b); err != nil {
			return "", err
		}

		_ = bar.Add(1)
	}

	_ = bar.Finish()

	return w.Finalize()
}
