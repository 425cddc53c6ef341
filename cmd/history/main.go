package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-history/internal/config"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/portal"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/internal/version"
	"github.com/urfave/cli/v3"
)

var dateConfig = cli.TimestampConfig{
	Layouts: []string{time.DateOnly},
}

var configFlag = &cli.StringFlag{
	Name:     "config",
	Aliases:  []string{"c"},
	Usage:    "Path to the YAML configuration file",
	Required: true,
}

// openApp loads the configuration named by the config flag and wires the service.
func openApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return newApp(cfg, log)
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	cfg := config.Default()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func historyAction(_ context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	frame, err := a.portal.History(
		splitSymbols(cmd.String("symbols")),
		cmd.Timestamp("end"),
		int(cmd.Int("bars")),
		portal.Frequency(cmd.String("frequency")),
		types.Field(cmd.String("field")),
		portal.Frequency(cmd.String("data-frequency")),
	)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, renderFrame(frame))

	return err
}

func spotAction(_ context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := cmd.String("symbol")
	session := cmd.Timestamp("date")
	field := types.Field(cmd.String("field"))

	var text string

	if field.IsLabelField() {
		text, err = a.portal.GetSpotLabel(symbol, session)
	} else {
		var value float64

		value, err = a.portal.GetSpotValue(symbol, session, field)
		text = formatValue(value)
	}

	if err != nil {
		return err
	}

	lastTraded, ok, err := a.portal.GetLastTradedDate(symbol, session)
	if err != nil {
		return err
	}

	traded := "never"
	if ok {
		traded = lastTraded.Format(time.DateOnly)
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "%s %s on %s: %s (last traded %s)\n",
		symbol, field, session.Format(time.DateOnly), text, traded)

	return err
}

func splitSymbols(text string) []string {
	var symbols []string

	for _, symbol := range strings.Split(text, ",") {
		if symbol = strings.TrimSpace(symbol); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}

	return symbols
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "history",
		Usage:   "Query point-in-time daily history",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the configuration file",
				Action: schemaAction,
			},
			{
				Name:  "query",
				Usage: "Print a window of daily bars ending at a session",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "symbols",
						Aliases:  []string{"s"},
						Usage:    "Comma separated symbols, in output column order",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:     "end",
						Aliases:  []string{"e"},
						Usage:    "Last session of the window in `YYYY-MM-DD` format",
						Config:   dateConfig,
						Required: true,
					},
					&cli.IntFlag{
						Name:    "bars",
						Aliases: []string{"n"},
						Usage:   "Number of sessions in the window",
						Value:   10,
					},
					&cli.StringFlag{
						Name:    "field",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("Field to load (e.g., %s, %s, %s)", types.FieldClose, types.FieldPrice, types.FieldExchangeSymbol),
						Value:   string(types.FieldClose),
					},
					&cli.StringFlag{
						Name:  "frequency",
						Usage: "Bar frequency of the window",
						Value: string(portal.FrequencyDaily),
					},
					&cli.StringFlag{
						Name:  "data-frequency",
						Usage: fmt.Sprintf("Frequency of the simulation asking; %s sees adjustments effective on the next session", portal.FrequencyMinute),
						Value: string(portal.FrequencyDaily),
					},
				},
				Action: historyAction,
			},
			{
				Name:  "spot",
				Usage: "Print one field of one symbol on a session",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "symbol",
						Aliases:  []string{"s"},
						Required: true,
					},
					&cli.TimestampFlag{
						Name:     "date",
						Aliases:  []string{"d"},
						Usage:    "Session in `YYYY-MM-DD` format",
						Config:   dateConfig,
						Required: true,
					},
					&cli.StringFlag{
						Name:    "field",
						Aliases: []string{"f"},
						Value:   string(types.FieldClose),
					},
				},
				Action: spotAction,
			},
			{
				Name:  "browse",
				Usage: "Step through history windows interactively",
				Flags: []cli.Flag{
					configFlag,
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "First session to show in `YYYY-MM-DD` format. Defaults to the last calendar session.",
						Config:  dateConfig,
					},
					&cli.IntFlag{
						Name:    "bars",
						Aliases: []string{"n"},
						Usage:   "Number of sessions in the window",
						Value:   10,
					},
				},
				Action: browseAction,
			},
			{
				Name:  "serve",
				Usage: "Serve history and spot values over HTTP",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "address",
						Aliases: []string{"a"},
						Usage:   "Address to listen on",
						Value:   "127.0.0.1:8080",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "seed",
				Usage: "Write synthetic bars for the configured instruments to a parquet file",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Parquet file to write",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed of the generator",
						Value: 42,
					},
				},
				Action: seedAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
