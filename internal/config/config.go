// Package config loads the YAML configuration of the history service.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/history"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/internal/version"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of every date in the configuration.
const DateLayout = time.DateOnly

type CalendarConfig struct {
	Name     string   `yaml:"name" json:"name" jsonschema:"title=Name,description=Calendar name,required" validate:"required"`
	Start    string   `yaml:"start" json:"start" jsonschema:"title=Start,description=First day of the calendar,format=date,required" validate:"required,datetime=2006-01-02"`
	End      string   `yaml:"end" json:"end" jsonschema:"title=End,description=Last day of the calendar,format=date,required" validate:"required,datetime=2006-01-02"`
	Holidays []string `yaml:"holidays,omitempty" json:"holidays,omitempty" jsonschema:"title=Holidays,description=Weekdays without a session" validate:"dive,datetime=2006-01-02"`
}

type InstrumentConfig struct {
	Symbol        string  `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,required" validate:"required"`
	Kind          string  `yaml:"kind" json:"kind" jsonschema:"title=Kind,required,enum=equity,enum=future,enum=fixed_income" validate:"required,oneof=equity future fixed_income"`
	Name          string  `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"title=Name"`
	Exchange      string  `yaml:"exchange,omitempty" json:"exchange,omitempty" jsonschema:"title=Exchange"`
	TickSize      float64 `yaml:"tick_size,omitempty" json:"tick_size,omitempty" jsonschema:"title=Tick Size,minimum=0" validate:"gte=0"`
	Multiplier    float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty" jsonschema:"title=Multiplier,minimum=0" validate:"gte=0"`
	StartDate     string  `yaml:"start_date,omitempty" json:"start_date,omitempty" jsonschema:"title=Start Date,format=date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string  `yaml:"end_date,omitempty" json:"end_date,omitempty" jsonschema:"title=End Date,format=date" validate:"omitempty,datetime=2006-01-02"`
	RootSymbol    string  `yaml:"root_symbol,omitempty" json:"root_symbol,omitempty" jsonschema:"title=Root Symbol,description=Chain root of a futures contract" validate:"required_if=Kind future"`
	AutoCloseDate string  `yaml:"auto_close_date,omitempty" json:"auto_close_date,omitempty" jsonschema:"title=Auto Close Date,format=date" validate:"required_if=Kind future,omitempty,datetime=2006-01-02"`
}

type ContinuousFutureConfig struct {
	RootSymbol      string `yaml:"root_symbol" json:"root_symbol" jsonschema:"title=Root Symbol,required" validate:"required"`
	Offset          int    `yaml:"offset" json:"offset" jsonschema:"title=Offset,description=0 is the front contract,minimum=0" validate:"gte=0"`
	RollStyle       string `yaml:"roll_style" json:"roll_style" jsonschema:"title=Roll Style,enum=calendar" validate:"omitempty,oneof=calendar"`
	AdjustmentStyle string `yaml:"adjustment_style,omitempty" json:"adjustment_style,omitempty" jsonschema:"title=Adjustment Style,enum=,enum=mul,enum=add" validate:"omitempty,oneof=mul add"`
}

type Config struct {
	Version string `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Version,description=Lowest binary version able to read this file"`

	DatabasePath   string `yaml:"database_path" json:"database_path" jsonschema:"title=Database Path,description=DuckDB database holding the bars,required" validate:"required"`
	BarsParquet    string `yaml:"bars_parquet,omitempty" json:"bars_parquet,omitempty" jsonschema:"title=Bars Parquet,description=Parquet file of daily bars; the daily_bars table is used when empty"`
	EventsDatabase string `yaml:"events_database,omitempty" json:"events_database,omitempty" jsonschema:"title=Events Database,description=DuckDB database of splits and mergers and dividends"`

	Calendar            CalendarConfig  `yaml:"calendar" json:"calendar" jsonschema:"title=Calendar,required" validate:"required"`
	FixedIncomeCalendar *CalendarConfig `yaml:"fixed_income_calendar,omitempty" json:"fixed_income_calendar,omitempty" jsonschema:"title=Fixed Income Calendar,description=Calendar of the fixed income bars when it differs from the trading calendar" validate:"omitempty"`

	PrefetchLength  int    `yaml:"prefetch_length" json:"prefetch_length" jsonschema:"title=Prefetch Length,minimum=0,default=40" validate:"gte=0"`
	CacheSize       int    `yaml:"cache_size" json:"cache_size" jsonschema:"title=Cache Size,minimum=1,default=1000" validate:"gte=1"`
	FirstTradingDay string `yaml:"first_trading_day,omitempty" json:"first_trading_day,omitempty" jsonschema:"title=First Trading Day,format=date" validate:"omitempty,datetime=2006-01-02"`
	LogLevel        string `yaml:"log_level,omitempty" json:"log_level,omitempty" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error" validate:"omitempty,oneof=debug info warn error"`

	Instruments       []InstrumentConfig       `yaml:"instruments,omitempty" json:"instruments,omitempty" jsonschema:"title=Instruments" validate:"dive"`
	ContinuousFutures []ContinuousFutureConfig `yaml:"continuous_futures,omitempty" json:"continuous_futures,omitempty" jsonschema:"title=Continuous Futures" validate:"dive"`
}

// Default returns a configuration with the loader defaults filled in.
func Default() Config {
	return Config{
		DatabasePath:   ":memory:",
		PrefetchLength: history.DefaultPrefetchLength,
		CacheSize:      history.DefaultCacheSize,
		LogLevel:       "info",
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks field constraints and cross-field date ordering.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "incompatible config", err)
	}

	if _, err := c.Calendar.Build(); err != nil {
		return err
	}

	if c.FixedIncomeCalendar != nil {
		if _, err := c.FixedIncomeCalendar.Build(); err != nil {
			return err
		}
	}

	for _, cf := range c.ContinuousFutures {
		if !types.AdjustmentStyle(cf.AdjustmentStyle).Valid() {
			return errors.Newf(errors.ErrCodeInvalidAdjustmentStyle, "invalid adjustment style %q for %s", cf.AdjustmentStyle, cf.RootSymbol)
		}
	}

	return nil
}

// Build creates the weekday session calendar described by c.
func (c CalendarConfig) Build() (*calendar.SessionCalendar, error) {
	start, err := parseDate(c.Start)
	if err != nil {
		return nil, err
	}

	end, err := parseDate(c.End)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "calendar %s ends before it starts", c.Name)
	}

	holidays := make([]time.Time, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		day, err := parseDate(h)
		if err != nil {
			return nil, err
		}

		holidays = append(holidays, day)
	}

	return calendar.NewWeekdayCalendar(c.Name, start, end, holidays), nil
}

// BuildInstruments converts the instrument list into metadata records.
func (c *Config) BuildInstruments() ([]types.Instrument, error) {
	out := make([]types.Instrument, 0, len(c.Instruments))

	for _, ic := range c.Instruments {
		kind, err := types.ParseInstrumentKind(ic.Kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid instrument kind", err)
		}

		inst := types.Instrument{
			Symbol:     ic.Symbol,
			Kind:       kind,
			Name:       ic.Name,
			Exchange:   ic.Exchange,
			TickSize:   ic.TickSize,
			Multiplier: ic.Multiplier,
		}

		if inst.StartDate, err = parseOptionalDate(ic.StartDate); err != nil {
			return nil, err
		}

		if inst.EndDate, err = parseOptionalDate(ic.EndDate); err != nil {
			return nil, err
		}

		if kind == types.KindFuture {
			autoClose, err := parseDate(ic.AutoCloseDate)
			if err != nil {
				return nil, err
			}

			inst.Future = &types.FutureDetail{RootSymbol: ic.RootSymbol, AutoCloseDate: autoClose}
		}

		out = append(out, inst)
	}

	return out, nil
}

// FirstTradingDayOr returns the configured first trading day, or fallback.
func (c *Config) FirstTradingDayOr(fallback time.Time) (time.Time, error) {
	if c.FirstTradingDay == "" {
		return fallback, nil
	}

	return parseDate(c.FirstTradingDay)
}

// RollStyleOf returns the roll style of cf, defaulting to calendar rolls.
func (cf ContinuousFutureConfig) RollStyleOf() types.RollStyle {
	if cf.RollStyle == "" {
		return types.RollStyleCalendar
	}

	return types.RollStyle(cf.RollStyle)
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-history-config"
	schema.Description = "Configuration schema for the history service"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func parseDate(text string) (time.Time, error) {
	day, err := time.Parse(DateLayout, text)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid date %q", text)
	}

	return day, nil
}

func parseOptionalDate(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, nil
	}

	return parseDate(text)
}
