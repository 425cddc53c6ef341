package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

const sampleConfig = `
version: "0.3"
database_path: bars.duckdb
bars_parquet: bars.parquet
events_database: events.duckdb
calendar:
  name: NYSE
  start: "2024-01-01"
  end: "2024-03-29"
  holidays: ["2024-01-01", "2024-01-15"]
prefetch_length: 20
first_trading_day: "2024-01-02"
log_level: debug
instruments:
  - symbol: AAPL
    kind: equity
    exchange: NASDAQ
  - symbol: CLF24
    kind: future
    root_symbol: CL
    tick_size: 0.01
    multiplier: 1000
    auto_close_date: "2024-01-19"
continuous_futures:
  - root_symbol: CL
    offset: 0
    roll_style: calendar
    adjustment_style: mul
`

func (suite *ConfigTestSuite) TestParse() {
	c, err := Parse([]byte(sampleConfig))
	suite.Require().NoError(err)

	suite.Equal("bars.duckdb", c.DatabasePath)
	suite.Equal(20, c.PrefetchLength)
	suite.Equal(1000, c.CacheSize, "unset fields keep their defaults")
	suite.Equal("debug", c.LogLevel)
	suite.Len(c.Instruments, 2)
	suite.Len(c.ContinuousFutures, 1)
	suite.Equal(types.RollStyleCalendar, c.ContinuousFutures[0].RollStyleOf())
}

func (suite *ConfigTestSuite) TestDefaults() {
	c, err := Parse([]byte(`
calendar:
  name: NYSE
  start: "2024-01-01"
  end: "2024-01-31"
`))
	suite.Require().NoError(err)

	suite.Equal(":memory:", c.DatabasePath)
	suite.Equal(40, c.PrefetchLength)
	suite.Equal(1000, c.CacheSize)
	suite.Equal("info", c.LogLevel)
}

func (suite *ConfigTestSuite) TestLoad() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(sampleConfig), 0o600))

	c, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal("NYSE", c.Calendar.Name)

	_, err = Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestInvalid() {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "calendar: [unterminated"},
		{"missing calendar", "database_path: x.duckdb"},
		{"bad date", `
calendar: {name: NYSE, start: "2024/01/01", end: "2024-01-31"}`},
		{"end before start", `
calendar: {name: NYSE, start: "2024-02-01", end: "2024-01-31"}`},
		{"negative prefetch", `
calendar: {name: NYSE, start: "2024-01-01", end: "2024-01-31"}
prefetch_length: -1`},
		{"zero cache", `
calendar: {name: NYSE, start: "2024-01-01", end: "2024-01-31"}
cache_size: 0`},
		{"unknown kind", `
calendar: {name: NYSE, start: "2024-01-01", end: "2024-01-31"}
instruments: [{symbol: X, kind: option}]`},
		{"future without root", `
calendar: {name: NYSE, start: "2024-01-01", end: "2024-01-31"}
instruments: [{symbol: CLF24, kind: future, auto_close_date: "2024-01-19"}]`},
		{"bad adjustment style", `
calendar: {name: NYSE, start: "2024-01-01", end: "2024-01-31"}
continuous_futures: [{root_symbol: CL, adjustment_style: div}]`},
		{"newer major version", `
version: "99.0"
calendar: {name: NYSE, start: "2024-01-01", end: "2024-01-31"}`},
		{"bad log level", `
calendar: {name: NYSE, start: "2024-01-01", end: "2024-01-31"}
log_level: trace`},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := Parse([]byte(tt.yaml))
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration), err.Error())
		})
	}
}

func (suite *ConfigTestSuite) TestBuildCalendar() {
	c, err := Parse([]byte(sampleConfig))
	suite.Require().NoError(err)

	cal, err := c.Calendar.Build()
	suite.Require().NoError(err)

	suite.Equal("NYSE", cal.Name())
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), cal.SessionAt(0))

	_, ok := cal.PositionOf(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	suite.False(ok, "holidays are not sessions")
}

func (suite *ConfigTestSuite) TestBuildInstruments() {
	c, err := Parse([]byte(sampleConfig))
	suite.Require().NoError(err)

	instruments, err := c.BuildInstruments()
	suite.Require().NoError(err)
	suite.Require().Len(instruments, 2)

	suite.Equal(types.KindEquity, instruments[0].Kind)
	suite.Nil(instruments[0].Future)

	cl := instruments[1]
	suite.Equal(types.KindFuture, cl.Kind)
	suite.Require().NotNil(cl.Future)
	suite.Equal("CL", cl.Future.RootSymbol)
	suite.Equal(time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC), cl.Future.AutoCloseDate)
	suite.Equal(0.01, cl.TickSize)
}

func (suite *ConfigTestSuite) TestFirstTradingDay() {
	c, err := Parse([]byte(sampleConfig))
	suite.Require().NoError(err)

	fallback := time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)

	day, err := c.FirstTradingDayOr(fallback)
	suite.NoError(err)
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), day)

	c.FirstTradingDay = ""
	day, err = c.FirstTradingDayOr(fallback)
	suite.NoError(err)
	suite.Equal(fallback, day)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	c := Default()

	schema, err := c.GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.Contains(schema, "argo-history-config")
	suite.Contains(schema, "prefetch_length")
	suite.Contains(schema, "continuous_futures")
}
