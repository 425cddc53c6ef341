package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/internal/window"
)

// DataGenerator generates synthetic daily bars for tests and fixtures.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	Symbol string
	// Sessions receive one bar each, in order
	Sessions []time.Time
	// InitialPrice is the open of the first bar
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the drift factor spread across the whole series
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// OpenInterest is copied onto every bar; futures fixtures set it
	OpenInterest float64
	// TickSize rounds every price; zero rounds to four decimals
	TickSize float64
}

// DefaultConfig returns a sensible default configuration over sessions.
func DefaultConfig(sessions []time.Time) GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		Sessions:       sessions,
		InitialPrice:   100.0,
		Volatility:     0.02,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates one bar per session following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.DailyBar {
	bars := make([]types.DailyBar, len(config.Sessions))
	currentPrice := config.InitialPrice

	places := 4
	if config.TickSize > 0 {
		places = window.DecimalPlaces(config.TickSize)
	}

	for i, session := range config.Sessions {
		open := currentPrice

		// Box-Muller
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(len(config.Sessions))

		close := open * (1 + config.Volatility*z + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.DailyBar{
			Id:           "",
			Symbol:       config.Symbol,
			Session:      types.NormalizeSession(session),
			Open:         window.Round(open, places),
			High:         window.Round(high, places),
			Low:          window.Round(low, places),
			Close:        window.Round(close, places),
			Volume:       math.Round(volume),
			OpenInterest: config.OpenInterest,
		}

		currentPrice = close
	}

	return bars
}

// GenerateMultiSymbol generates bars for every symbol over the same sessions.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.DailyBar {
	var all []types.DailyBar

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		all = append(all, g.Generate(config)...)
	}

	return all
}
