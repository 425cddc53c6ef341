// Package writer persists daily bars in the layout the DuckDB bar reader expects.
package writer

import (
	"github.com/rxtech-lab/argo-history/internal/types"
)

// BarWriter defines the interface for writing daily bars to a destination.
type BarWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single bar.
	Write(bar types.DailyBar) error
	// Finalize completes the writing process and returns where the bars landed.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
