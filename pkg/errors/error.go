// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid fields, frequencies, bar counts and parameters
//   - Data/Resource errors (200-299): Missing bars, query failures, unavailable stores
//   - Instrument errors (300-399): Unresolvable symbols and instrument kinds
//   - History errors (400-499): Window bounds and window state errors
//   - Configuration errors (500-599): Fatal wiring errors detected at construction
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidField, "invalid field: foo")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to load bars", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeNoDataOnDate) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// Returns ErrCodeUnknown if no coded error is found in the chain.
func GetCode(err error) ErrorCode {
	var coded interface{ ErrorCode() ErrorCode }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}

	return ErrCodeUnknown
}

// ErrorCode returns the code of the error.
func (e *Error) ErrorCode() ErrorCode {
	return e.Code
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// NoDataOnDateError is returned by bar readers when an instrument has no bar
// for the requested session. Callers that expect gaps convert it into a fill value.
type NoDataOnDateError struct {
	Symbol string
	Date   time.Time
	Reason string
}

// NewNoDataOnDateError creates a new NoDataOnDateError.
func NewNoDataOnDateError(symbol string, date time.Time, reason string) *NoDataOnDateError {
	return &NoDataOnDateError{
		Symbol: symbol,
		Date:   date,
		Reason: reason,
	}
}

// Error implements the error interface.
func (e *NoDataOnDateError) Error() string {
	msg := fmt.Sprintf("[%d] no data for %s on %s", ErrCodeNoDataOnDate, e.Symbol, e.Date.Format(time.DateOnly))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// ErrorCode implements the coded error contract.
func (e *NoDataOnDateError) ErrorCode() ErrorCode {
	return ErrCodeNoDataOnDate
}

// IsNoDataOnDate checks if an error is a NoDataOnDateError.
func IsNoDataOnDate(err error) bool {
	var noData *NoDataOnDateError

	return errors.As(err, &noData)
}

// HistoryWindowStartsBeforeDataError is returned when a requested history
// window would begin before the first available trading day.
type HistoryWindowStartsBeforeDataError struct {
	FirstTradingDay   time.Time
	BarCount          int
	SuggestedStartDay time.Time
}

// NewHistoryWindowStartsBeforeDataError creates a new HistoryWindowStartsBeforeDataError.
func NewHistoryWindowStartsBeforeDataError(firstTradingDay time.Time, barCount int, suggestedStartDay time.Time) *HistoryWindowStartsBeforeDataError {
	return &HistoryWindowStartsBeforeDataError{
		FirstTradingDay:   firstTradingDay,
		BarCount:          barCount,
		SuggestedStartDay: suggestedStartDay,
	}
}

// Error implements the error interface.
func (e *HistoryWindowStartsBeforeDataError) Error() string {
	return fmt.Sprintf(
		"[%d] history window of %d bars extends before %s. To use this history window, start the backtest on or after %s",
		ErrCodeHistoryWindowStartsBeforeData,
		e.BarCount,
		e.FirstTradingDay.Format(time.DateOnly),
		e.SuggestedStartDay.Format(time.DateOnly),
	)
}

// ErrorCode implements the coded error contract.
func (e *HistoryWindowStartsBeforeDataError) ErrorCode() ErrorCode {
	return ErrCodeHistoryWindowStartsBeforeData
}

// IsHistoryWindowStartsBeforeData checks if an error is a HistoryWindowStartsBeforeDataError.
func IsHistoryWindowStartsBeforeData(err error) bool {
	var windowErr *HistoryWindowStartsBeforeDataError

	return errors.As(err, &windowErr)
}

// SymbolsNotFoundError lists every symbol of a batch that could not be resolved.
type SymbolsNotFoundError struct {
	Symbols []string
}

// NewSymbolsNotFoundError creates a new SymbolsNotFoundError.
func NewSymbolsNotFoundError(symbols []string) *SymbolsNotFoundError {
	return &SymbolsNotFoundError{Symbols: symbols}
}

// Error implements the error interface.
func (e *SymbolsNotFoundError) Error() string {
	if len(e.Symbols) == 1 {
		return fmt.Sprintf("[%d] no instrument found for symbol: %s", ErrCodeSymbolsNotFound, e.Symbols[0])
	}

	return fmt.Sprintf("[%d] no instruments found for symbols: %s", ErrCodeSymbolsNotFound, strings.Join(e.Symbols, ", "))
}

// ErrorCode implements the coded error contract.
func (e *SymbolsNotFoundError) ErrorCode() ErrorCode {
	return ErrCodeSymbolsNotFound
}

// IsSymbolsNotFound checks if an error is a SymbolsNotFoundError.
func IsSymbolsNotFound(err error) bool {
	var notFound *SymbolsNotFoundError

	return errors.As(err, &notFound)
}

// InstrumentTypeNotFoundError lists every symbol whose kind has no registered handler.
type InstrumentTypeNotFoundError struct {
	Symbols []string
	Kinds   []string
}

// NewInstrumentTypeNotFoundError creates a new InstrumentTypeNotFoundError.
func NewInstrumentTypeNotFoundError(symbols []string, kinds []string) *InstrumentTypeNotFoundError {
	return &InstrumentTypeNotFoundError{Symbols: symbols, Kinds: kinds}
}

// Error implements the error interface.
func (e *InstrumentTypeNotFoundError) Error() string {
	return fmt.Sprintf("[%d] no reader registered for instrument kinds [%s] of symbols: %s",
		ErrCodeInstrumentTypeNotFound, strings.Join(e.Kinds, ", "), strings.Join(e.Symbols, ", "))
}

// ErrorCode implements the coded error contract.
func (e *InstrumentTypeNotFoundError) ErrorCode() ErrorCode {
	return ErrCodeInstrumentTypeNotFound
}

// IsInstrumentTypeNotFound checks if an error is an InstrumentTypeNotFoundError.
func IsInstrumentTypeNotFound(err error) bool {
	var notFound *InstrumentTypeNotFoundError

	return errors.As(err, &notFound)
}
