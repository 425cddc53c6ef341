package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter       ErrorCode = 100
	ErrCodeInvalidConfiguration   ErrorCode = 101
	ErrCodeInvalidField           ErrorCode = 102
	ErrCodeInvalidFrequency       ErrorCode = 103
	ErrCodeInvalidAdjustmentStyle ErrorCode = 104
	ErrCodeInvalidBarCount        ErrorCode = 105
	ErrCodeMissingParameter       ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataOnDate          ErrorCode = 203
	ErrCodeAdjustmentsFailed     ErrorCode = 204

	// Instrument errors (300-399)
	ErrCodeSymbolsNotFound        ErrorCode = 300
	ErrCodeInstrumentTypeNotFound ErrorCode = 301
	ErrCodeContractChainNotFound  ErrorCode = 302

	// History errors (400-499)
	ErrCodeHistoryWindowStartsBeforeData ErrorCode = 400
	ErrCodeWindowRewind                  ErrorCode = 401
	ErrCodeWindowExhausted               ErrorCode = 402

	// Configuration errors (500-599)
	ErrCodeCalendarMismatch ErrorCode = 500
	ErrCodeUnknownRollStyle ErrorCode = 501
)
