package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidField, "invalid field")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidField, err.Code)
	suite.Equal("invalid field", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidFrequency, "invalid frequency: %s", "5m")
	suite.Equal(ErrCodeInvalidFrequency, err.Code)
	suite.Equal("invalid frequency: 5m", err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal(cause, err.Cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeDataNotFound, cause, "data not found for symbol: %s", "AAPL")
	suite.Equal("data not found for symbol: AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())

	wrapped := Wrap(ErrCodeDataNotFound, "data not found", errors.New("underlying error"))
	suite.Equal("[200] data not found: underlying error", wrapped.Error())
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeInvalidField, GetCode(New(ErrCodeInvalidField, "x")))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))

	wrapped := fmt.Errorf("outer: %w", New(ErrCodeCalendarMismatch, "calendars differ"))
	suite.Equal(ErrCodeCalendarMismatch, GetCode(wrapped))
	suite.True(HasCode(wrapped, ErrCodeCalendarMismatch))
	suite.False(HasCode(wrapped, ErrCodeInvalidField))
}

func (suite *ErrorTestSuite) TestNoDataOnDateError() {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	err := NewNoDataOnDateError("AAPL", date, "")
	suite.Equal("[203] no data for AAPL on 2024-03-01", err.Error())
	suite.True(IsNoDataOnDate(fmt.Errorf("read: %w", err)))
	suite.True(HasCode(err, ErrCodeNoDataOnDate))
	suite.False(IsNoDataOnDate(errors.New("other")))

	withReason := NewNoDataOnDateError("AAPL", date, "before first session")
	suite.Contains(withReason.Error(), "before first session")
}

func (suite *ErrorTestSuite) TestHistoryWindowStartsBeforeDataError() {
	first := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	suggested := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	err := NewHistoryWindowStartsBeforeDataError(first, 5, suggested)

	suite.Contains(err.Error(), "2024-01-02")
	suite.Contains(err.Error(), "2024-01-08")
	suite.True(IsHistoryWindowStartsBeforeData(err))
	suite.Equal(ErrCodeHistoryWindowStartsBeforeData, GetCode(err))

	var target *HistoryWindowStartsBeforeDataError
	suite.True(As(fmt.Errorf("wrapped: %w", err), &target))
	suite.Equal(suggested, target.SuggestedStartDay)
}

func (suite *ErrorTestSuite) TestSymbolsNotFoundError() {
	single := NewSymbolsNotFoundError([]string{"ZZZ"})
	suite.Equal("[300] no instrument found for symbol: ZZZ", single.Error())

	many := NewSymbolsNotFoundError([]string{"ZZZ", "YYY"})
	suite.Equal("[300] no instruments found for symbols: ZZZ, YYY", many.Error())
	suite.True(IsSymbolsNotFound(many))
	suite.False(IsInstrumentTypeNotFound(many))
}

func (suite *ErrorTestSuite) TestInstrumentTypeNotFoundError() {
	err := NewInstrumentTypeNotFoundError([]string{"T10Y"}, []string{"fixed_income"})
	suite.Contains(err.Error(), "fixed_income")
	suite.Contains(err.Error(), "T10Y")
	suite.True(IsInstrumentTypeNotFound(err))
	suite.Equal(ErrCodeInstrumentTypeNotFound, GetCode(err))
}
