package instrument

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type InstrumentTestSuite struct {
	suite.Suite
	cal    *calendar.SessionCalendar
	finder *InMemoryFinder
}

func TestInstrumentSuite(t *testing.T) {
	suite.Run(t, new(InstrumentTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func future(symbol string, autoClose time.Time) types.Instrument {
	return types.Instrument{
		Symbol:    symbol,
		Kind:      types.KindFuture,
		Exchange:  "NYMEX",
		TickSize:  0.01,
		StartDate: day(1),
		EndDate:   autoClose,
		Future:    &types.FutureDetail{RootSymbol: "CL", AutoCloseDate: autoClose},
	}
}

func (suite *InstrumentTestSuite) SetupTest() {
	suite.cal = calendar.NewWeekdayCalendar("TEST", day(1), day(31), []time.Time{day(1)})
	suite.finder = NewInMemoryFinder(
		types.Instrument{Symbol: "AAPL", Kind: types.KindEquity},
		types.Instrument{Symbol: "MSFT", Kind: types.KindEquity},
		future("CLH24", day(31)),
		future("CLF24", day(8)),
		future("CLG24", day(12)),
	)
}

func (suite *InstrumentTestSuite) TestRetrieveAllReportsEveryMissingSymbol() {
	instruments, err := suite.finder.RetrieveAll([]string{"MSFT", "AAPL"})
	suite.NoError(err)
	suite.Equal([]string{"MSFT", "AAPL"}, types.Symbols(instruments))

	_, err = suite.finder.RetrieveAll([]string{"AAPL", "XXX", "YYY"})
	suite.Error(err)
	suite.True(errors.IsSymbolsNotFound(err))

	var notFound *errors.SymbolsNotFoundError
	suite.True(errors.As(err, &notFound))
	suite.Equal([]string{"XXX", "YYY"}, notFound.Symbols)
}

func (suite *InstrumentTestSuite) TestRetrieve() {
	instrument, err := suite.finder.Retrieve("CLG24")
	suite.NoError(err)
	suite.Equal("CL", instrument.RootSymbol())

	_, err = suite.finder.Retrieve("ZZZ")
	suite.True(errors.IsSymbolsNotFound(err))
}

func (suite *InstrumentTestSuite) TestOrderedContracts() {
	oc, err := suite.finder.OrderedContracts("CL")
	suite.NoError(err)
	suite.Equal([]string{"CLF24", "CLG24", "CLH24"}, types.Symbols(oc.Contracts()))
	suite.Equal(day(1), oc.StartDate())
	suite.Equal(day(31), oc.EndDate())

	contract, ok := oc.ContractBeforeAutoClose(day(5))
	suite.True(ok)
	suite.Equal("CLF24", contract.Symbol)

	// the auto close date itself belongs to the next contract
	contract, ok = oc.ContractBeforeAutoClose(day(8))
	suite.True(ok)
	suite.Equal("CLG24", contract.Symbol)

	contract, ok = oc.ContractAtOffset(day(8), 1)
	suite.True(ok)
	suite.Equal("CLH24", contract.Symbol)

	_, ok = oc.ContractAtOffset(day(8), 2)
	suite.False(ok)

	_, err = suite.finder.OrderedContracts("NG")
	suite.True(errors.HasCode(err, errors.ErrCodeContractChainNotFound))
}

func (suite *InstrumentTestSuite) TestCreateContinuousFuture() {
	cf, err := suite.finder.CreateContinuousFuture("CL", 0, types.RollStyleCalendar, types.AdjustmentStyleMultiply)
	suite.NoError(err)
	suite.Equal("CL_0_calendar_mul", cf.Symbol)
	suite.Equal(types.KindContinuousFuture, cf.Kind)
	suite.Equal(0.01, cf.TickSize)

	stored, err := suite.finder.Retrieve(cf.Symbol)
	suite.NoError(err)
	suite.Equal(cf, stored)

	_, err = suite.finder.CreateContinuousFuture("CL", 0, types.RollStyleCalendar, types.AdjustmentStyle("div"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidAdjustmentStyle))
}

func (suite *InstrumentTestSuite) TestGetRolls() {
	rf := NewCalendarRollFinder(suite.cal, suite.finder)

	rolls, err := rf.GetRolls("CL", day(2), day(16), 0)
	suite.NoError(err)
	suite.Len(rolls, 3)

	suite.Equal("CLF24", rolls[0].Symbol)
	suite.Equal(day(8), rolls[0].Date.Unwrap())
	suite.Equal("CLG24", rolls[1].Symbol)
	suite.Equal(day(12), rolls[1].Date.Unwrap())
	suite.Equal("CLH24", rolls[2].Symbol)
	suite.True(rolls[2].Date.IsNone())

	rolls, err = rf.GetRolls("CL", day(9), day(10), 0)
	suite.NoError(err)
	suite.Len(rolls, 1)
	suite.Equal("CLG24", rolls[0].Symbol)

	rolls, err = rf.GetRolls("CL", day(2), day(9), 1)
	suite.NoError(err)
	suite.Equal([]string{"CLG24", "CLH24"}, []string{rolls[0].Symbol, rolls[1].Symbol})

	_, err = rf.GetRolls("CL", day(2), day(9), -1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *InstrumentTestSuite) TestContractAt() {
	rf := NewCalendarRollFinder(suite.cal, suite.finder)

	symbol, err := rf.ContractAt("CL", day(11), 0)
	suite.NoError(err)
	suite.Equal("CLG24", symbol)

	symbol, err = rf.ContractAt("CL", day(12), 1)
	suite.NoError(err)
	suite.Equal("", symbol)
}

func (suite *InstrumentTestSuite) TestRollFindersFor() {
	finders := RollFinders{types.RollStyleCalendar: NewCalendarRollFinder(suite.cal, suite.finder)}

	_, err := finders.For(types.RollStyleCalendar)
	suite.NoError(err)

	_, err = finders.For(types.RollStyle("volume"))
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownRollStyle))
}
