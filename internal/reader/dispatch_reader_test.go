package reader_test

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/instrument"
	"github.com/rxtech-lab/argo-history/internal/reader"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/mocks"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DispatchBarReaderTestSuite struct {
	suite.Suite
	cal      *calendar.SessionCalendar
	finder   *instrument.InMemoryFinder
	equities *reader.InMemoryBarReader
	futures  *reader.InMemoryBarReader
	dispatch *reader.DispatchBarReader
}

func TestDispatchBarReaderSuite(t *testing.T) {
	suite.Run(t, new(DispatchBarReaderTestSuite))
}

func (suite *DispatchBarReaderTestSuite) SetupTest() {
	suite.cal = testCalendar()
	sessions := suite.cal.SessionsInRange(day(2), day(12))

	suite.finder = instrument.NewInMemoryFinder(
		equity("AAPL"), equity("MSFT"), equity("IBM"),
		future("CLF24", day(8)), future("CLG24", day(12)),
		types.Instrument{Symbol: "UST10", Kind: types.KindFixedIncome},
	)

	var equityBars []types.DailyBar
	equityBars = append(equityBars, barsOn("AAPL", sessions, 100)...)
	equityBars = append(equityBars, barsOn("MSFT", sessions, 200)...)
	equityBars = append(equityBars, barsOn("IBM", sessions, 300)...)
	suite.equities = reader.NewInMemoryBarReader(suite.cal, equityBars...)

	var futureBars []types.DailyBar
	futureBars = append(futureBars, barsOn("CLF24", sessions, 70)...)
	futureBars = append(futureBars, barsOn("CLG24", sessions[2:], 80)...)
	suite.futures = reader.NewInMemoryBarReader(suite.cal, futureBars...)

	var err error
	suite.dispatch, err = reader.NewDispatchBarReader(suite.cal, suite.finder,
		map[types.InstrumentKind]reader.BarReader{
			types.KindEquity: suite.equities,
			types.KindFuture: suite.futures,
		},
		optional.None[time.Time](), nil)
	suite.Require().NoError(err)
}

func (suite *DispatchBarReaderTestSuite) TestColumnsFollowCallerOrder() {
	instruments := []types.Instrument{
		equity("IBM"),
		future("CLG24", day(12)),
		equity("AAPL"),
		future("CLF24", day(8)),
		equity("MSFT"),
	}

	blocks, err := suite.dispatch.LoadRawArrays([]types.Field{types.FieldClose, types.FieldExchangeSymbol}, day(2), day(5), instruments)
	suite.Require().NoError(err)

	closes := blocks[0]
	suite.Equal(4, closes.Rows())
	suite.Equal(5, closes.Cols())

	suite.Equal([]float64{300, 301, 302, 303}, closes.Column(0))
	suite.Equal([]float64{100, 101, 102, 103}, closes.Column(2))
	suite.Equal([]float64{70, 71, 72, 73}, closes.Column(3))
	suite.Equal([]float64{200, 201, 202, 203}, closes.Column(4))

	clg := closes.Column(1)
	suite.True(math.IsNaN(clg[0]))
	suite.Equal(80.0, clg[2])

	suite.Equal([]string{"", "", "CLG24", "CLG24"}, blocks[1].LabelColumn(1))
}

func (suite *DispatchBarReaderTestSuite) TestResolvesKindThroughFinder() {
	blocks, err := suite.dispatch.LoadRawArrays([]types.Field{types.FieldClose}, day(2), day(2),
		[]types.Instrument{{Symbol: "MSFT"}, {Symbol: "CLF24"}})
	suite.Require().NoError(err)
	suite.Equal([]float64{200, 70}, blocks[0].Matrix()[0])
}

func (suite *DispatchBarReaderTestSuite) TestReportsEveryUnroutedInstrument() {
	_, err := suite.dispatch.LoadRawArrays([]types.Field{types.FieldClose}, day(2), day(5), []types.Instrument{
		equity("AAPL"),
		{Symbol: "UST10", Kind: types.KindFixedIncome},
		{Symbol: "CL_0_calendar", Kind: types.KindContinuousFuture},
	})
	suite.Error(err)
	suite.True(errors.IsInstrumentTypeNotFound(err))

	var notFound *errors.InstrumentTypeNotFoundError
	suite.Require().True(errors.As(err, &notFound))
	suite.Equal([]string{"UST10", "CL_0_calendar"}, notFound.Symbols)
}

func (suite *DispatchBarReaderTestSuite) TestRoutesSingleValueLookups() {
	value, err := suite.dispatch.GetValue(equity("AAPL"), day(3), types.FieldClose)
	suite.NoError(err)
	suite.Equal(101.0, value)

	value, err = suite.dispatch.GetValue(future("CLF24", day(8)), day(3), types.FieldClose)
	suite.NoError(err)
	suite.Equal(71.0, value)

	last, err := suite.dispatch.GetLastTradedDate(future("CLG24", day(12)), day(12))
	suite.NoError(err)
	suite.Equal(day(12), last.Unwrap())

	label, err := suite.dispatch.GetLabel(equity("IBM"), day(4))
	suite.NoError(err)
	suite.Equal("IBM", label)

	_, err = suite.dispatch.GetValue(types.Instrument{Symbol: "UST10", Kind: types.KindFixedIncome}, day(3), types.FieldClose)
	suite.True(errors.IsInstrumentTypeNotFound(err))
}

func (suite *DispatchBarReaderTestSuite) TestBounds() {
	suite.Equal(day(2), suite.dispatch.FirstTradingDay())
	suite.Equal(day(12), suite.dispatch.LastAvailableDate())

	capped, err := reader.NewDispatchBarReader(suite.cal, suite.finder,
		map[types.InstrumentKind]reader.BarReader{types.KindEquity: suite.equities},
		optional.Some(day(10)), nil)
	suite.Require().NoError(err)
	suite.Equal(day(10), capped.LastAvailableDate())
}

func (suite *DispatchBarReaderTestSuite) TestRejectsReaderOnOtherCalendar() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	other := calendar.NewWeekdayCalendar("OTHER", day(1), day(31), nil)

	mockReader := mocks.NewMockBarReader(ctrl)
	mockReader.EXPECT().Calendar().Return(other).AnyTimes()

	_, err := reader.NewDispatchBarReader(suite.cal, suite.finder,
		map[types.InstrumentKind]reader.BarReader{
			types.KindEquity: suite.equities,
			types.KindFuture: mockReader,
		},
		optional.None[time.Time](), nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCalendarMismatch))
}

func (suite *DispatchBarReaderTestSuite) TestPropagatesReaderErrors() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	mockReader := mocks.NewMockBarReader(ctrl)
	mockReader.EXPECT().Calendar().Return(suite.cal).AnyTimes()
	mockReader.EXPECT().
		LoadRawArrays(gomock.Any(), day(2), day(5), gomock.Any()).
		Return(nil, errors.New(errors.ErrCodeQueryFailed, "boom"))

	dispatch, err := reader.NewDispatchBarReader(suite.cal, suite.finder,
		map[types.InstrumentKind]reader.BarReader{types.KindEquity: mockReader},
		optional.None[time.Time](), nil)
	suite.Require().NoError(err)

	_, err = dispatch.LoadRawArrays([]types.Field{types.FieldClose}, day(2), day(5), []types.Instrument{equity("AAPL")})
	suite.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
}
