package reader_test

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/reader"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ReindexBarReaderTestSuite struct {
	suite.Suite
	target  *calendar.SessionCalendar
	sparse  *calendar.SessionCalendar
	inner   *reader.InMemoryBarReader
	reindex *reader.ReindexBarReader
}

func TestReindexBarReaderSuite(t *testing.T) {
	suite.Run(t, new(ReindexBarReaderTestSuite))
}

func (suite *ReindexBarReaderTestSuite) SetupTest() {
	suite.target = testCalendar()
	suite.sparse = calendar.NewWeekdayCalendar("SPARSE", day(1), day(31), []time.Time{day(1), day(15)})
	suite.inner = reader.NewInMemoryBarReader(suite.sparse, barsOn("BND", suite.sparse.SessionsInRange(day(8), day(19)), 50)...)

	var err error
	suite.reindex, err = reader.NewReindexBarReader(suite.target, suite.inner, day(2), day(31))
	suite.Require().NoError(err)
}

func (suite *ReindexBarReaderTestSuite) TestServesTargetCalendar() {
	suite.True(suite.reindex.Calendar().Equal(suite.target))
	suite.Equal(day(2), suite.reindex.FirstTradingDay())
	suite.Equal(day(31), suite.reindex.LastAvailableDate())
}

func (suite *ReindexBarReaderTestSuite) TestFillsSessionsMissingFromInnerCalendar() {
	bnd := types.Instrument{Symbol: "BND", Kind: types.KindFixedIncome}

	blocks, err := suite.reindex.LoadRawArrays([]types.Field{types.FieldClose, types.FieldVolume}, day(11), day(17), []types.Instrument{bnd})
	suite.Require().NoError(err)

	// 11, 12, 15, 16, 17
	closes := blocks[0].Column(0)
	suite.Require().Len(closes, 5)
	suite.Equal(53.0, closes[0])
	suite.Equal(54.0, closes[1])
	suite.True(math.IsNaN(closes[2]))
	suite.Equal(55.0, closes[3])
	suite.Equal(56.0, closes[4])

	suite.Equal([]float64{1000, 1000, 0, 1000, 1000}, blocks[1].Column(0))
}

func (suite *ReindexBarReaderTestSuite) TestRangeWithOnlyTargetSessions() {
	bnd := types.Instrument{Symbol: "BND", Kind: types.KindFixedIncome}

	blocks, err := suite.reindex.LoadRawArrays([]types.Field{types.FieldClose}, day(15), day(15), []types.Instrument{bnd})
	suite.Require().NoError(err)
	suite.Equal(1, blocks[0].Rows())
	suite.True(math.IsNaN(blocks[0].At(0, 0)))
}

func (suite *ReindexBarReaderTestSuite) TestGetValueFillsMissingData() {
	bnd := types.Instrument{Symbol: "BND", Kind: types.KindFixedIncome}

	value, err := suite.reindex.GetValue(bnd, day(9), types.FieldClose)
	suite.NoError(err)
	suite.Equal(51.0, value)

	value, err = suite.reindex.GetValue(bnd, day(3), types.FieldClose)
	suite.NoError(err)
	suite.True(math.IsNaN(value))

	value, err = suite.reindex.GetValue(bnd, day(3), types.FieldVolume)
	suite.NoError(err)
	suite.Equal(0.0, value)

	value, err = suite.reindex.GetValue(bnd, day(3), types.FieldOpenInterest)
	suite.NoError(err)
	suite.Equal(0.0, value)
}

func (suite *ReindexBarReaderTestSuite) TestRejectsSessionsOutsideTargetCalendar() {
	weekends := calendar.NewSessionCalendar("WEEKEND", []time.Time{day(5), day(6), day(8)})
	inner := reader.NewInMemoryBarReader(weekends)

	_, err := reader.NewReindexBarReader(suite.target, inner, day(2), day(31))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	// the weekend session is outside the served range
	_, err = reader.NewReindexBarReader(suite.target, inner, day(8), day(31))
	suite.NoError(err)
}

func (suite *ReindexBarReaderTestSuite) TestRequestsPastServedRangeAreClamped() {
	target := calendar.NewWeekdayCalendar("HOLIDAY", day(1), day(31), []time.Time{day(1), day(15)})
	inner := reader.NewInMemoryBarReader(testCalendar(), barsOn("BND", testCalendar().SessionsInRange(day(8), day(19)), 50)...)

	reindex, err := reader.NewReindexBarReader(target, inner, day(2), day(12))
	suite.Require().NoError(err)

	bnd := types.Instrument{Symbol: "BND", Kind: types.KindFixedIncome}

	// 11, 12, 16: the 15th of the inner calendar lies outside the served range
	blocks, err := reindex.LoadRawArrays([]types.Field{types.FieldClose}, day(11), day(16), []types.Instrument{bnd})
	suite.Require().NoError(err)

	closes := blocks[0].Column(0)
	suite.Require().Len(closes, 3)
	suite.Equal(53.0, closes[0])
	suite.Equal(54.0, closes[1])
	suite.True(math.IsNaN(closes[2]))

	blocks, err = reindex.LoadRawArrays([]types.Field{types.FieldClose}, day(11), day(15), []types.Instrument{bnd})
	suite.Require().NoError(err)
	suite.Equal([]float64{53, 54}, blocks[0].Column(0))
}
