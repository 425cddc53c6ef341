package window

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-history/internal/adjustment"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type WindowTestSuite struct {
	suite.Suite
	closes []float64
	split  adjustment.Map
}

func TestWindowSuite(t *testing.T) {
	suite.Run(t, new(WindowTestSuite))
}

func (suite *WindowTestSuite) SetupTest() {
	suite.closes = []float64{100, 100, 102, 50, 51}
	// 2:1 split effective on the fourth row
	suite.split = adjustment.Map{3: {adjustment.NewMultiply(2, 0.5)}}
}

func (suite *WindowTestSuite) TestSplitRestatesPriorRows() {
	w, err := NewAdjustedWindow(suite.closes, suite.split, 0, 5, 0, 3)
	suite.Require().NoError(err)

	view, err := w.Seek(5)
	suite.NoError(err)
	suite.Equal([]float64{50, 50, 51, 50, 51}, view)
}

func (suite *WindowTestSuite) TestPerspectiveAtLeavesLastRowRaw() {
	w, err := NewAdjustedWindow(suite.closes, suite.split, 0, 3, 0, 3)
	suite.Require().NoError(err)

	view, err := w.Seek(3)
	suite.NoError(err)
	suite.Equal([]float64{100, 100, 102}, view)
}

func (suite *WindowTestSuite) TestPerspectiveAfterRestatesLastRow() {
	w, err := NewAdjustedWindow(suite.closes, suite.split, 0, 3, 1, 3)
	suite.Require().NoError(err)

	view, err := w.Seek(3)
	suite.NoError(err)
	suite.Equal([]float64{50, 50, 51}, view)
}

func (suite *WindowTestSuite) TestAdjustmentsAppliedOnce() {
	w, err := NewAdjustedWindow(suite.closes, suite.split, 0, 2, 0, 3)
	suite.Require().NoError(err)

	var previous []float64

	for target := 2; target <= 5; target++ {
		view, err := w.Seek(target)
		suite.Require().NoError(err)

		switch {
		case target == 4:
			// the split becomes visible and restates the first row of the view
			suite.Equal([]float64{51, 50}, view)
		case previous != nil:
			suite.Equal(previous[1], view[0])
		}

		previous = view
	}

	suite.Equal([]float64{50, 51}, previous)

	// seeking again to the same anchor does not re-apply
	view, err := w.Seek(5)
	suite.NoError(err)
	suite.Equal([]float64{50, 51}, view)
}

func (suite *WindowTestSuite) TestInputBufferNotMutated() {
	w, err := NewAdjustedWindow(suite.closes, suite.split, 0, 5, 0, 3)
	suite.Require().NoError(err)

	_, err = w.Seek(5)
	suite.NoError(err)
	suite.Equal([]float64{100, 100, 102, 50, 51}, suite.closes)
}

func (suite *WindowTestSuite) TestStackedAdjustments() {
	adjs := adjustment.Map{}
	adjs.Add(2, adjustment.NewMultiply(1, 0.5))
	adjs.Add(2, adjustment.NewAdd(1, 1))

	w, err := NewAdjustedWindow([]float64{10, 20, 30}, adjs, 0, 3, 0, NoRounding)
	suite.Require().NoError(err)

	view, err := w.Seek(3)
	suite.NoError(err)
	suite.Equal([]float64{6, 11, 30}, view)
}

func (suite *WindowTestSuite) TestSeekErrors() {
	w, err := NewAdjustedWindow(suite.closes, nil, 0, 2, 0, 3)
	suite.Require().NoError(err)

	_, err = w.Seek(4)
	suite.NoError(err)

	_, err = w.Seek(3)
	suite.True(errors.HasCode(err, errors.ErrCodeWindowRewind))

	_, err = w.Seek(6)
	suite.True(errors.HasCode(err, errors.ErrCodeWindowExhausted))

	_, err = NewAdjustedWindow(suite.closes, nil, 0, 0, 0, 3)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *WindowTestSuite) TestRounding() {
	suite.Equal(2.35, Round(2.345, 2))
	suite.Equal(-2.35, Round(-2.345, 2))
	suite.Equal(1.0, Round(0.9999999, 3))
	suite.True(math.IsNaN(Round(math.NaN(), 2)))
	suite.True(math.IsInf(Round(math.Inf(1), 2), 1))

	w, err := NewAdjustedWindow([]float64{3, 3}, adjustment.Map{1: {adjustment.NewMultiply(0, 1.0/3)}}, 0, 2, 0, 2)
	suite.Require().NoError(err)

	view, err := w.Seek(2)
	suite.NoError(err)
	suite.Equal([]float64{1, 3}, view)
}

func (suite *WindowTestSuite) TestDecimalPlaces() {
	suite.Equal(2, DecimalPlaces(0.01))
	suite.Equal(2, DecimalPlaces(0.25))
	suite.Equal(4, DecimalPlaces(0.0001))
	suite.Equal(0, DecimalPlaces(1))
	suite.Equal(0, DecimalPlaces(0))
}

func (suite *WindowTestSuite) TestSlidingWindowMapsCalendarLocations() {
	// the buffer starts at calendar location 10
	w, err := NewAdjustedWindow(suite.closes, suite.split, 0, 3, 0, 3)
	suite.Require().NoError(err)

	sliding := NewSlidingWindow(w, 10, 0)
	suite.Equal(-1, sliding.MostRecentLoc())

	view, err := sliding.Get(12)
	suite.NoError(err)
	suite.Equal([]float64{100, 100, 102}, view)
	suite.Equal(12, sliding.MostRecentLoc())

	again, err := sliding.Get(12)
	suite.NoError(err)
	suite.Same(&view[0], &again[0])

	view, err = sliding.Get(14)
	suite.NoError(err)
	suite.Equal([]float64{51, 50, 51}, view)

	_, err = sliding.Get(13)
	suite.True(errors.HasCode(err, errors.ErrCodeWindowRewind))
}
