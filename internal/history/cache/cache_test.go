package cache

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-history/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ExpiringCacheTestSuite struct {
	suite.Suite
}

func TestExpiringCacheSuite(t *testing.T) {
	suite.Run(t, new(ExpiringCacheTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func (suite *ExpiringCacheTestSuite) TestGetBeforeAndOnExpiry() {
	c, err := NewExpiringCache[string, int](10)
	suite.Require().NoError(err)

	c.Set("a", 1, day(10))

	v, ok := c.Get("a", day(5))
	suite.True(ok)
	suite.Equal(1, v)

	v, ok = c.Get("a", day(10))
	suite.True(ok)
	suite.Equal(1, v)
}

func (suite *ExpiringCacheTestSuite) TestExpiredEntryIsRemoved() {
	c, err := NewExpiringCache[string, int](10)
	suite.Require().NoError(err)

	c.Set("a", 1, day(10))

	_, ok := c.Get("a", day(11))
	suite.False(ok)
	suite.Equal(0, c.Len())

	// an earlier lookup does not resurrect it
	_, ok = c.Get("a", day(5))
	suite.False(ok)
}

func (suite *ExpiringCacheTestSuite) TestSetReplaces() {
	c, err := NewExpiringCache[string, int](10)
	suite.Require().NoError(err)

	c.Set("a", 1, day(10))
	c.Set("a", 2, day(20))

	v, ok := c.Get("a", day(15))
	suite.True(ok)
	suite.Equal(2, v)
	suite.Equal(1, c.Len())
}

func (suite *ExpiringCacheTestSuite) TestRecencyEviction() {
	c, err := NewExpiringCache[string, int](2)
	suite.Require().NoError(err)

	c.Set("a", 1, day(30))
	c.Set("b", 2, day(30))

	// touch a so b is the least recently used
	_, ok := c.Get("a", day(1))
	suite.True(ok)

	c.Set("c", 3, day(30))

	_, ok = c.Get("b", day(1))
	suite.False(ok)

	_, ok = c.Get("a", day(1))
	suite.True(ok)

	_, ok = c.Get("c", day(1))
	suite.True(ok)
}

func (suite *ExpiringCacheTestSuite) TestStructKeysAndPurge() {
	type key struct {
		symbol string
		size   int
		after  bool
	}

	c, err := NewExpiringCache[key, string](4)
	suite.Require().NoError(err)

	c.Set(key{"AAPL", 5, false}, "at", day(9))
	c.Set(key{"AAPL", 5, true}, "after", day(9))

	v, ok := c.Get(key{"AAPL", 5, true}, day(2))
	suite.True(ok)
	suite.Equal("after", v)

	c.Remove(key{"AAPL", 5, true})
	suite.Equal(1, c.Len())

	c.Purge()
	suite.Equal(0, c.Len())
}

func (suite *ExpiringCacheTestSuite) TestInvalidCapacity() {
	_, err := NewExpiringCache[string, int](0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
