package service

import (
	"errors"
	"testing"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFormatAndParseDocumentNumber(t *testing.T) {
	assert.Equal(t, "ORD-20240115-0007", FormatDocumentNumber("ORD", "20240115", 7))
	assert.Equal(t, "SAL-20240115-12345", FormatDocumentNumber("SAL", "20240115", 12345))

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"ORD-20240115-0007", 7, true},
		{"SAL-20240115-10000", 10000, true},
		{"", 0, false},
		{"ORD-20240115-", 0, false},
		{"ORD-20240115-abc", 0, false},
	}
	for _, tc := range cases {
		n, ok := ParseDocumentSequence(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, n, tc.in)
	}
}

func TestNumberGenerator_RestartsEachDay(t *testing.T) {
	s := newMemStore()
	g := NewNumberGenerator("ORD", memSequences{s}, s.latestNumber)
	g.now = func() time.Time { return fixedNow }

	first, err := g.NextTx(nil)
	require.NoError(t, err)
	second, err := g.NextTx(nil)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240115-0001", first)
	assert.Equal(t, "ORD-20240115-0002", second)

	g.now = func() time.Time { return fixedNow.Add(24 * time.Hour) }
	next, err := g.NextTx(nil)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240116-0001", next)
}

func TestNumberGenerator_FloorsOnExistingNumbers(t *testing.T) {
	s := newMemStore()
	id := uuid.New()
	s.orders[id] = model.Order{ID: id, OrderNumber: "ORD-20240115-0041"}
	g := NewNumberGenerator("ORD", memSequences{s}, s.latestNumber)
	g.now = func() time.Time { return fixedNow }

	n, err := g.NextTx(nil)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240115-0042", n)
}

func TestNumberGenerator_GrowsPastFourDigits(t *testing.T) {
	s := newMemStore()
	s.foreignNumbers = []string{"SAL-20240115-9999"}
	g := NewNumberGenerator("SAL", memSequences{s}, s.latestNumber)
	g.now = func() time.Time { return fixedNow }

	n, err := g.NextTx(nil)
	require.NoError(t, err)
	assert.Equal(t, "SAL-20240115-10000", n)

	s.foreignNumbers = append(s.foreignNumbers, n)
	latest, err := s.latestNumber(nil, "SAL-20240115-")
	require.NoError(t, err)
	assert.Equal(t, "SAL-20240115-10000", latest)
}

func TestNumberGenerator_PropagatesLookupError(t *testing.T) {
	s := newMemStore()
	g := NewNumberGenerator("ORD", memSequences{s}, func(*gorm.DB, string) (string, error) {
		return "", errors.New("boom")
	})
	_, err := g.NextTx(nil)
	assert.ErrorContains(t, err, "read latest ORD number")
}
