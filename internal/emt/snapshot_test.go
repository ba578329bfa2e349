package emt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestArrivalTimesAlwaysTwoEntries(t *testing.T) {
	snap := snapshotWithLines("27")

	t.Run("no estimates", func(t *testing.T) {
		got := snap.ArrivalTimes("27")
		require.Len(t, got, 2)
		assert.Nil(t, got[0])
		assert.Nil(t, got[1])
	})

	t.Run("one estimate", func(t *testing.T) {
		snap.Lines["27"].Arrivals = []*int{intPtr(4)}
		got := snap.ArrivalTimes("27")
		require.Len(t, got, 2)
		assert.Equal(t, 4, *got[0])
		assert.Nil(t, got[1])
	})

	t.Run("three estimates truncated", func(t *testing.T) {
		snap.Lines["27"].Arrivals = []*int{intPtr(1), intPtr(9), intPtr(21)}
		got := snap.ArrivalTimes("27")
		require.Len(t, got, 2)
		assert.Equal(t, 1, *got[0])
		assert.Equal(t, 9, *got[1])
	})

	t.Run("unknown line", func(t *testing.T) {
		got := snap.ArrivalTimes("N26")
		require.Len(t, got, 2)
		assert.Nil(t, got[0])
		assert.Nil(t, got[1])
	})
}

func TestLineInfoPadsEmptyDistance(t *testing.T) {
	snap := snapshotWithLines("27")

	info := snap.LineInfo("27")
	require.Len(t, info.Distance, 1)
	assert.Nil(t, info.Distance[0])
}

func TestLineInfoUnknownLinePlaceholder(t *testing.T) {
	snap := snapshotWithLines("27")

	info := snap.LineInfo("N26")
	assert.Nil(t, info.Destination)
	assert.Nil(t, info.Origin)
	assert.Nil(t, info.MaxFreq)
	assert.Nil(t, info.MinFreq)
	assert.Nil(t, info.StartTime)
	assert.Nil(t, info.EndTime)
	assert.Nil(t, info.DayType)
	assert.Equal(t, []*float64{nil}, info.Distance)
	assert.Equal(t, []*int{nil, nil}, info.Arrivals)
}

func TestCloneIsIndependent(t *testing.T) {
	snap := snapshotWithLines("27")
	stopID := "2782"
	snap.StopID = &stopID
	snap.Coordinates = []float64{-3.69, 40.42}
	snap.Lines["27"].Arrivals = []*int{intPtr(3)}
	snap.Lines["27"].Distance = []*float64{floatPtr(120)}

	clone := snap.Clone()

	// Mutating the original must not leak into the clone.
	snap.Lines["27"].Arrivals = []*int{}
	snap.Lines["27"].Distance = []*float64{}
	snap.Coordinates[0] = 0

	require.Contains(t, clone.Lines, "27")
	require.Len(t, clone.Lines["27"].Arrivals, 1)
	assert.Equal(t, 3, *clone.Lines["27"].Arrivals[0])
	require.Len(t, clone.Lines["27"].Distance, 1)
	assert.Equal(t, 120.0, *clone.Lines["27"].Distance[0])
	assert.Equal(t, -3.69, clone.Coordinates[0])
	assert.Equal(t, "2782", *clone.StopID)
}
