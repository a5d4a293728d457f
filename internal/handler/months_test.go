package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastMonths(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	buckets := lastMonths(6, now)
	require.Len(t, buckets, 6)

	assert.Equal(t, "2025-10", buckets[0].Key)
	assert.Equal(t, "Oct", buckets[0].Label)
	assert.Equal(t, "2026-03", buckets[5].Key)
	assert.Equal(t, "Mar", buckets[5].Label)

	// buckets start on the first of the month so a repository cutoff at
	// buckets[0].Start includes the whole oldest month
	assert.Equal(t, 1, buckets[0].Start.Day())
}

func TestLastMonthsCrossesYearBoundary(t *testing.T) {
	now := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	buckets := lastMonths(6, now)
	assert.Equal(t, "2025-08", buckets[0].Key)
	assert.Equal(t, "2026-01", buckets[5].Key)
}
