package handler

import (
	"testing"
	"time"

	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentSeriesZeroFillsAndPivots(t *testing.T) {
	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	buckets := lastMonths(6, now)

	rows := []repository.MonthStatusCount{
		{Month: "2026-05", Status: "Delivered", Count: 4},
		{Month: "2026-05", Status: "Delayed", Count: 1},
		{Month: "2026-06", Status: "In Transit", Count: 2},
		{Month: "2025-01", Status: "Delivered", Count: 99}, // outside the window
	}
	series := shipmentSeries(buckets, rows)
	require.Len(t, series, 6)

	// quiet months still show up as zeros
	assert.Equal(t, "Jan", series[0]["month"])
	assert.Equal(t, int64(0), series[0]["delivered"])

	may := series[4]
	assert.Equal(t, "May", may["month"])
	assert.Equal(t, int64(4), may["delivered"])
	assert.Equal(t, int64(1), may["pending"], "delayed rides in the pending bucket")

	jun := series[5]
	assert.Equal(t, int64(2), jun["inTransit"])
}

func TestGrowthSeriesZeroFills(t *testing.T) {
	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	buckets := lastMonths(6, now)

	series := growthSeries(buckets, []repository.MonthCount{{Month: "2026-04", Count: 7}})
	require.Len(t, series, 6)
	assert.Equal(t, int64(0), series[0]["customers"])
	assert.Equal(t, int64(7), series[3]["customers"])
}

func TestRevenueSeriesZeroFills(t *testing.T) {
	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	buckets := lastMonths(6, now)

	series := revenueSeries(buckets, []repository.MonthRevenue{
		{Month: "2026-02", Revenue: decimal.NewFromInt(120)},
		{Month: "2026-06", Revenue: decimal.NewFromFloat(45.5)},
	})
	require.Len(t, series, 6)

	assert.Equal(t, "Jan", series[0]["month"])
	assert.True(t, series[0]["revenue"].(decimal.Decimal).IsZero())
	assert.True(t, series[1]["revenue"].(decimal.Decimal).Equal(decimal.NewFromInt(120)))
	assert.True(t, series[5]["revenue"].(decimal.Decimal).Equal(decimal.NewFromFloat(45.5)))
}

func TestAgentRating(t *testing.T) {
	assert.Equal(t, 3.5, agentRating(0))
	assert.Equal(t, 7.5, agentRating(4))
	assert.Equal(t, 3.5, agentRating(5), "rating wraps with the delivery count")
	assert.Equal(t, 5.5, agentRating(12))
}
