package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// DashboardHandler assembles the admin dashboard snapshot in one response:
// headline metrics, the six-month charts and the recent activity feed.
type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.stats)
}

func (h DashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	buckets := lastMonths(6, time.Now())

	totals, err := h.Repo.Totals(ctx)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	statusByMonth, err := h.Repo.ShipmentStatusByMonth(ctx, buckets[0].Start)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	growth, err := h.Repo.CustomerGrowthByMonth(ctx, buckets[0].Start)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	revenue, err := h.Repo.RevenueByMonth(ctx, buckets[0].Start)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	distribution, err := h.Repo.StatusDistribution(ctx)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	topAgents, err := h.Repo.TopAgents(ctx, 5)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	activities, err := h.recentActivities(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"metrics": map[string]any{
			"totalShipments":      totals.TotalShipments,
			"totalCustomers":      totals.TotalCustomers,
			"totalRevenue":        totals.TotalRevenue,
			"deliverySuccessRate": totals.DeliverySuccessRate,
		},
		"charts": map[string]any{
			"shipmentsByMonth":   shipmentSeries(buckets, statusByMonth),
			"revenueData":        revenueSeries(buckets, revenue),
			"customerGrowth":     growthSeries(buckets, growth),
			"statusDistribution": distributionSeries(distribution),
			"topAgents":          agentSeries(topAgents),
		},
		"recentActivities": activities,
	})
}

// shipmentSeries pivots per-month status counts into one point per month,
// zero-filled across the window. Delayed rides in the pending bucket the
// same way the board groups it.
func shipmentSeries(buckets []monthBucket, rows []repository.MonthStatusCount) []map[string]any {
	type point struct{ delivered, inTransit, pending, cancelled int64 }
	byMonth := make(map[string]*point, len(buckets))
	for _, b := range buckets {
		byMonth[b.Key] = &point{}
	}
	for _, row := range rows {
		p, ok := byMonth[row.Month]
		if !ok {
			continue
		}
		switch row.Status {
		case "Delivered":
			p.delivered += row.Count
		case "In Transit":
			p.inTransit += row.Count
		case "Cancelled":
			p.cancelled += row.Count
		default: // Pending, Delayed
			p.pending += row.Count
		}
	}
	series := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		p := byMonth[b.Key]
		series = append(series, map[string]any{
			"month":     b.Label,
			"delivered": p.delivered,
			"inTransit": p.inTransit,
			"pending":   p.pending,
			"cancelled": p.cancelled,
		})
	}
	return series
}

func revenueSeries(buckets []monthBucket, rows []repository.MonthRevenue) []map[string]any {
	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row.Revenue
	}
	series := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		revenue := decimal.Zero
		if v, ok := byMonth[b.Key]; ok {
			revenue = v
		}
		series = append(series, map[string]any{
			"month":   b.Label,
			"revenue": revenue,
		})
	}
	return series
}

func growthSeries(buckets []monthBucket, rows []repository.MonthCount) []map[string]any {
	byMonth := make(map[string]int64, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row.Count
	}
	series := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, map[string]any{
			"month":     b.Label,
			"customers": byMonth[b.Key],
		})
	}
	return series
}

func distributionSeries(rows []repository.StatusCount) []map[string]any {
	series := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		series = append(series, map[string]any{
			"name":  row.Name,
			"value": row.Value,
		})
	}
	return series
}

func agentSeries(rows []repository.AgentDeliveries) []map[string]any {
	series := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		series = append(series, map[string]any{
			"name":       row.Name,
			"deliveries": row.Deliveries,
		})
	}
	return series
}

// recentActivities merges the newest shipment and customer events and keeps
// the four most recent overall.
func (h DashboardHandler) recentActivities(r *http.Request) ([]map[string]any, error) {
	shipments, err := h.Repo.RecentShipmentActivity(r.Context(), 3)
	if err != nil {
		return nil, err
	}
	customers, err := h.Repo.RecentCustomerActivity(r.Context(), 2)
	if err != nil {
		return nil, err
	}
	merged := append(shipments, customers...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if len(merged) > 4 {
		merged = merged[:4]
	}
	out := make([]map[string]any, 0, len(merged))
	for _, e := range merged {
		out = append(out, map[string]any{
			"id":        e.ID,
			"type":      e.Kind,
			"text":      e.Text,
			"timestamp": e.Timestamp,
		})
	}
	return out, nil
}
