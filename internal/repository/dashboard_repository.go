package repository

import (
	"context"
	"time"

	"github.com/Barmakyy/logistics-app/internal/db"
	"github.com/shopspring/decimal"
)

// DashboardRepository serves the admin dashboard's read-only aggregates.
// Each query is independent; the combined snapshot is read-committed, not
// transactional, which is accepted for dashboard use.
type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardTotals struct {
	TotalShipments      int64
	TotalCustomers      int64
	TotalRevenue        decimal.Decimal
	DeliverySuccessRate float64
}

func (r DashboardRepository) Totals(ctx context.Context) (DashboardTotals, error) {
	var t DashboardTotals
	var delivered int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM shipments),
			(SELECT COUNT(*) FROM shipments WHERE status='Delivered'),
			(SELECT COUNT(*) FROM users WHERE role='customer'),
			(SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='Completed')
	`).Scan(&t.TotalShipments, &delivered, &t.TotalCustomers, &t.TotalRevenue)
	if err != nil {
		return t, err
	}
	if t.TotalShipments > 0 {
		t.DeliverySuccessRate = float64(delivered) / float64(t.TotalShipments) * 100
	}
	return t, nil
}

type MonthStatusCount struct {
	Month  string // YYYY-MM
	Status string
	Count  int64
}

func (r DashboardRepository) ShipmentStatusByMonth(ctx context.Context, since time.Time) ([]MonthStatusCount, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, status, COUNT(*)
		FROM shipments
		WHERE created_at >= $1
		GROUP BY month, status
		ORDER BY month ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthStatusCount
	for rows.Next() {
		var m MonthStatusCount
		if err := rows.Scan(&m.Month, &m.Status, &m.Count); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type MonthCount struct {
	Month string // YYYY-MM
	Count int64
}

func (r DashboardRepository) CustomerGrowthByMonth(ctx context.Context, since time.Time) ([]MonthCount, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		FROM users
		WHERE role='customer' AND created_at >= $1
		GROUP BY month
		ORDER BY month ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthCount
	for rows.Next() {
		var m MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// RevenueByMonth sums completed payments per calendar month since the cutoff,
// for the dashboard revenue chart.
func (r DashboardRepository) RevenueByMonth(ctx context.Context, since time.Time) ([]MonthRevenue, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT to_char(transaction_date, 'YYYY-MM') AS month, COALESCE(SUM(amount),0)
		FROM payments
		WHERE status='Completed' AND transaction_date >= $1
		GROUP BY month
		ORDER BY month ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []MonthRevenue
	for rows.Next() {
		var p MonthRevenue
		if err := rows.Scan(&p.Month, &p.Revenue); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

type StatusCount struct {
	Name  string
	Value int64
}

func (r DashboardRepository) StatusDistribution(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM shipments GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StatusCount
	for rows.Next() {
		var s StatusCount
		if err := rows.Scan(&s.Name, &s.Value); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

type AgentDeliveries struct {
	Name       string
	Deliveries int64
}

func (r DashboardRepository) TopAgents(ctx context.Context, limit int) ([]AgentDeliveries, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT u.name, COUNT(*) AS deliveries
		FROM shipments s
		JOIN users u ON u.id = s.agent_id
		WHERE s.status='Delivered'
		GROUP BY u.id, u.name
		ORDER BY deliveries DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AgentDeliveries
	for rows.Next() {
		var a AgentDeliveries
		if err := rows.Scan(&a.Name, &a.Deliveries); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

type ActivityEntry struct {
	ID        int64
	Kind      string
	Text      string
	Timestamp time.Time
}

// RecentShipmentActivity lists the newest shipment creations with the
// booking customer's name.
func (r DashboardRepository) RecentShipmentActivity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT s.id, COALESCE(u.name, 'a customer'), s.created_at
		FROM shipments s
		LEFT JOIN users u ON u.id = s.customer_id
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var name string
		if err := rows.Scan(&e.ID, &name, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Kind = "shipment"
		e.Text = "New shipment created for " + name + "."
		items = append(items, e)
	}
	return items, rows.Err()
}

// RecentCustomerActivity lists the newest customer registrations.
func (r DashboardRepository) RecentCustomerActivity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, created_at
		FROM users
		WHERE role='customer'
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var name string
		if err := rows.Scan(&e.ID, &name, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Kind = "customer"
		e.Text = "New customer registered: " + name + "."
		items = append(items, e)
	}
	return items, rows.Err()
}
