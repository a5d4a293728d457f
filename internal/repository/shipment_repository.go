package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Barmakyy/logistics-app/internal/db"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ShipmentRepository struct {
	DB *db.Postgres
}

type CreateShipmentParams struct {
	ShipmentCode   string
	CustomerID     int64
	AgentID        *int64
	Origin         string
	Destination    string
	Status         domain.ShipmentStatus
	DispatchDate   time.Time
	Weight         float64
	PackageDetails string
	Cost           decimal.Decimal
}

type UpdateShipmentParams struct {
	Origin         *string
	Destination    *string
	Status         *domain.ShipmentStatus
	AgentID        *int64
	DispatchDate   *time.Time
	Weight         *float64
	PackageDetails *string
}

type ListShipmentsParams struct {
	Search     string
	Status     domain.ShipmentStatus
	CustomerID int64
	Page       int
	Limit      int
}

const shipmentColumns = `s.id, s.shipment_id, s.customer_id, COALESCE(u.name,''), s.agent_id,
	s.origin, s.destination, s.status, s.dispatch_date, s.weight, s.package_details, s.cost,
	s.created_at, s.updated_at`

func (r ShipmentRepository) Create(ctx context.Context, p CreateShipmentParams) (*domain.Shipment, error) {
	if p.Status == "" {
		p.Status = domain.ShipmentPending
	}
	if p.DispatchDate.IsZero() {
		p.DispatchDate = time.Now()
	}
	var id int64
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO shipments (shipment_id, customer_id, agent_id, origin, destination, status,
			dispatch_date, weight, package_details, cost)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`, p.ShipmentCode, p.CustomerID, p.AgentID, p.Origin, p.Destination, p.Status,
		p.DispatchDate, p.Weight, p.PackageDetails, p.Cost).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r ShipmentRepository) AddTrackingEvent(ctx context.Context, shipmentID int64, status domain.ShipmentStatus, location string, at time.Time) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO tracking_events (shipment_id, status, location, occurred_at)
		VALUES ($1,$2,$3,$4)
	`, shipmentID, status, location, at)
	return err
}

func (r ShipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	return r.getOne(ctx, `WHERE s.id=$1`, id)
}

// GetByShipmentCode looks up a shipment by its public SHP code.
func (r ShipmentRepository) GetByShipmentCode(ctx context.Context, code string) (*domain.Shipment, error) {
	return r.getOne(ctx, `WHERE s.shipment_id=$1`, code)
}

// GetForCustomer scopes the lookup to the owning customer; a shipment that
// exists but belongs to someone else is reported as missing.
func (r ShipmentRepository) GetForCustomer(ctx context.Context, id, customerID int64) (*domain.Shipment, error) {
	return r.getOne(ctx, `WHERE s.id=$1 AND s.customer_id=$2`, id, customerID)
}

func (r ShipmentRepository) getOne(ctx context.Context, where string, args ...any) (*domain.Shipment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+shipmentColumns+`
		FROM shipments s
		LEFT JOIN users u ON u.id = s.customer_id
		`+where, args...)
	s, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.loadTracking(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r ShipmentRepository) loadTracking(ctx context.Context, s *domain.Shipment) error {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, shipment_id, status, location, occurred_at
		FROM tracking_events
		WHERE shipment_id=$1
		ORDER BY occurred_at ASC, id ASC
	`, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.TrackingEvent
		var status string
		if err := rows.Scan(&e.ID, &e.ShipmentID, &status, &e.Location, &e.Timestamp); err != nil {
			return err
		}
		e.Status = domain.ShipmentStatus(status)
		s.TrackingHistory = append(s.TrackingHistory, e)
	}
	return rows.Err()
}

// List returns one page of shipments, newest first, plus the total count for
// the same filters. Search matches the shipment code or the customer's name.
func (r ShipmentRepository) List(ctx context.Context, p ListShipmentsParams) ([]domain.Shipment, int64, error) {
	where := `WHERE TRUE`
	var args []any
	if p.CustomerID != 0 {
		args = append(args, p.CustomerID)
		where += fmt.Sprintf(` AND s.customer_id=$%d`, len(args))
	}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		where += fmt.Sprintf(` AND (s.shipment_id ILIKE $%d OR COALESCE(u.name,'') ILIKE $%d)`, len(args), len(args))
	}
	if p.Status != "" {
		args = append(args, string(p.Status))
		where += fmt.Sprintf(` AND s.status=$%d`, len(args))
	}

	var total int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM shipments s
		LEFT JOIN users u ON u.id = s.customer_id
		`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, (p.Page-1)*p.Limit)
	rows, err := r.DB.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM shipments s
		LEFT JOIN users u ON u.id = s.customer_id
		%s
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $%d OFFSET $%d
	`, shipmentColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *s)
	}
	return items, total, rows.Err()
}

func (r ShipmentRepository) Update(ctx context.Context, id int64, p UpdateShipmentParams) (*domain.Shipment, error) {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE shipments SET
			origin          = COALESCE($2, origin),
			destination     = COALESCE($3, destination),
			status          = COALESCE($4, status),
			agent_id        = COALESCE($5, agent_id),
			dispatch_date   = COALESCE($6, dispatch_date),
			weight          = COALESCE($7, weight),
			package_details = COALESCE($8, package_details),
			updated_at      = now()
		WHERE id=$1
	`, id, p.Origin, p.Destination, (*string)(p.Status), p.AgentID, p.DispatchDate, p.Weight, p.PackageDetails)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r ShipmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM shipments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ShipmentSummary struct {
	Total     int64
	InTransit int64
	Delivered int64
	Pending   int64
	Cancelled int64
}

// Summary counts the whole collection; it never sees list filters.
// Pending groups Pending and Delayed, matching the admin board's buckets.
func (r ShipmentRepository) Summary(ctx context.Context) (ShipmentSummary, error) {
	var s ShipmentSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status='In Transit'),
			COUNT(*) FILTER (WHERE status='Delivered'),
			COUNT(*) FILTER (WHERE status IN ('Pending','Delayed')),
			COUNT(*) FILTER (WHERE status='Cancelled')
		FROM shipments
	`).Scan(&s.Total, &s.InTransit, &s.Delivered, &s.Pending, &s.Cancelled)
	return s, err
}

// CountDispatchedBetween counts shipments whose dispatch date falls in the window.
func (r ShipmentRepository) CountDispatchedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM shipments WHERE dispatch_date >= $1 AND dispatch_date <= $2
	`, from, to).Scan(&n)
	return n, err
}

// CountsByCustomer returns shipment counts keyed by customer id for the given ids.
func (r ShipmentRepository) CountsByCustomer(ctx context.Context, customerIDs []int64) (map[int64]int64, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT customer_id, COUNT(*)
		FROM shipments
		WHERE customer_id = ANY($1)
		GROUP BY customer_id
	`, customerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[int64]int64, len(customerIDs))
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// DeliveredCountsByAgent returns delivered-shipment counts keyed by agent id.
func (r ShipmentRepository) DeliveredCountsByAgent(ctx context.Context, agentIDs []int64) (map[int64]int64, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT agent_id, COUNT(*)
		FROM shipments
		WHERE status='Delivered' AND agent_id = ANY($1)
		GROUP BY agent_id
	`, agentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[int64]int64, len(agentIDs))
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

type CustomerShipmentStats struct {
	Total     int64
	Delivered int64
	Pending   int64
}

// StatsForCustomer buckets the customer's shipments; Pending groups every
// not-yet-delivered live state.
func (r ShipmentRepository) StatsForCustomer(ctx context.Context, customerID int64) (CustomerShipmentStats, error) {
	var s CustomerShipmentStats
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status='Delivered'),
			COUNT(*) FILTER (WHERE status IN ('Pending','In Transit','Delayed'))
		FROM shipments
		WHERE customer_id=$1
	`, customerID).Scan(&s.Total, &s.Delivered, &s.Pending)
	return s, err
}

// RecentForCustomer returns the customer's newest shipments without tracking history.
func (r ShipmentRepository) RecentForCustomer(ctx context.Context, customerID int64, limit int) ([]domain.Shipment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+shipmentColumns+`
		FROM shipments s
		LEFT JOIN users u ON u.id = s.customer_id
		WHERE s.customer_id=$1
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func scanShipment(row pgx.Row) (*domain.Shipment, error) {
	var (
		s      domain.Shipment
		status string
	)
	if err := row.Scan(
		&s.ID,
		&s.ShipmentID,
		&s.CustomerID,
		&s.CustomerName,
		&s.AgentID,
		&s.Origin,
		&s.Destination,
		&status,
		&s.DispatchDate,
		&s.Weight,
		&s.PackageDetails,
		&s.Cost,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Status = domain.ShipmentStatus(status)
	return &s, nil
}
