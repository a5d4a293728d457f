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

type PaymentRepository struct {
	DB *db.Postgres
}

type CreatePaymentParams struct {
	PaymentCode     string
	ShipmentID      int64
	CustomerID      int64
	Amount          decimal.Decimal
	Method          domain.PaymentMethod
	Status          domain.PaymentStatus
	TransactionDate time.Time
}

type ListPaymentsParams struct {
	Search     string
	Status     domain.PaymentStatus
	CustomerID int64
	Page       int
	Limit      int
}

const paymentColumns = `p.id, p.payment_id, p.shipment_id, COALESCE(s.shipment_id,''),
	p.customer_id, COALESCE(u.name,''), p.amount, p.method, p.status, p.transaction_date,
	p.created_at, p.updated_at`

const paymentJoins = `
	FROM payments p
	LEFT JOIN shipments s ON s.id = p.shipment_id
	LEFT JOIN users u ON u.id = p.customer_id`

func (r PaymentRepository) Create(ctx context.Context, p CreatePaymentParams) (*domain.Payment, error) {
	if p.Status == "" {
		p.Status = domain.PaymentPending
	}
	if p.TransactionDate.IsZero() {
		p.TransactionDate = time.Now()
	}
	var id int64
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO payments (payment_id, shipment_id, customer_id, amount, method, status, transaction_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, p.PaymentCode, p.ShipmentID, p.CustomerID, p.Amount, p.Method, p.Status, p.TransactionDate).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	return r.getOne(ctx, `WHERE p.id=$1`, id)
}

func (r PaymentRepository) GetForCustomer(ctx context.Context, id, customerID int64) (*domain.Payment, error) {
	return r.getOne(ctx, `WHERE p.id=$1 AND p.customer_id=$2`, id, customerID)
}

func (r PaymentRepository) getOne(ctx context.Context, where string, args ...any) (*domain.Payment, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+paymentColumns+paymentJoins+` `+where, args...)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns one page of payments, most recent transaction first, plus the
// total for the same filters. Search matches payment code or customer name.
func (r PaymentRepository) List(ctx context.Context, p ListPaymentsParams) ([]domain.Payment, int64, error) {
	where := `WHERE TRUE`
	var args []any
	if p.CustomerID != 0 {
		args = append(args, p.CustomerID)
		where += fmt.Sprintf(` AND p.customer_id=$%d`, len(args))
	}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		where += fmt.Sprintf(` AND (p.payment_id ILIKE $%d OR COALESCE(u.name,'') ILIKE $%d)`, len(args), len(args))
	}
	if p.Status != "" {
		args = append(args, string(p.Status))
		where += fmt.Sprintf(` AND p.status=$%d`, len(args))
	}

	var total int64
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*)`+paymentJoins+` `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, (p.Page-1)*p.Limit)
	rows, err := r.DB.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s %s %s
		ORDER BY p.transaction_date DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, paymentColumns, paymentJoins, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Payment
	for rows.Next() {
		pay, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *pay)
	}
	return items, total, rows.Err()
}

// MarkCompleted flips a Pending payment owned by the customer to Completed
// and stamps the transaction time. Zero rows means the payment is missing,
// not owned, or not Pending; callers treat all three the same.
func (r PaymentRepository) MarkCompleted(ctx context.Context, id, customerID int64, at time.Time) (*domain.Payment, error) {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE payments
		SET status='Completed', transaction_date=$3, updated_at=now()
		WHERE id=$1 AND customer_id=$2 AND status='Pending'
	`, id, customerID, at)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

type PaymentSummary struct {
	TotalRevenue          decimal.Decimal
	PendingPayments       decimal.Decimal
	CompletedCount        int64
	FailedOrRefundedCount int64
}

func (r PaymentRepository) Summary(ctx context.Context) (PaymentSummary, error) {
	var s PaymentSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status='Completed'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status='Pending'), 0),
			COUNT(*) FILTER (WHERE status='Completed'),
			COUNT(*) FILTER (WHERE status IN ('Failed','Refunded'))
		FROM payments
	`).Scan(&s.TotalRevenue, &s.PendingPayments, &s.CompletedCount, &s.FailedOrRefundedCount)
	return s, err
}

type CustomerPaymentSummary struct {
	TotalPaid     decimal.Decimal
	PendingAmount decimal.Decimal
	PaymentCount  int64
}

func (r PaymentRepository) SummaryForCustomer(ctx context.Context, customerID int64) (CustomerPaymentSummary, error) {
	var s CustomerPaymentSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status='Completed'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status='Pending'), 0),
			COUNT(*)
		FROM payments
		WHERE customer_id=$1
	`, customerID).Scan(&s.TotalPaid, &s.PendingAmount, &s.PaymentCount)
	return s, err
}

type MonthRevenue struct {
	Month   string // YYYY-MM
	Revenue decimal.Decimal
}

// MonthlyRevenue sums completed payments per calendar month since the cutoff.
func (r PaymentRepository) MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthRevenue, error) {
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

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p      domain.Payment
		method string
		status string
	)
	if err := row.Scan(
		&p.ID,
		&p.PaymentID,
		&p.ShipmentID,
		&p.ShipmentCode,
		&p.CustomerID,
		&p.CustomerName,
		&p.Amount,
		&method,
		&status,
		&p.TransactionDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}
