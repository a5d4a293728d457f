package service

import (
	"context"
	"testing"
	"time"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	created  []repository.CreatePaymentParams
	payments map[int64]*domain.Payment
}

func (f *fakeLedger) Create(_ context.Context, p repository.CreatePaymentParams) (*domain.Payment, error) {
	f.created = append(f.created, p)
	return &domain.Payment{
		ID:        int64(len(f.created)),
		PaymentID: p.PaymentCode,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
	}, nil
}

func (f *fakeLedger) MarkCompleted(_ context.Context, id, customerID int64, at time.Time) (*domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok || p.CustomerID == nil || *p.CustomerID != customerID || p.Status != domain.PaymentPending {
		return nil, repository.ErrNotFound
	}
	p.Status = domain.PaymentCompleted
	p.TransactionDate = at
	return p, nil
}

type fakeShipmentLookup struct {
	byCode map[string]*domain.Shipment
}

func (f *fakeShipmentLookup) GetByShipmentCode(_ context.Context, code string) (*domain.Shipment, error) {
	s, ok := f.byCode[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func TestAdminCreateDefaultsAmountAndStatus(t *testing.T) {
	customerID := int64(5)
	ledger := &fakeLedger{}
	lookup := &fakeShipmentLookup{byCode: map[string]*domain.Shipment{
		"SHP1234567890": {ID: 1, ShipmentID: "SHP1234567890", CustomerID: &customerID, Cost: decimal.NewFromInt(75)},
	}}
	svc := PaymentService{Payments: ledger, Shipments: lookup}

	payment, err := svc.AdminCreate(context.Background(), AdminCreatePaymentInput{
		ShipmentCode: "SHP1234567890",
		Method:       domain.MethodCash,
	})
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(75)), "amount defaults to the shipment cost")
	assert.Equal(t, domain.PaymentCompleted, payment.Status, "status defaults to Completed")
	assert.Equal(t, domain.MethodCash, payment.Method)
}

func TestAdminCreateExplicitAmountWins(t *testing.T) {
	customerID := int64(5)
	ledger := &fakeLedger{}
	lookup := &fakeShipmentLookup{byCode: map[string]*domain.Shipment{
		"SHPAAAAAAAAAA": {ID: 1, ShipmentID: "SHPAAAAAAAAAA", CustomerID: &customerID, Cost: decimal.NewFromInt(75)},
	}}
	svc := PaymentService{Payments: ledger, Shipments: lookup}

	amount := decimal.NewFromInt(30)
	payment, err := svc.AdminCreate(context.Background(), AdminCreatePaymentInput{
		ShipmentCode: "SHPAAAAAAAAAA",
		Amount:       &amount,
		Method:       domain.MethodMpesa,
		Status:       domain.PaymentPending,
	})
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(amount))
	assert.Equal(t, domain.PaymentPending, payment.Status)
}

func TestAdminCreateUnknownShipment(t *testing.T) {
	svc := PaymentService{Payments: &fakeLedger{}, Shipments: &fakeShipmentLookup{byCode: map[string]*domain.Shipment{}}}

	_, err := svc.AdminCreate(context.Background(), AdminCreatePaymentInput{
		ShipmentCode: "SHPMISSING000",
		Method:       domain.MethodCard,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperr.HTTPStatus(err))
	assert.Equal(t, "Shipment with ID SHPMISSING000 not found", apperr.PublicMessage(err))
}

func TestAdminCreateRejectsBadMethod(t *testing.T) {
	svc := PaymentService{Payments: &fakeLedger{}, Shipments: &fakeShipmentLookup{}}
	_, err := svc.AdminCreate(context.Background(), AdminCreatePaymentInput{
		ShipmentCode: "SHPAAAAAAAAAA",
		Method:       "PayPal",
	})
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestPayIsOneShot(t *testing.T) {
	customerID := int64(9)
	ledger := &fakeLedger{payments: map[int64]*domain.Payment{
		1: {ID: 1, CustomerID: &customerID, Status: domain.PaymentPending, Amount: decimal.NewFromInt(20)},
	}}
	svc := PaymentService{Payments: ledger}

	payment, err := svc.Pay(context.Background(), 1, customerID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, payment.Status)

	_, err = svc.Pay(context.Background(), 1, customerID)
	require.Error(t, err, "an already settled payment cannot be paid again")
	assert.Equal(t, 404, apperr.HTTPStatus(err))
}

func TestPayForeignPaymentLooksMissing(t *testing.T) {
	ownerID := int64(9)
	ledger := &fakeLedger{payments: map[int64]*domain.Payment{
		1: {ID: 1, CustomerID: &ownerID, Status: domain.PaymentPending},
	}}
	svc := PaymentService{Payments: ledger}

	_, err := svc.Pay(context.Background(), 1, 999)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.HTTPStatus(err))
}
