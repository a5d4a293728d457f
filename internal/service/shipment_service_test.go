package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShipments struct {
	created  []repository.CreateShipmentParams
	tracking []domain.TrackingEvent
	nextID   int64
}

func (f *fakeShipments) Create(_ context.Context, p repository.CreateShipmentParams) (*domain.Shipment, error) {
	f.created = append(f.created, p)
	f.nextID++
	return &domain.Shipment{
		ID:           f.nextID,
		ShipmentID:   p.ShipmentCode,
		CustomerID:   &p.CustomerID,
		Origin:       p.Origin,
		Destination:  p.Destination,
		Status:       p.Status,
		DispatchDate: p.DispatchDate,
		Weight:       p.Weight,
		Cost:         p.Cost,
	}, nil
}

func (f *fakeShipments) AddTrackingEvent(_ context.Context, shipmentID int64, status domain.ShipmentStatus, location string, at time.Time) error {
	f.tracking = append(f.tracking, domain.TrackingEvent{
		ShipmentID: shipmentID, Status: status, Location: location, Timestamp: at,
	})
	return nil
}

func (f *fakeShipments) GetForCustomer(_ context.Context, id, customerID int64) (*domain.Shipment, error) {
	return nil, repository.ErrNotFound
}

type fakePayments struct {
	created []repository.CreatePaymentParams
	fail    bool
}

func (f *fakePayments) Create(_ context.Context, p repository.CreatePaymentParams) (*domain.Payment, error) {
	if f.fail {
		return nil, errors.New("payments table unavailable")
	}
	f.created = append(f.created, p)
	return &domain.Payment{ID: int64(len(f.created)), PaymentID: p.PaymentCode, Amount: p.Amount, Status: p.Status, Method: p.Method}, nil
}

type fakeNotifications struct {
	created []domain.Notification
}

func (f *fakeNotifications) Create(_ context.Context, userID int64, text, link string) (*domain.Notification, error) {
	n := domain.Notification{ID: int64(len(f.created) + 1), UserID: userID, Text: text, Link: link}
	f.created = append(f.created, n)
	return &n, nil
}

type fakeAdminLister struct {
	admins   []domain.User
	customer *domain.User
}

func (f *fakeAdminLister) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	if role == domain.RoleAdmin {
		return f.admins, nil
	}
	return nil, nil
}

func (f *fakeAdminLister) FindCustomerByName(_ context.Context, name string) (*domain.User, error) {
	if f.customer != nil && f.customer.Name == name {
		return f.customer, nil
	}
	return nil, repository.ErrNotFound
}

func newShipmentService(s *fakeShipments, p *fakePayments, n *fakeNotifications, u *fakeAdminLister) ShipmentService {
	return ShipmentService{
		Shipments:     s,
		Payments:      p,
		Notifications: n,
		Users:         u,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestBookCreatesShipmentPaymentAndNotifications(t *testing.T) {
	shipments := &fakeShipments{}
	payments := &fakePayments{}
	notifications := &fakeNotifications{}
	users := &fakeAdminLister{admins: []domain.User{{ID: 10, Role: domain.RoleAdmin}, {ID: 11, Role: domain.RoleAdmin}}}
	svc := newShipmentService(shipments, payments, notifications, users)

	customer := domain.User{ID: 7, Name: "Asha Mwangi", Role: domain.RoleCustomer}
	shipment, err := svc.Book(context.Background(), customer, BookingInput{
		Origin:      "Nairobi",
		Destination: "Mombasa",
		Weight:      10,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ShipmentPending, shipment.Status)
	assert.True(t, shipment.Cost.Equal(decimal.NewFromInt(50)), "10kg at 5 per kg")

	// first tracking entry sits at the origin
	require.Len(t, shipments.tracking, 1)
	assert.Equal(t, "Nairobi", shipments.tracking[0].Location)
	assert.Equal(t, domain.ShipmentPending, shipments.tracking[0].Status)
	require.Len(t, shipment.TrackingHistory, 1)

	// a pending M-Pesa payment for the cost is opened
	require.Len(t, payments.created, 1)
	assert.Equal(t, domain.PaymentPending, payments.created[0].Status)
	assert.Equal(t, domain.MethodMpesa, payments.created[0].Method)
	assert.True(t, payments.created[0].Amount.Equal(shipment.Cost))

	// every admin hears about it
	require.Len(t, notifications.created, 2)
	assert.Equal(t, "New shipment ("+shipment.ShipmentID+") booked by Asha Mwangi.", notifications.created[0].Text)
	assert.Equal(t, "/admin/dashboard/shipments", notifications.created[0].Link)
	assert.ElementsMatch(t, []int64{10, 11}, []int64{notifications.created[0].UserID, notifications.created[1].UserID})
}

func TestBookMinimumCharge(t *testing.T) {
	shipments := &fakeShipments{}
	svc := newShipmentService(shipments, &fakePayments{}, &fakeNotifications{}, &fakeAdminLister{})

	shipment, err := svc.Book(context.Background(), domain.User{ID: 1}, BookingInput{
		Origin: "Kisumu", Destination: "Eldoret", Weight: 0.5,
	})
	require.NoError(t, err)
	assert.True(t, shipment.Cost.Equal(decimal.NewFromInt(20)), "below the floor the flat minimum applies")
}

func TestBookSurvivesPaymentFailure(t *testing.T) {
	shipments := &fakeShipments{}
	payments := &fakePayments{fail: true}
	svc := newShipmentService(shipments, payments, &fakeNotifications{}, &fakeAdminLister{})

	shipment, err := svc.Book(context.Background(), domain.User{ID: 1, Name: "A"}, BookingInput{
		Origin: "Nairobi", Destination: "Thika", Weight: 3,
	})
	require.NoError(t, err, "the booking stands even when the payment insert fails")
	assert.NotNil(t, shipment)
	assert.Len(t, shipments.created, 1)
}

func TestBookValidatesInput(t *testing.T) {
	svc := newShipmentService(&fakeShipments{}, &fakePayments{}, &fakeNotifications{}, &fakeAdminLister{})

	_, err := svc.Book(context.Background(), domain.User{ID: 1}, BookingInput{Destination: "Mombasa", Weight: 2})
	assert.Equal(t, 400, apperr.HTTPStatus(err))

	_, err = svc.Book(context.Background(), domain.User{ID: 1}, BookingInput{Origin: "Nairobi", Destination: "Mombasa", Weight: 0})
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestAdminCreateUnknownCustomer(t *testing.T) {
	svc := newShipmentService(&fakeShipments{}, &fakePayments{}, &fakeNotifications{}, &fakeAdminLister{})

	_, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		CustomerName: "Nobody",
		Origin:       "Nairobi",
		Destination:  "Mombasa",
		Weight:       5,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperr.HTTPStatus(err))
	assert.Equal(t, "Customer not found", apperr.PublicMessage(err))
}

func TestAdminCreateResolvesCustomerByName(t *testing.T) {
	shipments := &fakeShipments{}
	users := &fakeAdminLister{customer: &domain.User{ID: 42, Name: "Asha Mwangi", Role: domain.RoleCustomer}}
	svc := newShipmentService(shipments, &fakePayments{}, &fakeNotifications{}, users)

	shipment, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		CustomerName: "Asha Mwangi",
		Origin:       "Nairobi",
		Destination:  "Mombasa",
		Weight:       8,
	})
	require.NoError(t, err)
	require.NotNil(t, shipment.CustomerID)
	assert.Equal(t, int64(42), *shipment.CustomerID)
	assert.True(t, shipment.Cost.Equal(decimal.NewFromInt(40)))

	// admin creation opens no payment and seeds no tracking
	require.Len(t, shipments.tracking, 0)
}
