package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
)

type ShipmentStore interface {
	Create(ctx context.Context, p repository.CreateShipmentParams) (*domain.Shipment, error)
	AddTrackingEvent(ctx context.Context, shipmentID int64, status domain.ShipmentStatus, location string, at time.Time) error
	GetForCustomer(ctx context.Context, id, customerID int64) (*domain.Shipment, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p repository.CreatePaymentParams) (*domain.Payment, error)
}

type NotificationStore interface {
	Create(ctx context.Context, userID int64, text, link string) (*domain.Notification, error)
}

type AdminLister interface {
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	FindCustomerByName(ctx context.Context, name string) (*domain.User, error)
}

// ShipmentService owns the booking flows. Admin creation is a plain insert;
// a customer booking additionally seeds tracking, opens a Pending payment for
// the computed cost and notifies every admin.
type ShipmentService struct {
	Shipments     ShipmentStore
	Payments      PaymentStore
	Notifications NotificationStore
	Users         AdminLister
	Logger        *slog.Logger
}

type AdminCreateInput struct {
	CustomerName   string
	Origin         string
	Destination    string
	Weight         float64
	PackageDetails string
	Status         domain.ShipmentStatus
}

func (s ShipmentService) AdminCreate(ctx context.Context, in AdminCreateInput) (*domain.Shipment, error) {
	if in.Origin == "" || in.Destination == "" {
		return nil, apperr.Invalid("origin and destination are required")
	}
	if in.Status != "" && !domain.ValidShipmentStatus(in.Status) {
		return nil, apperr.Invalid("invalid shipment status")
	}
	customer, err := s.Users.FindCustomerByName(ctx, in.CustomerName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Customer not found")
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	shipment, err := s.Shipments.Create(ctx, repository.CreateShipmentParams{
		ShipmentCode:   domain.NewShipmentCode(),
		CustomerID:     customer.ID,
		Origin:         in.Origin,
		Destination:    in.Destination,
		Status:         in.Status,
		Weight:         in.Weight,
		PackageDetails: in.PackageDetails,
		Cost:           domain.ShipmentCost(in.Weight),
	})
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	return shipment, nil
}

type BookingInput struct {
	Origin         string
	Destination    string
	Weight         float64
	PackageDetails string
}

// Book creates a shipment on behalf of the logged-in customer. The shipment
// starts Pending with its first tracking entry at the origin, a Pending
// payment is opened for the cost, and every admin gets a notification.
// Payment and notification failures do not undo the booking; they are logged
// and the shipment stands.
func (s ShipmentService) Book(ctx context.Context, customer domain.User, in BookingInput) (*domain.Shipment, error) {
	if in.Origin == "" || in.Destination == "" {
		return nil, apperr.Invalid("origin and destination are required")
	}
	if in.Weight <= 0 {
		return nil, apperr.Invalid("weight must be greater than zero")
	}

	now := time.Now()
	shipment, err := s.Shipments.Create(ctx, repository.CreateShipmentParams{
		ShipmentCode:   domain.NewShipmentCode(),
		CustomerID:     customer.ID,
		Origin:         in.Origin,
		Destination:    in.Destination,
		Status:         domain.ShipmentPending,
		DispatchDate:   now,
		Weight:         in.Weight,
		PackageDetails: in.PackageDetails,
		Cost:           domain.ShipmentCost(in.Weight),
	})
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	if err := s.Shipments.AddTrackingEvent(ctx, shipment.ID, domain.ShipmentPending, in.Origin, now); err != nil {
		return nil, fmt.Errorf("seed tracking history: %w", err)
	}
	shipment.TrackingHistory = append(shipment.TrackingHistory, domain.TrackingEvent{
		ShipmentID: shipment.ID,
		Status:     domain.ShipmentPending,
		Location:   in.Origin,
		Timestamp:  now,
	})

	if _, err := s.Payments.Create(ctx, repository.CreatePaymentParams{
		PaymentCode:     domain.NewPaymentCode(),
		ShipmentID:      shipment.ID,
		CustomerID:      customer.ID,
		Amount:          shipment.Cost,
		Method:          domain.MethodMpesa,
		Status:          domain.PaymentPending,
		TransactionDate: now,
	}); err != nil {
		s.Logger.Error("failed to open payment for booking", "shipment", shipment.ShipmentID, "err", err)
	}

	admins, err := s.Users.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		s.Logger.Error("failed to list admins for booking notification", "err", err)
		return shipment, nil
	}
	text := fmt.Sprintf("New shipment (%s) booked by %s.", shipment.ShipmentID, customer.Name)
	for _, admin := range admins {
		if _, err := s.Notifications.Create(ctx, admin.ID, text, "/admin/dashboard/shipments"); err != nil {
			s.Logger.Error("failed to notify admin of booking", "admin", admin.ID, "err", err)
		}
	}
	return shipment, nil
}

// Details returns a shipment only if the customer owns it.
func (s ShipmentService) Details(ctx context.Context, id, customerID int64) (*domain.Shipment, error) {
	shipment, err := s.Shipments.GetForCustomer(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Shipment not found or you do not have permission to view it.")
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return shipment, nil
}
