package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
	RoleAgent    UserRole = "agent"

	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
	UserIdle     UserStatus = "Idle"

	ShipmentPending   ShipmentStatus = "Pending"
	ShipmentInTransit ShipmentStatus = "In Transit"
	ShipmentDelivered ShipmentStatus = "Delivered"
	ShipmentDelayed   ShipmentStatus = "Delayed"
	ShipmentCancelled ShipmentStatus = "Cancelled"

	PaymentCompleted PaymentStatus = "Completed"
	PaymentPending   PaymentStatus = "Pending"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"

	MethodMpesa PaymentMethod = "M-Pesa"
	MethodCash  PaymentMethod = "Cash"
	MethodCard  PaymentMethod = "Card"

	MessageUnread   MessageStatus = "Unread"
	MessageReplied  MessageStatus = "Replied"
	MessageSpam     MessageStatus = "Spam"
	MessageArchived MessageStatus = "Archived"
)

type UserRole string
type UserStatus string
type ShipmentStatus string
type PaymentStatus string
type PaymentMethod string
type MessageStatus string

// ValidShipmentStatus reports whether s is one of the known shipment states.
func ValidShipmentStatus(s ShipmentStatus) bool {
	switch s {
	case ShipmentPending, ShipmentInTransit, ShipmentDelivered, ShipmentDelayed, ShipmentCancelled:
		return true
	}
	return false
}

// ValidMessageStatus reports whether s is one of the known message states.
func ValidMessageStatus(s MessageStatus) bool {
	switch s {
	case MessageUnread, MessageReplied, MessageSpam, MessageArchived:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodMpesa, MethodCash, MethodCard:
		return true
	}
	return false
}

type User struct {
	ID             int64
	Name           string
	Email          string
	Role           UserRole
	Status         UserStatus
	Phone          string
	Location       string
	ProfilePicture string
	PasswordHash   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Shipment struct {
	ID              int64
	ShipmentID      string
	CustomerID      *int64
	CustomerName    string
	AgentID         *int64
	Origin          string
	Destination     string
	Status          ShipmentStatus
	DispatchDate    time.Time
	Weight          float64
	PackageDetails  string
	Cost            decimal.Decimal
	TrackingHistory []TrackingEvent
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type TrackingEvent struct {
	ID         int64
	ShipmentID int64
	Status     ShipmentStatus
	Location   string
	Timestamp  time.Time
}

type Payment struct {
	ID              int64
	PaymentID       string
	ShipmentID      *int64
	ShipmentCode    string
	CustomerID      *int64
	CustomerName    string
	Amount          decimal.Decimal
	Method          PaymentMethod
	Status          PaymentStatus
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Message struct {
	ID        int64
	Sender    string
	Email     string
	Subject   string
	Body      string
	Status    MessageStatus
	Reply     *string
	UserID    *int64
	UserName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Notification struct {
	ID        int64
	UserID    int64
	Text      string
	Link      string
	Read      bool
	CreatedAt time.Time
}

// Settings is the single company-wide configuration record. Exactly one row
// exists; the repository enforces get-or-create on the fixed key.
type Settings struct {
	CompanyName  string
	CompanyEmail string
	CompanyPhone string
	Address      string
	Website      string
	Logo         string

	Facebook  string
	Whatsapp  string
	Instagram string
	Linkedin  string

	EmailAlertsNewShipments         bool
	EmailAlertsNewMessages          bool
	EmailAlertsPaymentConfirmations bool
	WhatsappNotifications           bool

	DarkMode    bool
	AccentColor string

	UpdatedAt time.Time
}

// DefaultSettings mirrors the defaults the company record is seeded with.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:                     "BongoExpress",
		CompanyEmail:                    "info@bongoexpress.com",
		CompanyPhone:                    "+254 711 111 111",
		Address:                         "123 Logistics Lane, Nairobi",
		Website:                         "https://bongoexpress.com",
		EmailAlertsNewShipments:         true,
		EmailAlertsPaymentConfirmations: true,
		AccentColor:                     "yellow",
	}
}

// ShipmentCost applies the flat booking tariff: 5 per kg with a 20 minimum.
func ShipmentCost(weight float64) decimal.Decimal {
	cost := decimal.NewFromFloat(weight).Mul(decimal.NewFromInt(5))
	floor := decimal.NewFromInt(20)
	if cost.LessThan(floor) {
		return floor
	}
	return cost
}
