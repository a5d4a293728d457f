package handler

import (
	"github.com/Barmakyy/logistics-app/internal/domain"
)

// View shaping lives here so every handler serializes an entity the same way.

func userView(u domain.User) map[string]any {
	return map[string]any{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"role":           u.Role,
		"status":         u.Status,
		"phone":          u.Phone,
		"location":       u.Location,
		"profilePicture": u.ProfilePicture,
		"createdAt":      u.CreatedAt,
	}
}

func trackingView(events []domain.TrackingEvent) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		out = append(out, map[string]any{
			"status":    e.Status,
			"location":  e.Location,
			"timestamp": e.Timestamp,
		})
	}
	return out
}

func shipmentView(s domain.Shipment) map[string]any {
	return map[string]any{
		"id":              s.ID,
		"shipmentId":      s.ShipmentID,
		"customer":        s.CustomerName,
		"agentId":         s.AgentID,
		"origin":          s.Origin,
		"destination":     s.Destination,
		"status":          s.Status,
		"dispatchDate":    s.DispatchDate,
		"weight":          s.Weight,
		"packageDetails":  s.PackageDetails,
		"cost":            s.Cost,
		"trackingHistory": trackingView(s.TrackingHistory),
		"createdAt":       s.CreatedAt,
	}
}

func shipmentViews(items []domain.Shipment) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, s := range items {
		out = append(out, shipmentView(s))
	}
	return out
}

func paymentView(p domain.Payment) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"paymentId":       p.PaymentID,
		"shipmentId":      p.ShipmentCode,
		"customer":        p.CustomerName,
		"amount":          p.Amount,
		"method":          p.Method,
		"status":          p.Status,
		"transactionDate": p.TransactionDate,
	}
}

func paymentViews(items []domain.Payment) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, p := range items {
		out = append(out, paymentView(p))
	}
	return out
}

func messageView(m domain.Message) map[string]any {
	return map[string]any{
		"id":        m.ID,
		"sender":    m.Sender,
		"email":     m.Email,
		"subject":   m.Subject,
		"body":      m.Body,
		"status":    m.Status,
		"reply":     m.Reply,
		"userId":    m.UserID,
		"createdAt": m.CreatedAt,
	}
}

func messageViews(items []domain.Message) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, m := range items {
		out = append(out, messageView(m))
	}
	return out
}

func notificationView(n domain.Notification) map[string]any {
	return map[string]any{
		"id":        n.ID,
		"text":      n.Text,
		"link":      n.Link,
		"read":      n.Read,
		"createdAt": n.CreatedAt,
	}
}

func settingsView(s domain.Settings) map[string]any {
	return map[string]any{
		"companyName":  s.CompanyName,
		"companyEmail": s.CompanyEmail,
		"companyPhone": s.CompanyPhone,
		"address":      s.Address,
		"website":      s.Website,
		"logo":         s.Logo,
		"socialMedia": map[string]any{
			"facebook":  s.Facebook,
			"whatsapp":  s.Whatsapp,
			"instagram": s.Instagram,
			"linkedin":  s.Linkedin,
		},
		"notifications": map[string]any{
			"emailAlertsNewShipments":         s.EmailAlertsNewShipments,
			"emailAlertsNewMessages":          s.EmailAlertsNewMessages,
			"emailAlertsPaymentConfirmations": s.EmailAlertsPaymentConfirmations,
			"whatsappNotifications":           s.WhatsappNotifications,
		},
		"appearance": map[string]any{
			"darkMode":    s.DarkMode,
			"accentColor": s.AccentColor,
		},
		"updatedAt": s.UpdatedAt,
	}
}
