package repository

import (
	"context"
	"errors"

	"github.com/Barmakyy/logistics-app/internal/db"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/jackc/pgx/v5"
)

// SettingsRepository manages the single company-wide configuration row
// (fixed key 1). Get creates the row with defaults when it is missing.
type SettingsRepository struct {
	DB *db.Postgres
}

type UpdateSettingsParams struct {
	CompanyName  *string
	CompanyEmail *string
	CompanyPhone *string
	Address      *string
	Website      *string

	Facebook  *string
	Whatsapp  *string
	Instagram *string
	Linkedin  *string

	EmailAlertsNewShipments         *bool
	EmailAlertsNewMessages          *bool
	EmailAlertsPaymentConfirmations *bool
	WhatsappNotifications           *bool

	DarkMode    *bool
	AccentColor *string
}

const settingsColumns = `company_name, company_email, company_phone, address, website, logo,
	facebook, whatsapp, instagram, linkedin,
	email_alerts_new_shipments, email_alerts_new_messages, email_alerts_payment_confirmations,
	whatsapp_notifications, dark_mode, accent_color, updated_at`

func (r SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	s, err := r.get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// Seed the singleton on first access. A concurrent seeder winning the
	// race is fine; fall back to reading the row it inserted.
	if _, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return nil, err
	}
	return r.get(ctx)
}

func (r SettingsRepository) get(ctx context.Context) (*domain.Settings, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id=1`)
	return scanSettings(row)
}

func (r SettingsRepository) Update(ctx context.Context, p UpdateSettingsParams) (*domain.Settings, error) {
	if _, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return nil, err
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE settings SET
			company_name  = COALESCE($1, company_name),
			company_email = COALESCE($2, company_email),
			company_phone = COALESCE($3, company_phone),
			address       = COALESCE($4, address),
			website       = COALESCE($5, website),
			facebook      = COALESCE($6, facebook),
			whatsapp      = COALESCE($7, whatsapp),
			instagram     = COALESCE($8, instagram),
			linkedin      = COALESCE($9, linkedin),
			email_alerts_new_shipments         = COALESCE($10, email_alerts_new_shipments),
			email_alerts_new_messages          = COALESCE($11, email_alerts_new_messages),
			email_alerts_payment_confirmations = COALESCE($12, email_alerts_payment_confirmations),
			whatsapp_notifications             = COALESCE($13, whatsapp_notifications),
			dark_mode     = COALESCE($14, dark_mode),
			accent_color  = COALESCE($15, accent_color),
			updated_at    = now()
		WHERE id=1
		RETURNING `+settingsColumns+`
	`, p.CompanyName, p.CompanyEmail, p.CompanyPhone, p.Address, p.Website,
		p.Facebook, p.Whatsapp, p.Instagram, p.Linkedin,
		p.EmailAlertsNewShipments, p.EmailAlertsNewMessages, p.EmailAlertsPaymentConfirmations,
		p.WhatsappNotifications, p.DarkMode, p.AccentColor)
	return scanSettings(row)
}

// UpdateLogo stores the uploaded logo's public path.
func (r SettingsRepository) UpdateLogo(ctx context.Context, path string) error {
	if _, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return err
	}
	_, err := r.DB.Pool.Exec(ctx, `UPDATE settings SET logo=$1, updated_at=now() WHERE id=1`, path)
	return err
}

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	var s domain.Settings
	if err := row.Scan(
		&s.CompanyName,
		&s.CompanyEmail,
		&s.CompanyPhone,
		&s.Address,
		&s.Website,
		&s.Logo,
		&s.Facebook,
		&s.Whatsapp,
		&s.Instagram,
		&s.Linkedin,
		&s.EmailAlertsNewShipments,
		&s.EmailAlertsNewMessages,
		&s.EmailAlertsPaymentConfirmations,
		&s.WhatsappNotifications,
		&s.DarkMode,
		&s.AccentColor,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
