package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Barmakyy/logistics-app/internal/db"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	Name         string
	Email        string
	Role         domain.UserRole
	Status       domain.UserStatus
	Phone        string
	Location     string
	PasswordHash *string
}

type UpdateUserParams struct {
	Name     *string
	Email    *string
	Phone    *string
	Location *string
	Status   *domain.UserStatus
}

type ListUsersParams struct {
	Role   domain.UserRole
	Search string
	Status domain.UserStatus
	Region string
	Page   int
	Limit  int
}

const userColumns = `id, name, email, role, status, phone, location, profile_picture, password_hash, created_at, updated_at`

func (r UserRepository) Create(ctx context.Context, p CreateUserParams) (*domain.User, error) {
	if p.Status == "" {
		p.Status = domain.UserActive
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, role, status, phone, location, password_hash)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		RETURNING `+userColumns+`
	`, p.Name, p.Email, p.Role, p.Status, p.Phone, p.Location, p.PasswordHash)
	return scanUser(row)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id=$1
	`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email=lower($1)
	`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// FindCustomerByName resolves the first customer matching name exactly.
// Admin shipment creation keys on the customer's display name.
func (r UserRepository) FindCustomerByName(ctx context.Context, name string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE name=$1 AND role='customer'
		ORDER BY id ASC
		LIMIT 1
	`, name)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns one page of users plus the total count matching the same
// filters. Search matches name, email and location case-insensitively;
// filters combine with AND.
func (r UserRepository) List(ctx context.Context, p ListUsersParams) ([]domain.User, int64, error) {
	where := `WHERE role=$1`
	args := []any{string(p.Role)}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR location ILIKE $%d)`, len(args), len(args), len(args))
	}
	if p.Status != "" {
		args = append(args, string(p.Status))
		where += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	if p.Region != "" {
		args = append(args, p.Region)
		where += fmt.Sprintf(` AND location=$%d`, len(args))
	}

	var total int64
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, (p.Page-1)*p.Limit)
	rows, err := r.DB.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM users %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *u)
	}
	return items, total, rows.Err()
}

// ListByRole returns every user with the given role, newest first.
func (r UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY created_at DESC, id DESC
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

func (r UserRepository) Update(ctx context.Context, id int64, role domain.UserRole, p UpdateUserParams) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE users SET
			name     = COALESCE($3, name),
			email    = COALESCE(lower($4), email),
			phone    = COALESCE($5, phone),
			location = COALESCE($6, location),
			status   = COALESCE($7, status),
			updated_at = now()
		WHERE id=$1 AND role=$2
		RETURNING `+userColumns+`
	`, id, role, p.Name, p.Email, p.Phone, p.Location, (*string)(p.Status))
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.DB.Pool.Exec(ctx, `UPDATE users SET password_hash=$2, updated_at=now() WHERE id=$1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r UserRepository) UpdateProfile(ctx context.Context, id int64, name, phone, location, profilePicture *string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE users SET
			name            = COALESCE($2, name),
			phone           = COALESCE($3, phone),
			location        = COALESCE($4, location),
			profile_picture = COALESCE($5, profile_picture),
			updated_at      = now()
		WHERE id=$1
		RETURNING `+userColumns+`
	`, id, name, phone, location, profilePicture)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Delete removes a user permanently. Shipments and payments keep their rows
// with the reference nulled; that orphaning policy is deliberate.
func (r UserRepository) Delete(ctx context.Context, id int64, role domain.UserRole) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM users WHERE id=$1 AND role=$2`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type CustomerSummary struct {
	Total    int64
	Active   int64
	Inactive int64
}

func (r UserRepository) CustomerSummary(ctx context.Context) (CustomerSummary, error) {
	var s CustomerSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status='Active'),
			COUNT(*) FILTER (WHERE status='Inactive')
		FROM users
		WHERE role='customer'
	`).Scan(&s.Total, &s.Active, &s.Inactive)
	return s, err
}

type AgentSummary struct {
	Total    int64
	Active   int64
	Idle     int64
	Inactive int64
}

func (r UserRepository) AgentSummary(ctx context.Context) (AgentSummary, error) {
	var s AgentSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status='Active'),
			COUNT(*) FILTER (WHERE status='Idle'),
			COUNT(*) FILTER (WHERE status='Inactive')
		FROM users
		WHERE role='agent'
	`).Scan(&s.Total, &s.Active, &s.Idle, &s.Inactive)
	return s, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u      domain.User
		role   string
		status string
	)
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&role,
		&status,
		&u.Phone,
		&u.Location,
		&u.ProfilePicture,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.Status = domain.UserStatus(status)
	return &u, nil
}
