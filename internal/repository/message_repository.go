package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Barmakyy/logistics-app/internal/db"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/jackc/pgx/v5"
)

type MessageRepository struct {
	DB *db.Postgres
}

type CreateMessageParams struct {
	Sender  string
	Email   string
	Subject string
	Body    string
	UserID  *int64
}

type ListMessagesParams struct {
	Search string
	Status domain.MessageStatus
	UserID int64
	Page   int
	Limit  int
}

const messageColumns = `m.id, m.sender, m.email, m.subject, m.body, m.status, m.reply,
	m.user_id, COALESCE(u.name,''), m.created_at, m.updated_at`

func (r MessageRepository) Create(ctx context.Context, p CreateMessageParams) (*domain.Message, error) {
	var id int64
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO messages (sender, email, subject, body, user_id)
		VALUES ($1, lower($2), $3, $4, $5)
		RETURNING id
	`, p.Sender, p.Email, p.Subject, p.Body, p.UserID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r MessageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE m.id=$1
	`, id)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// List pages messages newest first. Search spans sender, email, subject and body.
func (r MessageRepository) List(ctx context.Context, p ListMessagesParams) ([]domain.Message, int64, error) {
	where := `WHERE TRUE`
	var args []any
	if p.UserID != 0 {
		args = append(args, p.UserID)
		where += fmt.Sprintf(` AND m.user_id=$%d`, len(args))
	}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (m.sender ILIKE $%d OR m.email ILIKE $%d OR m.subject ILIKE $%d OR m.body ILIKE $%d)`, n, n, n, n)
	}
	if p.Status != "" {
		args = append(args, string(p.Status))
		where += fmt.Sprintf(` AND m.status=$%d`, len(args))
	}

	var total int64
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages m `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, (p.Page-1)*p.Limit)
	rows, err := r.DB.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM messages m
		LEFT JOIN users u ON u.id = m.user_id
		%s
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $%d OFFSET $%d
	`, messageColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *m)
	}
	return items, total, rows.Err()
}

func (r MessageRepository) UpdateStatus(ctx context.Context, id int64, status domain.MessageStatus) (*domain.Message, error) {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE messages SET status=$2, updated_at=now() WHERE id=$1
	`, id, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// MarkReplied stores the reply text and flips the status in one statement so
// a recorded reply and the Replied state can never diverge.
func (r MessageRepository) MarkReplied(ctx context.Context, id int64, reply string) (*domain.Message, error) {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE messages SET status='Replied', reply=$2, updated_at=now() WHERE id=$1
	`, id, reply)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r MessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForUser removes a message only if it belongs to the given user.
func (r MessageRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM messages WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type MessageSummary struct {
	Total   int64
	Unread  int64
	Replied int64
	Spam    int64
}

func (r MessageRepository) Summary(ctx context.Context) (MessageSummary, error) {
	var s MessageSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status='Unread'),
			COUNT(*) FILTER (WHERE status='Replied'),
			COUNT(*) FILTER (WHERE status='Spam')
		FROM messages
	`).Scan(&s.Total, &s.Unread, &s.Replied, &s.Spam)
	return s, err
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		m      domain.Message
		status string
	)
	if err := row.Scan(
		&m.ID,
		&m.Sender,
		&m.Email,
		&m.Subject,
		&m.Body,
		&status,
		&m.Reply,
		&m.UserID,
		&m.UserName,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.Status = domain.MessageStatus(status)
	return &m, nil
}
