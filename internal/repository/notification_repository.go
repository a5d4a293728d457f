package repository

import (
	"context"
	"errors"

	"github.com/Barmakyy/logistics-app/internal/db"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/jackc/pgx/v5"
)

type NotificationRepository struct {
	DB *db.Postgres
}

func (r NotificationRepository) Create(ctx context.Context, userID int64, text, link string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, text, link)
		VALUES ($1,$2,$3)
		RETURNING id, user_id, text, link, read, created_at
	`, userID, text, link).Scan(&n.ID, &n.UserID, &n.Text, &n.Link, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListUnread returns the user's unread notifications, newest first.
func (r NotificationRepository) ListUnread(ctx context.Context, userID int64) ([]domain.Notification, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, user_id, text, link, read, created_at
		FROM notifications
		WHERE user_id=$1 AND read=FALSE
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead sets read=true for a notification owned by the user. Read never
// transitions back to false.
func (r NotificationRepository) MarkRead(ctx context.Context, id, userID int64) (*domain.Notification, error) {
	var n domain.Notification
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE notifications SET read=TRUE
		WHERE id=$1 AND user_id=$2
		RETURNING id, user_id, text, link, read, created_at
	`, id, userID).Scan(&n.ID, &n.UserID, &n.Text, &n.Link, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}
