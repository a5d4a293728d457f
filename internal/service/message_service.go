package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
)

type MessageStore interface {
	Create(ctx context.Context, p repository.CreateMessageParams) (*domain.Message, error)
	GetByID(ctx context.Context, id int64) (*domain.Message, error)
	MarkReplied(ctx context.Context, id int64, reply string) (*domain.Message, error)
}

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type MessageService struct {
	Messages MessageStore
	Users    UserLookup
	Mailer   Mailer
	Logger   *slog.Logger
}

type ContactInput struct {
	Sender  string
	Email   string
	Subject string
	Body    string
}

// Submit records an inbound contact-form message, linking it to a registered
// user when the sender's email matches one.
func (s MessageService) Submit(ctx context.Context, in ContactInput) (*domain.Message, error) {
	if in.Sender == "" || in.Email == "" || in.Subject == "" || in.Body == "" {
		return nil, apperr.Invalid("Please provide all required fields.")
	}
	var userID *int64
	user, err := s.Users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		userID = &user.ID
	case errors.Is(err, repository.ErrNotFound):
		// anonymous sender
	default:
		return nil, fmt.Errorf("look up sender: %w", err)
	}
	msg, err := s.Messages.Create(ctx, repository.CreateMessageParams{
		Sender:  in.Sender,
		Email:   in.Email,
		Subject: in.Subject,
		Body:    in.Body,
		UserID:  userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// SubmitOwn records a message sent from the customer portal. Sender identity
// comes from the authenticated user, never from the request body.
func (s MessageService) SubmitOwn(ctx context.Context, user domain.User, subject, body string) (*domain.Message, error) {
	if subject == "" || body == "" {
		return nil, apperr.Invalid("Please provide all required fields.")
	}
	msg, err := s.Messages.Create(ctx, repository.CreateMessageParams{
		Sender:  user.Name,
		Email:   user.Email,
		Subject: subject,
		Body:    body,
		UserID:  &user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// Reply emails the sender and only then marks the message Replied. A failed
// send leaves the message untouched so it can never show as answered when no
// mail went out.
func (s MessageService) Reply(ctx context.Context, id int64, replyBody string) (*domain.Message, error) {
	if replyBody == "" {
		return nil, apperr.Invalid("Reply body is required.")
	}
	msg, err := s.Messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Message not found")
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	html := fmt.Sprintf("<p>Hello %s,</p><p>%s</p><p>Best regards,<br/>BongoExpress Team</p>", msg.Sender, replyBody)
	if err := s.Mailer.Send(ctx, msg.Email, "Re: "+msg.Subject, html); err != nil {
		s.Logger.Error("reply email failed", "message", id, "err", err)
		return nil, apperr.Internal("Failed to send email reply. Please try again later.", err)
	}

	updated, err := s.Messages.MarkReplied(ctx, id, replyBody)
	if err != nil {
		return nil, fmt.Errorf("mark replied: %w", err)
	}
	return updated, nil
}
