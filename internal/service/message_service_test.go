package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessages struct {
	byID   map[int64]*domain.Message
	nextID int64
}

func (f *fakeMessages) Create(_ context.Context, p repository.CreateMessageParams) (*domain.Message, error) {
	f.nextID++
	m := &domain.Message{
		ID:      f.nextID,
		Sender:  p.Sender,
		Email:   p.Email,
		Subject: p.Subject,
		Body:    p.Body,
		Status:  domain.MessageUnread,
		UserID:  p.UserID,
	}
	if f.byID == nil {
		f.byID = map[int64]*domain.Message{}
	}
	f.byID[m.ID] = m
	return m, nil
}

func (f *fakeMessages) GetByID(_ context.Context, id int64) (*domain.Message, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeMessages) MarkReplied(_ context.Context, id int64, reply string) (*domain.Message, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.Status = domain.MessageReplied
	m.Reply = &reply
	return m, nil
}

type fakeUserLookup struct {
	byEmail map[string]*domain.User
}

func (f *fakeUserLookup) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if f.fail {
		return errors.New("smtp connect refused")
	}
	f.sent = append(f.sent, to)
	return nil
}

func newMessageService(m *fakeMessages, u *fakeUserLookup, mail *fakeMailer) MessageService {
	return MessageService{
		Messages: m,
		Users:    u,
		Mailer:   mail,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSubmitLinksRegisteredSender(t *testing.T) {
	store := &fakeMessages{}
	users := &fakeUserLookup{byEmail: map[string]*domain.User{
		"asha@example.com": {ID: 7, Email: "asha@example.com"},
	}}
	svc := newMessageService(store, users, &fakeMailer{})

	msg, err := svc.Submit(context.Background(), ContactInput{
		Sender: "Asha", Email: "asha@example.com", Subject: "Hi", Body: "Question about rates",
	})
	require.NoError(t, err)
	require.NotNil(t, msg.UserID)
	assert.Equal(t, int64(7), *msg.UserID)
	assert.Equal(t, domain.MessageUnread, msg.Status)
}

func TestSubmitAnonymousSender(t *testing.T) {
	svc := newMessageService(&fakeMessages{}, &fakeUserLookup{byEmail: map[string]*domain.User{}}, &fakeMailer{})

	msg, err := svc.Submit(context.Background(), ContactInput{
		Sender: "Walk-in", Email: "nobody@example.com", Subject: "Hi", Body: "Hello",
	})
	require.NoError(t, err)
	assert.Nil(t, msg.UserID)
}

func TestSubmitRequiresAllFields(t *testing.T) {
	svc := newMessageService(&fakeMessages{}, &fakeUserLookup{}, &fakeMailer{})
	_, err := svc.Submit(context.Background(), ContactInput{Sender: "A", Email: "a@b.com", Subject: "s"})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestSubmitOwnUsesAuthenticatedIdentity(t *testing.T) {
	store := &fakeMessages{}
	svc := newMessageService(store, &fakeUserLookup{}, &fakeMailer{})
	user := domain.User{ID: 12, Name: "Juma", Email: "juma@example.com"}

	msg, err := svc.SubmitOwn(context.Background(), user, "Delayed parcel", "My shipment is late.")
	require.NoError(t, err)
	assert.Equal(t, "Juma", msg.Sender)
	assert.Equal(t, "juma@example.com", msg.Email)
	require.NotNil(t, msg.UserID)
	assert.Equal(t, int64(12), *msg.UserID)
	assert.Equal(t, domain.MessageUnread, msg.Status)
}

func TestSubmitOwnRequiresSubjectAndBody(t *testing.T) {
	svc := newMessageService(&fakeMessages{}, &fakeUserLookup{}, &fakeMailer{})
	user := domain.User{ID: 12, Name: "Juma", Email: "juma@example.com"}

	_, err := svc.SubmitOwn(context.Background(), user, "", "body")
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))

	_, err = svc.SubmitOwn(context.Background(), user, "subject", "")
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestReplySendsMailThenMarksReplied(t *testing.T) {
	store := &fakeMessages{}
	mailer := &fakeMailer{}
	svc := newMessageService(store, &fakeUserLookup{}, mailer)

	msg, err := store.Create(context.Background(), repository.CreateMessageParams{
		Sender: "Asha", Email: "asha@example.com", Subject: "Rates", Body: "?",
	})
	require.NoError(t, err)

	replied, err := svc.Reply(context.Background(), msg.ID, "Here are our rates.")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageReplied, replied.Status)
	require.NotNil(t, replied.Reply)
	assert.Equal(t, "Here are our rates.", *replied.Reply)
	assert.Equal(t, []string{"asha@example.com"}, mailer.sent)
}

func TestReplyMailFailureLeavesMessageUntouched(t *testing.T) {
	store := &fakeMessages{}
	svc := newMessageService(store, &fakeUserLookup{}, &fakeMailer{fail: true})

	msg, err := store.Create(context.Background(), repository.CreateMessageParams{
		Sender: "Asha", Email: "asha@example.com", Subject: "Rates", Body: "?",
	})
	require.NoError(t, err)

	_, err = svc.Reply(context.Background(), msg.ID, "This will not send.")
	require.Error(t, err)
	assert.Equal(t, 500, apperr.HTTPStatus(err))
	assert.Equal(t, "Failed to send email reply. Please try again later.", apperr.PublicMessage(err))

	// the message never shows as answered when no mail went out
	stored, err := store.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageUnread, stored.Status)
	assert.Nil(t, stored.Reply)
}

func TestReplyUnknownMessage(t *testing.T) {
	svc := newMessageService(&fakeMessages{}, &fakeUserLookup{}, &fakeMailer{})
	_, err := svc.Reply(context.Background(), 404, "hello")
	require.Error(t, err)
	assert.Equal(t, 404, apperr.HTTPStatus(err))
}
