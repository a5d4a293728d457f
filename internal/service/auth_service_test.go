package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserStore struct {
	users  map[string]*domain.User
	byID   map[int64]*domain.User
	nextID int64
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		users: map[string]*domain.User{},
		byID:  map[int64]*domain.User{},
	}
}

func (s *stubUserStore) Create(_ context.Context, p repository.CreateUserParams) (*domain.User, error) {
	if _, exists := s.users[p.Email]; exists {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	s.nextID++
	u := &domain.User{
		ID:           s.nextID,
		Name:         p.Name,
		Email:        p.Email,
		Role:         p.Role,
		Status:       domain.UserActive,
		PasswordHash: p.PasswordHash,
	}
	s.users[p.Email] = u
	s.byID[u.ID] = u
	return u, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = &hash
	return nil
}

func newAuthService(store *stubUserStore) AuthService {
	return AuthService{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Users:     store,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func seedUser(t *testing.T, store *stubUserStore, email, password string, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)
	u, err := store.Create(context.Background(), repository.CreateUserParams{
		Name:         "Test User",
		Email:        email,
		Role:         role,
		PasswordHash: &hashStr,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterIssuesToken(t *testing.T) {
	store := newStubUserStore()
	svc := newAuthService(store)

	res, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha Mwangi",
		Email:    "asha@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleCustomer, res.User.Role, "registration defaults to customer")
	assert.Nil(t, res.User.PasswordHash, "hash never leaves the service")

	token, err := jwt.Parse(res.Token, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "1", claims["sub"])
	assert.Equal(t, "access", claims["token_type"])
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newAuthService(newStubUserStore())
	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@b.com", Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestLoginWrongPasswordAndUnknownEmailLookTheSame(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "asha@example.com", "correct-password", domain.RoleCustomer)
	svc := newAuthService(store)

	_, errWrongPass := svc.Login(context.Background(), "asha@example.com", "wrong-password")
	_, errNoUser := svc.Login(context.Background(), "ghost@example.com", "whatever")

	require.Error(t, errWrongPass)
	require.Error(t, errNoUser)
	assert.Equal(t, apperr.PublicMessage(errWrongPass), apperr.PublicMessage(errNoUser),
		"login failures must not reveal which factor was wrong")
	assert.Equal(t, 401, apperr.HTTPStatus(errWrongPass))
}

func TestLoginSuccess(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "asha@example.com", "correct-password", domain.RoleAdmin)
	svc := newAuthService(store)

	res, err := svc.Login(context.Background(), "asha@example.com", "correct-password")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	store := newStubUserStore()
	u := seedUser(t, store, "asha@example.com", "old-password", domain.RoleCustomer)
	svc := newAuthService(store)

	_, err := svc.ChangePassword(context.Background(), u.ID, "not-the-old-one", "new-password")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.HTTPStatus(err))

	res, err := svc.ChangePassword(context.Background(), u.ID, "old-password", "new-password")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(context.Background(), "asha@example.com", "new-password")
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "asha@example.com", "whatever-pass", domain.RoleCustomer)
	svc := newAuthService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Impostor", Email: "asha@example.com", Password: "longenough",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}
