package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookswap/internal/shared/apperr"
	"bookswap/internal/shared/token"
)

type fakeRepo struct {
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]*User)}
}

func (f *fakeRepo) Create(_ context.Context, name, email, passwordHash string) (*User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, apperr.Conflict("email already registered")
	}
	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.byEmail[email] = user
	return user, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func newTestService(repo repoer) servicer {
	return NewService(repo, token.NewIssuer([]byte("test-secret"), time.Hour))
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	cases := []struct {
		name string
		in   SignupIn
	}{
		{"missing name", SignupIn{Email: "a@example.com", Password: "secret1"}},
		{"missing email", SignupIn{Name: "Alice", Password: "secret1"}},
		{"missing password", SignupIn{Name: "Alice", Email: "a@example.com"}},
		{"malformed email", SignupIn{Name: "Alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", SignupIn{Name: "Alice", Email: "a@example.com", Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestSignupNormalizesAndHashes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	user, err := svc.Signup(context.Background(), SignupIn{
		Name:     "Alice",
		Email:    "  Alice@Example.COM ",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	in := SignupIn{Name: "Alice", Email: "a@example.com", Password: "secret1"}
	_, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Signup(context.Background(), SignupIn{
		Name: "Alice", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	out, err := svc.Login(context.Background(), LoginIn{Email: "A@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	require.NotNil(t, out.User)
	assert.Equal(t, created.ID, out.User.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), SignupIn{
		Name: "Alice", Email: "a@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), LoginIn{Email: "a@example.com", Password: "nope00"})
	_, unknownEmail := svc.Login(context.Background(), LoginIn{Email: "b@example.com", Password: "secret1"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(wrongPassword))
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(unknownEmail))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestProfileOfDeletedUserIsAuthError(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Profile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}
