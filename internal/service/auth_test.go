package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/myprogress/internal/db/dbtest"
	"github.com/templui/myprogress/internal/repository"
	"github.com/templui/myprogress/internal/token"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *token.Issuer) {
	t.Helper()
	issuer := token.NewIssuer("secret", time.Hour)
	s := NewAuthService(repository.NewUserRepository(dbtest.New(t)), issuer)
	s.bcryptCost = bcrypt.MinCost
	return s, issuer
}

func TestRegisterThenLogin(t *testing.T) {
	s, issuer := newAuthService(t)
	ctx := context.Background()

	session, err := s.Register(ctx, "ana", " Ana@Example.com ", "guitar-hero-42")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", session.User.Email)
	assert.Nil(t, session.User.PasswordHash)

	userID, err := issuer.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, userID)

	login, err := s.Login(ctx, "ana@example.com", "guitar-hero-42")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = s.Login(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@example.com", "guitar-hero-42")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "ana", "ana@example.com", "guitar-hero-42")
	require.NoError(t, err)

	cases := []struct {
		name, username, email, password string
	}{
		{"duplicate email", "ana2", "ANA@example.com", "guitar-hero-42"},
		{"no username", "", "bo@example.com", "guitar-hero-42"},
		{"bad email", "bo", "bo", "guitar-hero-42"},
		{"short password", "bo", "bo@example.com", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(ctx, tc.username, tc.email, tc.password)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestIssueFor(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	session, err := s.Register(ctx, "ana", "ana@example.com", "guitar-hero-42")
	require.NoError(t, err)

	issued, err := s.IssueFor(ctx, session.User.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)

	_, err = s.IssueFor(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
