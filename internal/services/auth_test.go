package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"guestlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHasher hashes by concatenation, good enough to verify wiring.
type fakeHasher struct {
	saltErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (f *fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes email and trims name", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, &fakeHasher{}, &fakeIssuer{}, time.Hour)

		user, err := svc.SignUp(ctx, " Grace@Example.COM ", "longenough", "  Grace  ")
		require.NoError(t, err)
		assert.Equal(t, "grace@example.com", user.Email)
		assert.Equal(t, "Grace", user.Name)
		assert.Equal(t, "salt:longenough", user.PasswordHash)
		assert.NotEmpty(t, user.ID)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), &fakeHasher{}, &fakeIssuer{}, time.Hour)
		_, err := svc.SignUp(ctx, "not-an-email", "longenough", "")
		v, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, v.Fields, "email")
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), &fakeHasher{}, &fakeIssuer{}, time.Hour)
		_, err := svc.SignUp(ctx, "grace@example.com", "short", "")
		v, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, v.Fields, "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, &fakeHasher{}, &fakeIssuer{}, time.Hour)
		_, err := svc.SignUp(ctx, "grace@example.com", "longenough", "")
		require.NoError(t, err)
		_, err = svc.SignUp(ctx, "grace@example.com", "longenough", "")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("salt generation failure", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), &fakeHasher{saltErr: errors.New("entropy")}, &fakeIssuer{}, time.Hour)
		_, err := svc.SignUp(ctx, "grace@example.com", "longenough", "")
		require.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (domain.AuthService, *domain.User) {
		t.Helper()
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, &fakeHasher{}, &fakeIssuer{}, time.Hour)
		user, err := svc.SignUp(ctx, "grace@example.com", "longenough", "Grace")
		require.NoError(t, err)
		return svc, user
	}

	t.Run("success", func(t *testing.T) {
		svc, user := setup(t)
		token, got, err := svc.Login(ctx, "Grace@Example.com", "longenough")
		require.NoError(t, err)
		assert.Equal(t, "token-for-"+user.ID, token)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := setup(t)
		_, _, err := svc.Login(ctx, "grace@example.com", "wrongpassword")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown user maps to unauthorized", func(t *testing.T) {
		svc, _ := setup(t)
		_, _, err := svc.Login(ctx, "nobody@example.com", "longenough")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("issuer failure", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, &fakeHasher{}, &fakeIssuer{}, time.Hour)
		_, err := svc.SignUp(ctx, "grace@example.com", "longenough", "")
		require.NoError(t, err)

		failing := NewAuthService(repo, &fakeHasher{}, &fakeIssuer{err: errors.New("hs256 down")}, time.Hour)
		_, _, err = failing.Login(ctx, "grace@example.com", "longenough")
		require.Error(t, err)
	})
}
