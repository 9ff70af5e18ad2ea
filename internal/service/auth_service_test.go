package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{
		Email:    "bob@example.com",
		Username: "Bob_1",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bob_1", resp.User.Username, "username is stored lowercase")
	assert.NotEqual(t, "Sup3rSecret", resp.User.PasswordHash)

	login, err := svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRegisterConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Username: "bob_1", Password: "Sup3rSecret"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "bob@example.com", Username: "other", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// username conflicts are case-insensitive
	_, err = svc.Register(ctx, RegisterInput{Email: "bob2@example.com", Username: "BOB_1", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
