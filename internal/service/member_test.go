package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whosbook/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	m, err := e.members.Register(ctx, SignupInput{Email: " Alice@Whosbook.io ", Password: "password123", Nickname: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice@whosbook.io", m.Email)
	assert.Equal(t, domain.RoleUser, m.Role)
	assert.NotEqual(t, "password123", m.PasswordHash)

	_, err = e.members.Register(ctx, SignupInput{Email: "alice@whosbook.io", Password: "password123", Nickname: "other"})
	assert.ErrorIs(t, err, domain.ErrMemberExists)
	_, err = e.members.Register(ctx, SignupInput{Email: "new@whosbook.io", Password: "password123", Nickname: "alice"})
	assert.ErrorIs(t, err, domain.ErrNicknameExists)
	_, err = e.members.Register(ctx, SignupInput{Email: "bad", Password: "short", Nickname: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tok, who, err := e.members.Login(ctx, "alice@whosbook.io", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, m.ID, who.ID)

	_, _, err = e.members.Login(ctx, "alice@whosbook.io", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = e.members.Login(ctx, "nobody@whosbook.io", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestIdentityLookups(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")

	_, err := e.members.ByEmail(ctx, "ghost@whosbook.io")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	require.NoError(t, e.members.Withdraw(ctx, a))

	_, err = e.members.ByEmail(ctx, a.Email)
	assert.ErrorIs(t, err, domain.ErrMemberHasBeenDeleted)
	_, err = e.members.ByID(ctx, a.MemberID)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	_, _, err = e.members.Login(ctx, a.Email, "password123")
	assert.ErrorIs(t, err, domain.ErrMemberHasBeenDeleted)
}

func TestProfileSubscribedFlag(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.join(t, "alice"), e.join(t, "bob")

	p, err := e.members.Profile(ctx, a, b.MemberID)
	require.NoError(t, err)
	assert.False(t, p.Subscribed)

	_, err = e.social.Subscribe(ctx, a, b.MemberID)
	require.NoError(t, err)
	p, err = e.members.Profile(ctx, a, b.MemberID)
	require.NoError(t, err)
	assert.True(t, p.Subscribed)
	assert.Equal(t, "bob", p.Nickname)

	p, err = e.members.Profile(ctx, domain.Anonymous(), b.MemberID)
	require.NoError(t, err)
	assert.False(t, p.Subscribed)
}

func TestAdminListAndBan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.join(t, "alice"), e.join(t, "bob")

	_, err := e.members.List(ctx, a, "", domain.NewPageRequest(1, 10))
	assert.ErrorIs(t, err, domain.ErrMemberNoHaveAuthorization)
	assert.ErrorIs(t, e.members.Ban(ctx, a, b.MemberID), domain.ErrMemberNoHaveAuthorization)

	p, err := e.members.List(ctx, adminID, "bo", domain.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, b.MemberID, p.Items[0].ID)

	require.NoError(t, e.members.Ban(ctx, adminID, b.MemberID))
	_, err = e.members.ByEmail(ctx, b.Email)
	assert.ErrorIs(t, err, domain.ErrMemberHasBeenDeleted)
	assert.ErrorIs(t, e.members.Ban(ctx, adminID, b.MemberID), domain.ErrMemberNotFound)
}
