package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whosbook/internal/domain"
)

func TestSubscribedFlagFollowsSubscription(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	b := e.join(t, "bob")

	_, err := e.social.Subscribe(ctx, a, b.MemberID)
	require.NoError(t, err)
	y := e.post(t, b, domain.VisibilityPublic)

	got, err := e.curations.Get(ctx, a, y.ID)
	require.NoError(t, err)
	assert.True(t, got.Subscribed)
	assert.False(t, got.Liked)

	_, err = e.social.Unsubscribe(ctx, a, b.MemberID)
	require.NoError(t, err)

	got, err = e.curations.Get(ctx, a, y.ID)
	require.NoError(t, err)
	assert.False(t, got.Subscribed)

	anon, err := e.curations.Get(ctx, domain.Anonymous(), y.ID)
	require.NoError(t, err)
	assert.False(t, anon.Subscribed)
	assert.False(t, anon.Liked)
}

func TestSubscribeRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	b := e.join(t, "bob")

	_, err := e.social.Subscribe(ctx, a, a.MemberID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.social.Subscribe(ctx, a, 9999)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	for i := 0; i < 2; i++ {
		st, err := e.social.Subscribe(ctx, a, b.MemberID)
		require.NoError(t, err)
		assert.True(t, st.Subscribed)
	}
	ok, err := e.social.IsSubscribed(ctx, a.MemberID, b.MemberID)
	require.NoError(t, err)
	assert.True(t, ok)

	subs, err := e.social.SubscribersOf(ctx, b.MemberID, domain.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), subs.TotalElements)
	assert.Equal(t, a.MemberID, subs.Items[0].ID)

	following, err := e.social.SubscriptionsOf(ctx, a.MemberID, domain.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, b.MemberID, following.Items[0].ID)

	ok, err = e.social.IsSubscribed(ctx, 0, b.MemberID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLikeAndUnlike(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	b := e.join(t, "bob")

	x := e.post(t, a, domain.VisibilityPublic)
	secret := e.post(t, a, domain.VisibilitySecret)

	st, err := e.social.Like(ctx, b, x.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.LikeCount)
	st, err = e.social.Like(ctx, b, x.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.LikeCount)

	got, err := e.curations.Get(ctx, b, x.ID)
	require.NoError(t, err)
	assert.True(t, got.Liked)
	assert.Equal(t, int64(1), got.LikeCount)

	ok, err := e.social.IsLiked(ctx, b.MemberID, x.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	st, err = e.social.Unlike(ctx, b, x.ID)
	require.NoError(t, err)
	assert.False(t, st.Liked)
	assert.Zero(t, st.LikeCount)

	_, err = e.social.Like(ctx, b, secret.ID)
	assert.ErrorIs(t, err, domain.ErrCurationAccessDenied)

	require.NoError(t, e.curations.Delete(ctx, a, x.ID))
	_, err = e.social.Like(ctx, b, x.ID)
	assert.ErrorIs(t, err, domain.ErrCurationHasBeenDeleted)
}

func TestMostSubscribedMember(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, _, err := e.social.MostSubscribedMember(ctx)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	a, b, c := e.join(t, "alice"), e.join(t, "bob"), e.join(t, "carol")
	_, err = e.social.Subscribe(ctx, a, c.MemberID)
	require.NoError(t, err)
	_, err = e.social.Subscribe(ctx, b, c.MemberID)
	require.NoError(t, err)
	_, err = e.social.Subscribe(ctx, c, b.MemberID)
	require.NoError(t, err)

	m, n, err := e.social.MostSubscribedMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.MemberID, m.ID)
	assert.Equal(t, int64(2), n)

	// 并列时取 id 较小者
	_, err = e.social.Subscribe(ctx, a, b.MemberID)
	require.NoError(t, err)
	m, _, err = e.social.MostSubscribedMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.MemberID, m.ID)
}

func TestMostSubscribedMemberSkipsWithdrawnLeader(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, b, c, d := e.join(t, "alice"), e.join(t, "bob"), e.join(t, "carol"), e.join(t, "dave")
	for _, fan := range []domain.Identity{b, c, d} {
		_, err := e.social.Subscribe(ctx, fan, a.MemberID)
		require.NoError(t, err)
	}
	_, err := e.social.Subscribe(ctx, c, b.MemberID)
	require.NoError(t, err)

	m, n, err := e.social.MostSubscribedMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.MemberID, m.ID)
	assert.Equal(t, int64(3), n)

	require.NoError(t, e.members.Withdraw(ctx, a))
	m, n, err = e.social.MostSubscribedMember(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.MemberID, m.ID)
	assert.Equal(t, int64(1), n)

	got, err := e.ranking.MostSubscribed(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, b.MemberID, got.Member.ID)
}
