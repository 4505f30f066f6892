package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"whosbook/internal/domain"
	"whosbook/internal/repo"
)

type spyImages struct {
	ImageVerifier
	verifyCalls, attachCalls int
}

func (s *spyImages) VerifyOwnedUnclaimed(ctx context.Context, ids []uint64, ownerID, curationID uint64) ([]uint64, error) {
	s.verifyCalls++
	return s.ImageVerifier.VerifyOwnedUnclaimed(ctx, ids, ownerID, curationID)
}

func (s *spyImages) Attach(ctx context.Context, curationID uint64, ids []uint64) error {
	if len(ids) > 0 {
		s.attachCalls++
	}
	return s.ImageVerifier.Attach(ctx, curationID, ids)
}

type spyBooks struct {
	BookLinker
	linkWrites int
}

func (s *spyBooks) Link(ctx context.Context, curationID uint64, b *domain.Book) error {
	s.linkWrites++
	return s.BookLinker.Link(ctx, curationID, b)
}

func (s *spyBooks) ReplaceLink(ctx context.Context, curationID uint64, b *domain.Book) error {
	s.linkWrites++
	return s.BookLinker.ReplaceLink(ctx, curationID, b)
}

// withSpies 用记录调用次数的依赖重建 CurationService
func withSpies(t *testing.T, e *env) (*CurationService, *spyImages, *spyBooks) {
	t.Helper()
	imgs := &spyImages{ImageVerifier: e.images}
	books := &spyBooks{BookLinker: e.books}
	svc := NewCurationService(repo.NewTxManager(e.db), e.curRepo, e.members, e.categories, books, imgs,
		e.likeRepo, repo.NewSubscribeRepo(e.db), zaptest.NewLogger(t))
	return svc, imgs, books
}

func TestCurationLifecycleScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	b := e.join(t, "bob")

	x, err := e.curations.Create(ctx, a, e.draft(t, domain.VisibilityPublic, "111"))
	require.NoError(t, err)
	assert.Equal(t, domain.CurationActive, x.Status)
	require.NotNil(t, x.CurrentBook())
	assert.Equal(t, "111", x.CurrentBook().Book.ISBN)
	assert.Equal(t, "alice", x.Member.Nickname)

	title := "hijack"
	_, err = e.curations.Update(ctx, b, x.ID, CurationPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrCurationCannotChange)

	err = e.curations.Delete(ctx, b, x.ID)
	assert.ErrorIs(t, err, domain.ErrCurationCannotDelete)

	require.NoError(t, e.curations.Delete(ctx, a, x.ID))
	stored, err := e.curRepo.FindByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CurationDeleted, stored.Status)

	err = e.curations.Delete(ctx, a, x.ID)
	assert.ErrorIs(t, err, domain.ErrCurationHasBeenDeleted)

	_, err = e.curations.Update(ctx, a, x.ID, CurationPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrCurationHasBeenDeleted)
}

func TestGetAfterDeleteIsHasBeenDeleted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	b := e.join(t, "bob")

	x := e.post(t, a, domain.VisibilityPublic)
	require.NoError(t, e.curations.Delete(ctx, a, x.ID))

	for _, viewer := range []domain.Identity{a, b, domain.Anonymous()} {
		_, err := e.curations.Get(ctx, viewer, x.ID)
		assert.ErrorIs(t, err, domain.ErrCurationHasBeenDeleted)
		assert.NotErrorIs(t, err, domain.ErrCurationNotFound)
	}

	_, err := e.curations.Get(ctx, a, 9999)
	assert.ErrorIs(t, err, domain.ErrCurationNotFound)
}

func TestSecretIsDeniedToOthersRegardlessOfStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	b := e.join(t, "bob")

	active := e.post(t, a, domain.VisibilitySecret)
	deleted := e.post(t, a, domain.VisibilitySecret)
	require.NoError(t, e.curations.Delete(ctx, a, deleted.ID))

	for _, id := range []uint64{active.ID, deleted.ID} {
		_, err := e.curations.Get(ctx, b, id)
		assert.ErrorIs(t, err, domain.ErrCurationAccessDenied)
		_, err = e.curations.Get(ctx, domain.Anonymous(), id)
		assert.ErrorIs(t, err, domain.ErrCurationAccessDenied)
	}

	got, err := e.curations.Get(ctx, a, active.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilitySecret, got.Visibility)
}

func TestCreateValidatesOwnerAndCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")

	_, err := e.curations.Create(ctx, domain.Identity{Email: "ghost@whosbook.io"}, e.draft(t, domain.VisibilityPublic, "1"))
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	d := e.draft(t, domain.VisibilityPublic, "1")
	d.CategoryID = 424242
	_, err = e.curations.Create(ctx, a, d)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	d = e.draft(t, "FRIENDS", "1")
	_, err = e.curations.Create(ctx, a, d)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d = e.draft(t, domain.VisibilityPublic, "")
	_, err = e.curations.Create(ctx, a, d)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, e.members.Withdraw(ctx, a))
	_, err = e.curations.Create(ctx, a, e.draft(t, domain.VisibilityPublic, "1"))
	assert.ErrorIs(t, err, domain.ErrMemberHasBeenDeleted)
}

func TestCreateWithoutImagesSkipsImageOperations(t *testing.T) {
	e := newEnv(t)
	svc, imgs, books := withSpies(t, e)
	a := e.join(t, "alice")

	d := e.draft(t, domain.VisibilityPublic, "111")
	d.ImageIDs = []uint64{}
	_, err := svc.Create(context.Background(), a, d)
	require.NoError(t, err)

	assert.Zero(t, imgs.verifyCalls)
	assert.Zero(t, imgs.attachCalls)
	assert.Equal(t, 1, books.linkWrites)
}

func TestCreateWithImages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	b := e.join(t, "bob")

	mine := e.image(t, a, "a1")
	theirs := e.image(t, b, "b1")

	d := e.draft(t, domain.VisibilityPublic, "111")
	d.ImageIDs = []uint64{mine, mine}
	x, err := e.curations.Create(ctx, a, d)
	require.NoError(t, err)

	// 已被认领的图片不能再用于另一篇
	d = e.draft(t, domain.VisibilityPublic, "222")
	d.ImageIDs = []uint64{mine}
	_, err = e.curations.Create(ctx, a, d)
	assert.ErrorIs(t, err, domain.ErrImageVerificationFailed)

	// 他人的图片
	d = e.draft(t, domain.VisibilityPublic, "333")
	d.ImageIDs = []uint64{theirs}
	_, err = e.curations.Create(ctx, a, d)
	assert.ErrorIs(t, err, domain.ErrImageVerificationFailed)

	// 校验失败整体回滚，不留下孤立的 curation
	mineFeed, err := e.feeds.Mine(ctx, a, domain.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []uint64{x.ID}, viewIDs(mineFeed))

	// 更新时本篇已有的图片被跳过
	extra := e.image(t, a, "a2")
	_, err = e.curations.Update(ctx, a, x.ID, CurationPatch{ImageIDs: []uint64{mine, extra}})
	require.NoError(t, err)
}

func TestUpdateBookLink(t *testing.T) {
	e := newEnv(t)
	svc, _, books := withSpies(t, e)
	ctx := context.Background()
	a := e.join(t, "alice")

	x, err := svc.Create(ctx, a, e.draft(t, domain.VisibilityPublic, "111"))
	require.NoError(t, err)
	before, err := e.bookRepo.Links(ctx, x.ID)
	require.NoError(t, err)
	require.Len(t, before, 1)
	books.linkWrites = 0

	same := domain.BookDescriptor{ISBN: "111", Title: "renamed"}
	_, err = svc.Update(ctx, a, x.ID, CurationPatch{Book: &same})
	require.NoError(t, err)
	assert.Zero(t, books.linkWrites)
	after, err := e.bookRepo.Links(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, before[0].ID, after[0].ID)

	other := domain.BookDescriptor{ISBN: "222", Title: "other"}
	v, err := svc.Update(ctx, a, x.ID, CurationPatch{Book: &other})
	require.NoError(t, err)
	assert.Equal(t, 1, books.linkWrites)

	after, err = e.bookRepo.Links(ctx, x.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "222", after[0].Book.ISBN)
	assert.NotEqual(t, before[0].ID, after[0].ID)
	assert.Equal(t, "222", v.CurrentBook().Book.ISBN)
}

func TestUpdateAppliesPatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.join(t, "alice")
	x := e.post(t, a, domain.VisibilityPublic)

	title := "  new title "
	vis := domain.VisibilitySecret
	essay := e.category(t, "essay")
	v, err := e.curations.Update(ctx, a, x.ID, CurationPatch{Title: &title, Visibility: &vis, CategoryID: &essay})
	require.NoError(t, err)
	assert.Equal(t, "new title", v.Title)
	assert.Equal(t, domain.VisibilitySecret, v.Visibility)
	assert.Equal(t, "essay", v.Category.Name)
	assert.Equal(t, x.Content, v.Content)

	missing := uint64(777)
	_, err = e.curations.Update(ctx, a, x.ID, CurationPatch{CategoryID: &missing})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = e.curations.Update(ctx, a, 9999, CurationPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrCurationNotFound)
}

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b1, err := e.books.ResolveOrCreate(ctx, domain.BookDescriptor{ISBN: "978", Title: "one"})
	require.NoError(t, err)
	b2, err := e.books.ResolveOrCreate(ctx, domain.BookDescriptor{ISBN: " 978 ", Title: "two"})
	require.NoError(t, err)
	assert.Equal(t, b1.ID, b2.ID)

	var n int64
	require.NoError(t, e.db.Model(&domain.Book{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = e.books.ResolveOrCreate(ctx, domain.BookDescriptor{Title: "no isbn"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
