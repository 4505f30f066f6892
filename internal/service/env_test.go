package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"whosbook/internal/core/auth"
	"whosbook/internal/core/authz"
	"whosbook/internal/domain"
	"whosbook/internal/repo"
	"whosbook/internal/testkit"
)

type env struct {
	db         *gorm.DB
	members    *MemberService
	categories *CategoryService
	books      *BookService
	images     *ImageService
	curations  *CurationService
	feeds      *FeedService
	social     *SocialService
	ranking    *RankingService

	likeRepo *repo.LikeRepo
	bookRepo *repo.BookRepo
	curRepo  *repo.CurationRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testkit.NewDB(t)
	log := zaptest.NewLogger(t)

	tx := repo.NewTxManager(db)
	memberRepo := repo.NewMemberRepo(db)
	categoryRepo := repo.NewCategoryRepo(db)
	curationRepo := repo.NewCurationRepo(db)
	bookRepo := repo.NewBookRepo(db)
	likeRepo := repo.NewLikeRepo(db)
	subRepo := repo.NewSubscribeRepo(db)
	imageRepo := repo.NewImageRepo(db)

	policy, err := authz.New([]string{domain.RoleAdmin}, []string{"admin@email.com"})
	require.NoError(t, err)
	jwter := &auth.JWTer{Secret: []byte("test"), Issuer: "whosbook", TTL: time.Hour}

	e := &env{db: db, likeRepo: likeRepo, bookRepo: bookRepo, curRepo: curationRepo}
	e.members = NewMemberService(tx, memberRepo, subRepo, jwter, policy, log)
	e.categories = NewCategoryService(categoryRepo)
	e.books = NewBookService(bookRepo)
	e.images = NewImageService(imageRepo)
	e.curations = NewCurationService(tx, curationRepo, e.members, e.categories, e.books, e.images, likeRepo, subRepo, log)
	e.feeds = NewFeedService(tx, curationRepo, e.members, e.categories, likeRepo, subRepo)
	e.social = NewSocialService(tx, e.members, curationRepo, likeRepo, subRepo, log)
	e.ranking = NewRankingService(policy, memberRepo, curationRepo, e.social, nil, RankingOptions{TopCurators: 3})

	require.NoError(t, e.categories.Seed(context.Background(), []string{"novel", "essay", "poem"}))
	return e
}

// join 注册成员并返回其令牌身份
func (e *env) join(t *testing.T, nickname string) domain.Identity {
	t.Helper()
	m, err := e.members.Register(context.Background(), SignupInput{
		Email:    nickname + "@whosbook.io",
		Password: "password123",
		Nickname: nickname,
	})
	require.NoError(t, err)
	return domain.Identity{MemberID: m.ID, Email: m.Email, Role: m.Role}
}

func (e *env) category(t *testing.T, name string) uint64 {
	t.Helper()
	cs, err := e.categories.List(context.Background())
	require.NoError(t, err)
	for _, c := range cs {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("no category %s", name)
	return 0
}

func (e *env) draft(t *testing.T, vis domain.Visibility, isbn string) CurationDraft {
	t.Helper()
	return CurationDraft{
		CategoryID: e.category(t, "novel"),
		Emoji:      "📚",
		Title:      "title " + isbn,
		Content:    "content",
		Visibility: vis,
		Book:       domain.BookDescriptor{ISBN: isbn, Title: "book " + isbn},
	}
}

func (e *env) post(t *testing.T, id domain.Identity, vis domain.Visibility) *domain.CurationView {
	t.Helper()
	v, err := e.curations.Create(context.Background(), id, e.draft(t, vis, fmt.Sprintf("isbn-%d", time.Now().UnixNano())))
	require.NoError(t, err)
	return v
}

func (e *env) image(t *testing.T, owner domain.Identity, key string) uint64 {
	t.Helper()
	img, err := e.images.Register(context.Background(), owner.MemberID, ImageInput{ImageKey: key, ImageURL: "https://img.whosbook.io/" + key})
	require.NoError(t, err)
	return img.ID
}

func viewIDs(p domain.Page[domain.CurationView]) []uint64 {
	out := make([]uint64, 0, len(p.Items))
	for _, v := range p.Items {
		out = append(out, v.ID)
	}
	return out
}
