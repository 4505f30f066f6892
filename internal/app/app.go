// Package app 组装仓储与服务，供 cmd/api、cmd/admin 与集成测试共用。
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"whosbook/internal/core/auth"
	"whosbook/internal/core/authz"
	"whosbook/internal/core/cache"
	"whosbook/internal/core/config"
	"whosbook/internal/core/database"
	"whosbook/internal/repo"
	"whosbook/internal/service"
)

type Services struct {
	DB    *gorm.DB
	Cache *cache.Cache
	JWT   *auth.JWTer

	Members    *service.MemberService
	Categories *service.CategoryService
	Books      *service.BookService
	Images     *service.ImageService
	Curations  *service.CurationService
	Feeds      *service.FeedService
	Social     *service.SocialService
	Ranking    *service.RankingService
}

func New(db *gorm.DB, c *cache.Cache, jwter *auth.JWTer, policy service.AdminPolicy, opt service.RankingOptions, log *zap.Logger) *Services {
	tx := repo.NewTxManager(db)
	memberRepo := repo.NewMemberRepo(db)
	curationRepo := repo.NewCurationRepo(db)
	likeRepo := repo.NewLikeRepo(db)
	subRepo := repo.NewSubscribeRepo(db)

	s := &Services{DB: db, Cache: c, JWT: jwter}
	s.Members = service.NewMemberService(tx, memberRepo, subRepo, jwter, policy, log.Named("member"))
	s.Categories = service.NewCategoryService(repo.NewCategoryRepo(db))
	s.Books = service.NewBookService(repo.NewBookRepo(db))
	s.Images = service.NewImageService(repo.NewImageRepo(db))
	s.Curations = service.NewCurationService(tx, curationRepo, s.Members, s.Categories, s.Books, s.Images,
		likeRepo, subRepo, log.Named("curation"))
	s.Feeds = service.NewFeedService(tx, curationRepo, s.Members, s.Categories, likeRepo, subRepo)
	s.Social = service.NewSocialService(tx, s.Members, curationRepo, likeRepo, subRepo, log.Named("social"))
	s.Ranking = service.NewRankingService(policy, memberRepo, curationRepo, s.Social, c, opt)
	return s
}

// Probes /health 检查项
func (s *Services) Probes() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"db":    func(ctx context.Context) error { return database.Ping(ctx, s.DB) },
		"cache": s.Cache.Ping,
	}
}

// FromConfig 按配置创建缓存、令牌、权限策略并组装服务，同时补齐分类
func FromConfig(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*Services, error) {
	policy, err := authz.New(cfg.Admin.Roles, cfg.Admin.Emails)
	if err != nil {
		return nil, err
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if c == nil {
		log.Warn("redis not configured, ranking cache disabled")
	}

	s := New(db, c, jwter, policy, service.RankingOptions{
		TopCurators:  cfg.Feed.TopCurators,
		RankingTTL:   time.Duration(cfg.Cache.RankingTTLSec) * time.Second,
		DashboardTTL: time.Duration(cfg.Cache.DashboardTTLSec) * time.Second,
	}, log)
	if err := s.Categories.Seed(ctx, cfg.Categories); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return s, nil
}

// Close 释放缓存连接；数据库由调用方关闭
func (s *Services) Close() error { return s.Cache.Close() }
