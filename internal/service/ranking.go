package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whosbook/internal/core/authz"
	"whosbook/internal/core/cache"
	"whosbook/internal/domain"
)

// RankingOptions 排行相关参数
type RankingOptions struct {
	TopCurators  int
	RankingTTL   time.Duration
	DashboardTTL time.Duration
}

// MostSubscribed 被关注最多的成员
type MostSubscribed struct {
	Member          domain.Member `json:"member"`
	SubscriberCount int64         `json:"subscriberCount"`
}

// Dashboard 管理端首页的四项聚合
type Dashboard struct {
	TotalCurations int64                `json:"totalCurations"`
	TotalMembers   int64                `json:"totalMembers"`
	MostSubscribed *MostSubscribed      `json:"mostSubscribed"`
	TopCurators    []domain.CuratorStat `json:"topCurators"`
}

// RankingService 管理端聚合统计，全部需要管理权限
type RankingService struct {
	policy    AdminPolicy
	members   domain.MemberRepository
	curations domain.CurationRepository
	social    *SocialService
	cache     *cache.Cache
	opt       RankingOptions
}

func NewRankingService(
	policy AdminPolicy,
	members domain.MemberRepository,
	curations domain.CurationRepository,
	social *SocialService,
	c *cache.Cache,
	opt RankingOptions,
) *RankingService {
	if opt.TopCurators <= 0 {
		opt.TopCurators = 5
	}
	return &RankingService{policy: policy, members: members, curations: curations, social: social, cache: c, opt: opt}
}

func (s *RankingService) authorize(id domain.Identity) error {
	ok, err := s.policy.Allow(id, authz.ObjectStats, authz.ActRead)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if !ok {
		return domain.ErrMemberNoHaveAuthorization
	}
	return nil
}

// TotalCurations 全部 curation 行数（含已删除）
func (s *RankingService) TotalCurations(ctx context.Context, id domain.Identity) (int64, error) {
	if err := s.authorize(id); err != nil {
		return 0, err
	}
	return s.curations.Count(ctx)
}

func (s *RankingService) TotalMembers(ctx context.Context, id domain.Identity) (int64, error) {
	if err := s.authorize(id); err != nil {
		return 0, err
	}
	return s.members.Count(ctx)
}

func (s *RankingService) MostSubscribed(ctx context.Context, id domain.Identity) (*MostSubscribed, error) {
	if err := s.authorize(id); err != nil {
		return nil, err
	}
	m, n, err := s.social.MostSubscribedMember(ctx)
	if err != nil {
		return nil, err
	}
	return &MostSubscribed{Member: *m, SubscriberCount: n}, nil
}

// TopCurators 按 ACTIVE curation 数取前 n 名；n<=0 用配置值
func (s *RankingService) TopCurators(ctx context.Context, id domain.Identity, n int) ([]domain.CuratorStat, error) {
	if err := s.authorize(id); err != nil {
		return nil, err
	}
	return s.topCurators(ctx, n)
}

func (s *RankingService) topCurators(ctx context.Context, n int) ([]domain.CuratorStat, error) {
	if n <= 0 {
		n = s.opt.TopCurators
	}
	rows, _, err := s.members.RankCurators(ctx, domain.ByCurationCount, domain.NewPageRequest(1, n))
	if err != nil {
		return nil, fmt.Errorf("rank curators: %w", err)
	}
	return rows, nil
}

// BestCurators curation 数 → 订阅数 → 获赞数 → id
func (s *RankingService) BestCurators(ctx context.Context, id domain.Identity, page domain.PageRequest) (domain.Page[domain.CuratorStat], error) {
	if err := s.authorize(id); err != nil {
		return domain.Page[domain.CuratorStat]{}, err
	}
	key := fmt.Sprintf("ranking:best:%d:%d", page.Page, page.Size)
	p, err := cache.GetOrLoadJSON(s.cache, ctx, key, s.opt.RankingTTL,
		func(ctx context.Context) (*domain.Page[domain.CuratorStat], error) {
			rows, total, err := s.members.RankCurators(ctx, domain.ByCuratorQuality, page)
			if err != nil {
				return nil, fmt.Errorf("rank curators: %w", err)
			}
			out := domain.NewPage(rows, page, total)
			return &out, nil
		})
	if err != nil {
		return domain.Page[domain.CuratorStat]{}, err
	}
	return *p, nil
}

// Dashboard 没有关注数据时 MostSubscribed 为空，不视为错误
func (s *RankingService) Dashboard(ctx context.Context, id domain.Identity) (*Dashboard, error) {
	if err := s.authorize(id); err != nil {
		return nil, err
	}
	return cache.GetOrLoadJSON(s.cache, ctx, "ranking:dashboard", s.opt.DashboardTTL,
		func(ctx context.Context) (*Dashboard, error) {
			var (
				d   Dashboard
				err error
			)
			if d.TotalCurations, err = s.curations.Count(ctx); err != nil {
				return nil, fmt.Errorf("count curations: %w", err)
			}
			if d.TotalMembers, err = s.members.Count(ctx); err != nil {
				return nil, fmt.Errorf("count members: %w", err)
			}
			m, n, err := s.social.MostSubscribedMember(ctx)
			switch {
			case err == nil:
				d.MostSubscribed = &MostSubscribed{Member: *m, SubscriberCount: n}
			case errors.Is(err, domain.ErrMemberNotFound):
			default:
				return nil, err
			}
			if d.TopCurators, err = s.topCurators(ctx, 0); err != nil {
				return nil, err
			}
			return &d, nil
		})
}
