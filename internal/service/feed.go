package service

import (
	"context"
	"fmt"

	"whosbook/internal/domain"
)

// FeedService 列表读路径，全部只返回 ACTIVE
type FeedService struct {
	tx         Transactor
	curations  domain.CurationRepository
	members    IdentityStore
	categories CategoryStore
	ann        annotator
}

func NewFeedService(
	tx Transactor,
	curations domain.CurationRepository,
	members IdentityStore,
	categories CategoryStore,
	likes domain.LikeRepository,
	subs domain.SubscribeRepository,
) *FeedService {
	return &FeedService{
		tx:         tx,
		curations:  curations,
		members:    members,
		categories: categories,
		ann:        annotator{likes: likes, subs: subs},
	}
}

type feedPage = domain.Page[domain.CurationView]

func publicFilter(categoryID *uint64, order domain.FeedOrder) domain.CurationFilter {
	v := domain.VisibilityPublic
	return domain.CurationFilter{CategoryID: categoryID, Visibility: &v, Order: order}
}

func (s *FeedService) find(ctx context.Context, viewer domain.Identity, f domain.CurationFilter, page domain.PageRequest) (feedPage, error) {
	var out feedPage
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		if f.CategoryID != nil {
			if _, err := s.categories.ByID(ctx, *f.CategoryID); err != nil {
				return err
			}
		}
		items, total, err := s.curations.Find(ctx, f, page)
		if err != nil {
			return fmt.Errorf("find curations: %w", err)
		}
		views, err := s.ann.many(ctx, viewer, items)
		if err != nil {
			return err
		}
		out = domain.NewPage(views, page, total)
		return nil
	})
	return out, err
}

// Newest 最新公开 curation，可选分类
func (s *FeedService) Newest(ctx context.Context, viewer domain.Identity, categoryID *uint64, page domain.PageRequest) (feedPage, error) {
	return s.find(ctx, viewer, publicFilter(categoryID, domain.OrderNewest), page)
}

// Best 按点赞数倒序，相同点赞数时新的在前
func (s *FeedService) Best(ctx context.Context, viewer domain.Identity, categoryID *uint64, page domain.PageRequest) (feedPage, error) {
	return s.find(ctx, viewer, publicFilter(categoryID, domain.OrderBest), page)
}

func (s *FeedService) ByCategory(ctx context.Context, viewer domain.Identity, categoryID uint64, page domain.PageRequest) (feedPage, error) {
	return s.find(ctx, viewer, publicFilter(&categoryID, domain.OrderNewest), page)
}

// Mine 自己的 curation，包含 SECRET
func (s *FeedService) Mine(ctx context.Context, viewer domain.Identity, page domain.PageRequest) (feedPage, error) {
	me, err := s.members.ByEmail(ctx, viewer.Email)
	if err != nil {
		return feedPage{}, err
	}
	return s.find(ctx, viewer, domain.CurationFilter{MemberID: &me.ID}, page)
}

// OfMember 他人的公开 curation
func (s *FeedService) OfMember(ctx context.Context, viewer domain.Identity, memberID uint64, page domain.PageRequest) (feedPage, error) {
	target, err := s.members.ByID(ctx, memberID)
	if err != nil {
		return feedPage{}, err
	}
	v := domain.VisibilityPublic
	return s.find(ctx, viewer, domain.CurationFilter{MemberID: &target.ID, Visibility: &v}, page)
}

func (s *FeedService) liked(ctx context.Context, viewer domain.Identity, likerID uint64, page domain.PageRequest) (feedPage, error) {
	var out feedPage
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		items, total, err := s.curations.FindLikedBy(ctx, likerID, viewer.MemberID, page)
		if err != nil {
			return fmt.Errorf("find liked curations: %w", err)
		}
		views, err := s.ann.many(ctx, viewer, items)
		if err != nil {
			return err
		}
		out = domain.NewPage(views, page, total)
		return nil
	})
	return out, err
}

func (s *FeedService) LikedByMe(ctx context.Context, viewer domain.Identity, page domain.PageRequest) (feedPage, error) {
	me, err := s.members.ByEmail(ctx, viewer.Email)
	if err != nil {
		return feedPage{}, err
	}
	return s.liked(ctx, viewer, me.ID, page)
}

// LikedByMember 任意成员的点赞列表对所有调用方开放
func (s *FeedService) LikedByMember(ctx context.Context, viewer domain.Identity, memberID uint64, page domain.PageRequest) (feedPage, error) {
	target, err := s.members.ByID(ctx, memberID)
	if err != nil {
		return feedPage{}, err
	}
	return s.liked(ctx, viewer, target.ID, page)
}
