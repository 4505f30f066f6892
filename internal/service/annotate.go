package service

import (
	"context"
	"fmt"

	"whosbook/internal/domain"
)

// annotator 计算查看者相关的 liked/subscribed 标记
type annotator struct {
	likes domain.LikeRepository
	subs  domain.SubscribeRepository
}

func (a annotator) one(ctx context.Context, viewer domain.Identity, c *domain.Curation) (*domain.CurationView, error) {
	views, err := a.many(ctx, viewer, []domain.Curation{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// many 每页固定两次查询，不随条数增长
func (a annotator) many(ctx context.Context, viewer domain.Identity, cs []domain.Curation) ([]domain.CurationView, error) {
	out := make([]domain.CurationView, 0, len(cs))
	if viewer.IsAnonymous() || viewer.MemberID == 0 || len(cs) == 0 {
		for _, c := range cs {
			out = append(out, domain.CurationView{Curation: c})
		}
		return out, nil
	}

	curationIDs := make([]uint64, 0, len(cs))
	curatorIDs := make([]uint64, 0, len(cs))
	for _, c := range cs {
		curationIDs = append(curationIDs, c.ID)
		if c.MemberID != viewer.MemberID {
			curatorIDs = append(curatorIDs, c.MemberID)
		}
	}
	liked, err := a.likes.LikedAmong(ctx, viewer.MemberID, curationIDs)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	subscribed, err := a.subs.SubscribedAmong(ctx, viewer.MemberID, dedupe(curatorIDs))
	if err != nil {
		return nil, fmt.Errorf("load subscribes: %w", err)
	}
	for _, c := range cs {
		out = append(out, domain.CurationView{
			Curation:   c,
			Liked:      liked[c.ID],
			Subscribed: subscribed[c.MemberID],
		})
	}
	return out, nil
}
