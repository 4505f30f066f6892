package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"whosbook/internal/domain"
)

type SocialService struct {
	tx        Transactor
	members   IdentityStore
	curations domain.CurationRepository
	likes     domain.LikeRepository
	subs      domain.SubscribeRepository
	log       *zap.Logger
}

func NewSocialService(
	tx Transactor,
	members IdentityStore,
	curations domain.CurationRepository,
	likes domain.LikeRepository,
	subs domain.SubscribeRepository,
	log *zap.Logger,
) *SocialService {
	return &SocialService{tx: tx, members: members, curations: curations, likes: likes, subs: subs, log: log}
}

// LikeState 点赞操作后的结果
type LikeState struct {
	CurationID uint64 `json:"curationId"`
	Liked      bool   `json:"liked"`
	LikeCount  int64  `json:"curationLikeCount"`
}

// SubscribeState 关注操作后的结果
type SubscribeState struct {
	MemberID   uint64 `json:"memberId"`
	Subscribed bool   `json:"subscribed"`
}

func (s *SocialService) IsSubscribed(ctx context.Context, subscriberID, memberID uint64) (bool, error) {
	if subscriberID == 0 {
		return false, nil
	}
	return s.subs.Exists(ctx, subscriberID, memberID)
}

func (s *SocialService) IsLiked(ctx context.Context, memberID, curationID uint64) (bool, error) {
	if memberID == 0 {
		return false, nil
	}
	return s.likes.Exists(ctx, memberID, curationID)
}

func (s *SocialService) SubscribersOf(ctx context.Context, memberID uint64, page domain.PageRequest) (domain.Page[domain.Member], error) {
	target, err := s.members.ByID(ctx, memberID)
	if err != nil {
		return domain.Page[domain.Member]{}, err
	}
	ms, total, err := s.subs.Subscribers(ctx, target.ID, page)
	if err != nil {
		return domain.Page[domain.Member]{}, fmt.Errorf("list subscribers: %w", err)
	}
	return domain.NewPage(ms, page, total), nil
}

func (s *SocialService) SubscriptionsOf(ctx context.Context, memberID uint64, page domain.PageRequest) (domain.Page[domain.Member], error) {
	target, err := s.members.ByID(ctx, memberID)
	if err != nil {
		return domain.Page[domain.Member]{}, err
	}
	ms, total, err := s.subs.Subscriptions(ctx, target.ID, page)
	if err != nil {
		return domain.Page[domain.Member]{}, fmt.Errorf("list subscriptions: %w", err)
	}
	return domain.NewPage(ms, page, total), nil
}

// MostSubscribedMember 并列时取 id 最小；没有任何关注关系时 ErrMemberNotFound
func (s *SocialService) MostSubscribedMember(ctx context.Context) (*domain.Member, int64, error) {
	id, n, ok, err := s.subs.MostSubscribed(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("most subscribed: %w", err)
	}
	if !ok {
		return nil, 0, domain.ErrMemberNotFound
	}
	m, err := s.members.ByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return m, n, nil
}

func (s *SocialService) Subscribe(ctx context.Context, id domain.Identity, memberID uint64) (*SubscribeState, error) {
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		me, err := s.members.ByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		if me.ID == memberID {
			return domain.ErrInvalidInput.WithMessage("cannot subscribe to yourself")
		}
		if _, err := s.members.ByID(ctx, memberID); err != nil {
			return err
		}
		return s.subs.Create(ctx, me.ID, memberID)
	})
	if err != nil {
		return nil, err
	}
	count(evSubscribed)
	s.log.Debug("subscribed", zap.Uint64("memberId", memberID), zap.String("by", id.Email))
	return &SubscribeState{MemberID: memberID, Subscribed: true}, nil
}

func (s *SocialService) Unsubscribe(ctx context.Context, id domain.Identity, memberID uint64) (*SubscribeState, error) {
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		me, err := s.members.ByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		return s.subs.Delete(ctx, me.ID, memberID)
	})
	if err != nil {
		return nil, err
	}
	count(evUnsubscribed)
	return &SubscribeState{MemberID: memberID, Subscribed: false}, nil
}

// readable 点赞前的可读性校验，顺序同 CurationService.Get
func (s *SocialService) readable(ctx context.Context, me *domain.Member, curationID uint64) (*domain.Curation, error) {
	c, err := s.curations.FindByID(ctx, curationID)
	if err != nil {
		return nil, fmt.Errorf("find curation: %w", err)
	}
	if c == nil {
		return nil, domain.ErrCurationNotFound
	}
	if !c.VisibleTo(me.ID) {
		return nil, domain.ErrCurationAccessDenied
	}
	if c.IsDeleted() {
		return nil, domain.ErrCurationHasBeenDeleted
	}
	return c, nil
}

func (s *SocialService) toggleLike(ctx context.Context, id domain.Identity, curationID uint64, like bool) (*LikeState, error) {
	state := &LikeState{CurationID: curationID, Liked: like}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		me, err := s.members.ByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		if _, err := s.readable(ctx, me, curationID); err != nil {
			return err
		}
		if like {
			err = s.likes.Create(ctx, me.ID, curationID)
		} else {
			err = s.likes.Delete(ctx, me.ID, curationID)
		}
		if err != nil {
			return fmt.Errorf("save like: %w", err)
		}
		if err := s.curations.RefreshLikeCount(ctx, curationID); err != nil {
			return fmt.Errorf("refresh like count: %w", err)
		}
		c, err := s.curations.FindByID(ctx, curationID)
		if err != nil {
			return fmt.Errorf("reload curation: %w", err)
		}
		state.LikeCount = c.LikeCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	if like {
		count(evLiked)
	} else {
		count(evUnliked)
	}
	return state, nil
}

func (s *SocialService) Like(ctx context.Context, id domain.Identity, curationID uint64) (*LikeState, error) {
	return s.toggleLike(ctx, id, curationID, true)
}

func (s *SocialService) Unlike(ctx context.Context, id domain.Identity, curationID uint64) (*LikeState, error) {
	return s.toggleLike(ctx, id, curationID, false)
}
