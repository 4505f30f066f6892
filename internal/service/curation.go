package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"whosbook/internal/domain"
)

// CurationDraft 新建 curation 的输入
type CurationDraft struct {
	CategoryID uint64                `json:"categoryId" validate:"required"`
	Emoji      string                `json:"emoji" validate:"max=32"`
	Title      string                `json:"title" validate:"required,max=200"`
	Content    string                `json:"content" validate:"required"`
	Visibility domain.Visibility     `json:"visibility" validate:"required,oneof=PUBLIC SECRET"`
	Book       domain.BookDescriptor `json:"book"`
	ImageIDs   []uint64              `json:"imageIds" validate:"max=20,dive,gt=0"`
}

// CurationPatch nil 字段保持不变
type CurationPatch struct {
	CategoryID *uint64                `json:"categoryId" validate:"omitempty,gt=0"`
	Emoji      *string                `json:"emoji" validate:"omitempty,max=32"`
	Title      *string                `json:"title" validate:"omitempty,min=1,max=200"`
	Content    *string                `json:"content" validate:"omitempty,min=1"`
	Visibility *domain.Visibility     `json:"visibility" validate:"omitempty,oneof=PUBLIC SECRET"`
	Book       *domain.BookDescriptor `json:"book"`
	ImageIDs   []uint64               `json:"imageIds" validate:"max=20,dive,gt=0"`
}

type CurationService struct {
	tx         Transactor
	curations  domain.CurationRepository
	members    IdentityStore
	categories CategoryStore
	books      BookLinker
	images     ImageVerifier
	ann        annotator
	log        *zap.Logger
}

func NewCurationService(
	tx Transactor,
	curations domain.CurationRepository,
	members IdentityStore,
	categories CategoryStore,
	books BookLinker,
	images ImageVerifier,
	likes domain.LikeRepository,
	subs domain.SubscribeRepository,
	log *zap.Logger,
) *CurationService {
	return &CurationService{
		tx:         tx,
		curations:  curations,
		members:    members,
		categories: categories,
		books:      books,
		images:     images,
		ann:        annotator{likes: likes, subs: subs},
		log:        log,
	}
}

func (s *CurationService) Create(ctx context.Context, id domain.Identity, d CurationDraft) (*domain.CurationView, error) {
	var view *domain.CurationView
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		owner, err := s.members.ByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		d.Title = strings.TrimSpace(d.Title)
		if err := validateStruct(d); err != nil {
			return err
		}
		if _, err := s.categories.ByID(ctx, d.CategoryID); err != nil {
			return err
		}
		var imageIDs []uint64
		if len(d.ImageIDs) > 0 {
			if imageIDs, err = s.images.VerifyOwnedUnclaimed(ctx, d.ImageIDs, owner.ID, 0); err != nil {
				return err
			}
		}

		c := &domain.Curation{
			MemberID:   owner.ID,
			CategoryID: d.CategoryID,
			Emoji:      d.Emoji,
			Title:      d.Title,
			Content:    d.Content,
			Visibility: d.Visibility,
			Status:     domain.CurationActive,
		}
		if err := s.curations.Create(ctx, c); err != nil {
			return fmt.Errorf("create curation: %w", err)
		}
		book, err := s.books.ResolveOrCreate(ctx, d.Book)
		if err != nil {
			return err
		}
		if err := s.books.Link(ctx, c.ID, book); err != nil {
			return err
		}
		if err := s.images.Attach(ctx, c.ID, imageIDs); err != nil {
			return err
		}

		view, err = s.reload(ctx, id, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	count(evCurationCreated)
	s.log.Info("curation created",
		zap.Uint64("curationId", view.ID),
		zap.Uint64("memberId", view.MemberID),
		zap.String("visibility", string(view.Visibility)))
	return view, nil
}

// loadOwned 取出可被 requester 修改的 curation；先校验归属再校验状态
func (s *CurationService) loadOwned(ctx context.Context, requester *domain.Member, curationID uint64, denied *domain.Error) (*domain.Curation, error) {
	c, err := s.curations.FindByID(ctx, curationID)
	if err != nil {
		return nil, fmt.Errorf("find curation: %w", err)
	}
	if c == nil {
		return nil, domain.ErrCurationNotFound
	}
	if !c.IsOwnedBy(requester.ID) {
		return nil, denied
	}
	if c.IsDeleted() {
		return nil, domain.ErrCurationHasBeenDeleted
	}
	return c, nil
}

func (s *CurationService) Update(ctx context.Context, id domain.Identity, curationID uint64, p CurationPatch) (*domain.CurationView, error) {
	var (
		view     *domain.CurationView
		relinked bool
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		requester, err := s.members.ByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		c, err := s.loadOwned(ctx, requester, curationID, domain.ErrCurationCannotChange)
		if err != nil {
			return err
		}
		if err := validateStruct(p); err != nil {
			return err
		}

		if p.CategoryID != nil && *p.CategoryID != c.CategoryID {
			if _, err := s.categories.ByID(ctx, *p.CategoryID); err != nil {
				return err
			}
			c.CategoryID = *p.CategoryID
		}
		if p.Emoji != nil {
			c.Emoji = *p.Emoji
		}
		if p.Title != nil {
			c.Title = strings.TrimSpace(*p.Title)
		}
		if p.Content != nil {
			c.Content = *p.Content
		}
		if p.Visibility != nil {
			c.Visibility = *p.Visibility
		}
		if err := s.curations.UpdateContent(ctx, c); err != nil {
			return fmt.Errorf("update curation: %w", err)
		}

		if p.Book != nil {
			cur, err := s.books.CurrentLink(ctx, c.ID)
			if err != nil {
				return err
			}
			// ISBN 相同则不动关联
			if cur == nil || cur.Book.ISBN != strings.TrimSpace(p.Book.ISBN) {
				book, err := s.books.ResolveOrCreate(ctx, *p.Book)
				if err != nil {
					return err
				}
				if err := s.books.ReplaceLink(ctx, c.ID, book); err != nil {
					return err
				}
				relinked = true
			}
		}

		if len(p.ImageIDs) > 0 {
			fresh, err := s.images.VerifyOwnedUnclaimed(ctx, p.ImageIDs, requester.ID, c.ID)
			if err != nil {
				return err
			}
			if err := s.images.Attach(ctx, c.ID, fresh); err != nil {
				return err
			}
		}

		view, err = s.reload(ctx, id, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	count(evCurationUpdated)
	if relinked {
		count(evBookRelinked)
	}
	s.log.Info("curation updated", zap.Uint64("curationId", curationID), zap.Bool("bookRelinked", relinked))
	return view, nil
}

// Delete 软删，DELETED 为终态
func (s *CurationService) Delete(ctx context.Context, id domain.Identity, curationID uint64) error {
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		requester, err := s.members.ByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		c, err := s.loadOwned(ctx, requester, curationID, domain.ErrCurationCannotDelete)
		if err != nil {
			return err
		}
		if err := s.curations.UpdateStatus(ctx, c.ID, domain.CurationDeleted); err != nil {
			return fmt.Errorf("delete curation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	count(evCurationDeleted)
	s.log.Info("curation deleted", zap.Uint64("curationId", curationID))
	return nil
}

// Get SECRET 对非作者一律拒绝（无论状态），之后才判断是否已删除
func (s *CurationService) Get(ctx context.Context, viewer domain.Identity, curationID uint64) (*domain.CurationView, error) {
	var view *domain.CurationView
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		c, err := s.curations.FindByID(ctx, curationID)
		if err != nil {
			return fmt.Errorf("find curation: %w", err)
		}
		if c == nil {
			return domain.ErrCurationNotFound
		}
		if !c.VisibleTo(viewer.MemberID) {
			return domain.ErrCurationAccessDenied
		}
		if c.IsDeleted() {
			return domain.ErrCurationHasBeenDeleted
		}
		view, err = s.ann.one(ctx, viewer, c)
		return err
	})
	return view, err
}

func (s *CurationService) reload(ctx context.Context, viewer domain.Identity, curationID uint64) (*domain.CurationView, error) {
	c, err := s.curations.FindByID(ctx, curationID)
	if err != nil {
		return nil, fmt.Errorf("reload curation: %w", err)
	}
	if c == nil {
		return nil, domain.ErrCurationNotFound
	}
	return s.ann.one(ctx, viewer, c)
}
