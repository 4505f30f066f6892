package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whosbook/internal/domain"
)

type CurationRepo struct{ db *gorm.DB }

func NewCurationRepo(db *gorm.DB) *CurationRepo { return &CurationRepo{db: db} }

func (r *CurationRepo) Create(ctx context.Context, c *domain.Curation) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(c).Error
}

// UpdateContent 只写可编辑列；like_count/status/member_id 不在这里改
func (r *CurationRepo) UpdateContent(ctx context.Context, c *domain.Curation) error {
	c.UpdatedAt = time.Now()
	return conn(ctx, r.db).Model(&domain.Curation{}).Where("id = ?", c.ID).
		Updates(map[string]any{
			"category_id": c.CategoryID,
			"emoji":       c.Emoji,
			"title":       c.Title,
			"content":     c.Content,
			"visibility":  c.Visibility,
			"updated_at":  c.UpdatedAt,
		}).Error
}

func (r *CurationRepo) UpdateStatus(ctx context.Context, id uint64, status domain.CurationStatus) error {
	return conn(ctx, r.db).Model(&domain.Curation{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Member").
		Preload("Category").
		Preload("BookCurations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("BookCurations.Book")
}

func (r *CurationRepo) FindByID(ctx context.Context, id uint64) (*domain.Curation, error) {
	var c domain.Curation
	err := conn(ctx, r.db).Scopes(withDetails).First(&c, "curations.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func filterScope(f domain.CurationFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("curations.status = ?", domain.CurationActive)
		if f.CategoryID != nil {
			db = db.Where("curations.category_id = ?", *f.CategoryID)
		}
		if f.MemberID != nil {
			db = db.Where("curations.member_id = ?", *f.MemberID)
		}
		if f.Visibility != nil {
			db = db.Where("curations.visibility = ?", *f.Visibility)
		}
		return db
	}
}

func (r *CurationRepo) Find(ctx context.Context, f domain.CurationFilter, page domain.PageRequest) ([]domain.Curation, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&domain.Curation{}).Scopes(filterScope(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := conn(ctx, r.db).Scopes(filterScope(f), withDetails)
	switch f.Order {
	case domain.OrderBest:
		q = q.Order("curations.like_count DESC").Order("curations.id DESC")
	default:
		q = q.Order("curations.id DESC")
	}
	var items []domain.Curation
	err := q.Limit(page.Size).Offset(page.Offset()).Find(&items).Error
	return items, total, err
}

func likedScope(likerID, viewerID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN curation_likes ON curation_likes.curation_id = curations.id").
			Where("curation_likes.member_id = ?", likerID).
			Where("curations.status = ?", domain.CurationActive).
			Where("(curations.visibility = ? OR curations.member_id = ?)", domain.VisibilityPublic, viewerID)
	}
}

func (r *CurationRepo) FindLikedBy(ctx context.Context, likerID, viewerID uint64, page domain.PageRequest) ([]domain.Curation, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&domain.Curation{}).Scopes(likedScope(likerID, viewerID)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Curation
	err := conn(ctx, r.db).Scopes(likedScope(likerID, viewerID), withDetails).
		Order("curation_likes.id DESC").
		Limit(page.Size).Offset(page.Offset()).
		Find(&items).Error
	return items, total, err
}

func (r *CurationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.Curation{}).Count(&n).Error
	return n, err
}

// RefreshLikeCount 从点赞表重新计算
func (r *CurationRepo) RefreshLikeCount(ctx context.Context, id uint64) error {
	db := conn(ctx, r.db)
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&domain.CurationLike{}).Select("COUNT(*)").Where("curation_id = ?", id)
	return db.Model(&domain.Curation{}).Where("id = ?", id).UpdateColumn("like_count", sub).Error
}
