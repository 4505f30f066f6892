package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whosbook/internal/domain"
)

type LikeRepo struct{ db *gorm.DB }

func NewLikeRepo(db *gorm.DB) *LikeRepo { return &LikeRepo{db: db} }

func (r *LikeRepo) Exists(ctx context.Context, memberID, curationID uint64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.CurationLike{}).
		Where("member_id = ? AND curation_id = ?", memberID, curationID).
		Limit(1).Count(&n).Error
	return n > 0, err
}

// Create 重复点赞不报错
func (r *LikeRepo) Create(ctx context.Context, memberID, curationID uint64) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "curation_id"}},
			DoNothing: true,
		}).
		Create(&domain.CurationLike{MemberID: memberID, CurationID: curationID}).Error
}

func (r *LikeRepo) Delete(ctx context.Context, memberID, curationID uint64) error {
	return conn(ctx, r.db).
		Where("member_id = ? AND curation_id = ?", memberID, curationID).
		Delete(&domain.CurationLike{}).Error
}

func (r *LikeRepo) LikedAmong(ctx context.Context, memberID uint64, curationIDs []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(curationIDs))
	if memberID == 0 || len(curationIDs) == 0 {
		return out, nil
	}
	var ids []uint64
	err := conn(ctx, r.db).Model(&domain.CurationLike{}).
		Where("member_id = ? AND curation_id IN ?", memberID, curationIDs).
		Pluck("curation_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
