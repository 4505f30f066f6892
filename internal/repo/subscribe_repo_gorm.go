package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whosbook/internal/domain"
)

type SubscribeRepo struct{ db *gorm.DB }

func NewSubscribeRepo(db *gorm.DB) *SubscribeRepo { return &SubscribeRepo{db: db} }

func (r *SubscribeRepo) Exists(ctx context.Context, subscriberID, memberID uint64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.Subscribe{}).
		Where("subscriber_id = ? AND subscribed_member_id = ?", subscriberID, memberID).
		Limit(1).Count(&n).Error
	return n > 0, err
}

func (r *SubscribeRepo) Create(ctx context.Context, subscriberID, memberID uint64) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriber_id"}, {Name: "subscribed_member_id"}},
			DoNothing: true,
		}).
		Create(&domain.Subscribe{SubscriberID: subscriberID, SubscribedMemberID: memberID}).Error
}

func (r *SubscribeRepo) Delete(ctx context.Context, subscriberID, memberID uint64) error {
	return conn(ctx, r.db).
		Where("subscriber_id = ? AND subscribed_member_id = ?", subscriberID, memberID).
		Delete(&domain.Subscribe{}).Error
}

func (r *SubscribeRepo) SubscribedAmong(ctx context.Context, subscriberID uint64, memberIDs []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(memberIDs))
	if subscriberID == 0 || len(memberIDs) == 0 {
		return out, nil
	}
	var ids []uint64
	err := conn(ctx, r.db).Model(&domain.Subscribe{}).
		Where("subscriber_id = ? AND subscribed_member_id IN ?", subscriberID, memberIDs).
		Pluck("subscribed_member_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// edgeMembers 沿关注边取另一端的 ACTIVE 成员，按关注时间倒序
func (r *SubscribeRepo) edgeMembers(ctx context.Context, joinCol, whereCol string, id uint64, page domain.PageRequest) ([]domain.Member, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN subscribes ON subscribes."+joinCol+" = members.id").
			Where("subscribes."+whereCol+" = ?", id).
			Where("members.status = ?", domain.MemberActive)
	}
	var total int64
	if err := conn(ctx, r.db).Model(&domain.Member{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []domain.Member
	err := conn(ctx, r.db).Scopes(scope).
		Order("subscribes.id DESC").
		Limit(page.Size).Offset(page.Offset()).
		Find(&ms).Error
	return ms, total, err
}

func (r *SubscribeRepo) Subscribers(ctx context.Context, memberID uint64, page domain.PageRequest) ([]domain.Member, int64, error) {
	return r.edgeMembers(ctx, "subscriber_id", "subscribed_member_id", memberID, page)
}

func (r *SubscribeRepo) Subscriptions(ctx context.Context, subscriberID uint64, page domain.PageRequest) ([]domain.Member, int64, error) {
	return r.edgeMembers(ctx, "subscribed_member_id", "subscriber_id", subscriberID, page)
}

// MostSubscribed 两端都只算 ACTIVE 成员
func (r *SubscribeRepo) MostSubscribed(ctx context.Context) (uint64, int64, bool, error) {
	var row struct {
		MemberID uint64
		Cnt      int64
	}
	res := conn(ctx, r.db).Table("subscribes AS s").
		Joins("JOIN members AS target ON target.id = s.subscribed_member_id AND target.status = ?", domain.MemberActive).
		Joins("JOIN members AS fan ON fan.id = s.subscriber_id AND fan.status = ?", domain.MemberActive).
		Select("s.subscribed_member_id AS member_id, COUNT(*) AS cnt").
		Group("s.subscribed_member_id").
		Order("cnt DESC, s.subscribed_member_id ASC").
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return 0, 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, 0, false, nil
	}
	return row.MemberID, row.Cnt, true, nil
}
