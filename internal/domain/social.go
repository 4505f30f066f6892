package domain

import "time"

type CurationLike struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	MemberID   uint64    `gorm:"not null;uniqueIndex:idx_like_pair,priority:1"`
	CurationID uint64    `gorm:"not null;uniqueIndex:idx_like_pair,priority:2;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (CurationLike) TableName() string { return "curation_likes" }

// Subscribe 关注关系（subscriber 关注 subscribed member）
type Subscribe struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement"`
	SubscriberID       uint64    `gorm:"not null;uniqueIndex:idx_subscribe_pair,priority:1"`
	SubscribedMemberID uint64    `gorm:"not null;uniqueIndex:idx_subscribe_pair,priority:2;index"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

func (Subscribe) TableName() string { return "subscribes" }

type Category struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement" json:"categoryId"`
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`
}

func (Category) TableName() string { return "categories" }
