package domain

import "time"

type MemberStatus string

const (
	MemberActive  MemberStatus = "ACTIVE"
	MemberDeleted MemberStatus = "DELETED"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Member struct {
	ID           uint64       `gorm:"primaryKey;autoIncrement" json:"memberId"`
	Email        string       `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Nickname     string       `gorm:"uniqueIndex;size:64;not null" json:"nickname"`
	PasswordHash string       `gorm:"size:100;not null" json:"-"`
	Introduction string       `gorm:"size:500" json:"introduction"`
	ImageURL     string       `gorm:"size:512" json:"image"`
	Role         string       `gorm:"size:16;not null;default:user" json:"role"`
	Status       MemberStatus `gorm:"size:16;not null;default:ACTIVE;index" json:"memberStatus"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Member) TableName() string { return "members" }

func (m *Member) IsDeleted() bool { return m.Status == MemberDeleted }

// CuratorStat 排行聚合的一行
type CuratorStat struct {
	MemberID        uint64 `json:"memberId"`
	Nickname        string `json:"nickname"`
	Introduction    string `json:"introduction"`
	ImageURL        string `json:"image"`
	CurationCount   int64  `json:"curationCount"`
	SubscriberCount int64  `json:"subscriberCount"`
	LikeCount       int64  `json:"likeCount"`
}

// CuratorOrder 排行口径
type CuratorOrder int

const (
	// ByCurationCount 仅按 ACTIVE curation 数
	ByCurationCount CuratorOrder = iota
	// ByCuratorQuality curation 数 → 订阅数 → 获赞数
	ByCuratorQuality
)
