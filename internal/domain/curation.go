package domain

import "time"

type CurationStatus string

const (
	CurationActive  CurationStatus = "ACTIVE"
	CurationDeleted CurationStatus = "DELETED"
)

type Visibility string

const (
	VisibilityPublic Visibility = "PUBLIC"
	VisibilitySecret Visibility = "SECRET"
)

func (v Visibility) Valid() bool { return v == VisibilityPublic || v == VisibilitySecret }

type Curation struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement" json:"curationId"`
	MemberID   uint64         `gorm:"not null;index" json:"memberId"`
	Member     Member         `gorm:"foreignKey:MemberID" json:"curator"`
	CategoryID uint64         `gorm:"not null;index" json:"categoryId"`
	Category   Category       `gorm:"foreignKey:CategoryID" json:"category"`
	Emoji      string         `gorm:"size:32" json:"emoji"`
	Title      string         `gorm:"size:200;not null" json:"title"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Visibility Visibility     `gorm:"size:16;not null;index" json:"visibility"`
	Status     CurationStatus `gorm:"size:16;not null;index" json:"curationStatus"`
	// 派生字段：由 curation_likes 重新计算，非权威数据
	LikeCount     int64          `gorm:"not null;default:0;index" json:"curationLikeCount"`
	BookCurations []BookCuration `gorm:"foreignKey:CurationID" json:"books"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Curation) TableName() string { return "curations" }

func (c *Curation) IsDeleted() bool { return c.Status == CurationDeleted }

func (c *Curation) IsOwnedBy(memberID uint64) bool { return memberID != 0 && c.MemberID == memberID }

// VisibleTo SECRET 仅作者本人可见
func (c *Curation) VisibleTo(memberID uint64) bool {
	return c.Visibility != VisibilitySecret || c.IsOwnedBy(memberID)
}

// CurrentBook 当前唯一的关联书籍（按 position 最小）
func (c *Curation) CurrentBook() *BookCuration {
	var cur *BookCuration
	for i := range c.BookCurations {
		if cur == nil || c.BookCurations[i].Position < cur.Position {
			cur = &c.BookCurations[i]
		}
	}
	return cur
}

// CurationView 读路径的投影：实体 + 当前查看者的标记（从不落库）
type CurationView struct {
	Curation
	Liked      bool `json:"liked"`
	Subscribed bool `json:"subscribed"`
}

// FeedOrder 列表排序
type FeedOrder int

const (
	OrderNewest FeedOrder = iota // id desc
	OrderBest                    // like_count desc, id desc
)

// CurationFilter 列表筛选；nil 表示不过滤该维度
type CurationFilter struct {
	CategoryID *uint64
	MemberID   *uint64
	Visibility *Visibility
	Order      FeedOrder
}
