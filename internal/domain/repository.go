package domain

import "context"

// 各实体的数据访问接口。Find* 查不到时返回 (nil, nil)。

type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	FindByID(ctx context.Context, id uint64) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByNickname(ctx context.Context, nickname string) (*Member, error)
	List(ctx context.Context, q string, page PageRequest) ([]Member, int64, error)
	UpdateStatus(ctx context.Context, id uint64, status MemberStatus) error
	Count(ctx context.Context) (int64, error)
	RankCurators(ctx context.Context, order CuratorOrder, page PageRequest) ([]CuratorStat, int64, error)
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint64) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	EnsureNames(ctx context.Context, names []string) error
}

type CurationRepository interface {
	Create(ctx context.Context, c *Curation) error
	UpdateContent(ctx context.Context, c *Curation) error
	UpdateStatus(ctx context.Context, id uint64, status CurationStatus) error
	// FindByID 不过滤状态，包含 Member/Category/Books
	FindByID(ctx context.Context, id uint64) (*Curation, error)
	// Find 只返回 ACTIVE
	Find(ctx context.Context, f CurationFilter, page PageRequest) ([]Curation, int64, error)
	// FindLikedBy likerID 点赞过的 ACTIVE curation；SECRET 仅当 viewerID 为作者时返回
	FindLikedBy(ctx context.Context, likerID, viewerID uint64, page PageRequest) ([]Curation, int64, error)
	Count(ctx context.Context) (int64, error)
	RefreshLikeCount(ctx context.Context, id uint64) error
}

type BookRepository interface {
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	// CreateIfAbsent 按 ISBN 幂等插入，之后 b 会被回填为库中的行
	CreateIfAbsent(ctx context.Context, b *Book) error
	Links(ctx context.Context, curationID uint64) ([]BookCuration, error)
	CreateLink(ctx context.Context, l *BookCuration) error
	DeleteLinks(ctx context.Context, curationID uint64) error
}

type LikeRepository interface {
	Exists(ctx context.Context, memberID, curationID uint64) (bool, error)
	Create(ctx context.Context, memberID, curationID uint64) error
	Delete(ctx context.Context, memberID, curationID uint64) error
	// LikedAmong 返回 curationIDs 中被 memberID 点赞的集合
	LikedAmong(ctx context.Context, memberID uint64, curationIDs []uint64) (map[uint64]bool, error)
}

type SubscribeRepository interface {
	Exists(ctx context.Context, subscriberID, memberID uint64) (bool, error)
	Create(ctx context.Context, subscriberID, memberID uint64) error
	Delete(ctx context.Context, subscriberID, memberID uint64) error
	// SubscribedAmong 返回 memberIDs 中被 subscriberID 关注的集合
	SubscribedAmong(ctx context.Context, subscriberID uint64, memberIDs []uint64) (map[uint64]bool, error)
	Subscribers(ctx context.Context, memberID uint64, page PageRequest) ([]Member, int64, error)
	Subscriptions(ctx context.Context, subscriberID uint64, page PageRequest) ([]Member, int64, error)
	// MostSubscribed 被关注最多的成员；并列取 id 最小；无数据返回 ok=false
	MostSubscribed(ctx context.Context) (memberID uint64, count int64, ok bool, err error)
}

type ImageRepository interface {
	Create(ctx context.Context, img *CurationImage) error
	FindByIDs(ctx context.Context, ids []uint64) ([]CurationImage, error)
	// ClaimedBy imageID → 认领它的 curationID
	ClaimedBy(ctx context.Context, imageIDs []uint64) (map[uint64]uint64, error)
	Link(ctx context.Context, curationID uint64, imageIDs []uint64) error
}
