// Package service 业务层：curation 生命周期、可见性、社交关系与排行。
// 依赖通过小接口注入，存储细节留在 repo 包。
package service

import (
	"context"

	"whosbook/internal/domain"
)

// Transactor 事务放在 context 上传递，嵌套调用复用外层事务
type Transactor interface {
	Within(ctx context.Context, fn func(ctx context.Context) error) error
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdentityStore 按邮箱或 id 解析成员
type IdentityStore interface {
	// ByEmail 不存在 → ErrMemberNotFound；已注销 → ErrMemberHasBeenDeleted
	ByEmail(ctx context.Context, email string) (*domain.Member, error)
	// ByID 不存在或已注销都视为 ErrMemberNotFound
	ByID(ctx context.Context, id uint64) (*domain.Member, error)
}

type CategoryStore interface {
	ByID(ctx context.Context, id uint64) (*domain.Category, error)
}

// ImageVerifier 图片归属校验与认领
type ImageVerifier interface {
	// VerifyOwnedUnclaimed 返回需要新认领的图片；已属于 curationID 的图片被跳过
	VerifyOwnedUnclaimed(ctx context.Context, imageIDs []uint64, ownerID, curationID uint64) ([]uint64, error)
	Attach(ctx context.Context, curationID uint64, imageIDs []uint64) error
}

// BookLinker curation 与书籍的关联
type BookLinker interface {
	ResolveOrCreate(ctx context.Context, d domain.BookDescriptor) (*domain.Book, error)
	CurrentLink(ctx context.Context, curationID uint64) (*domain.BookCuration, error)
	Link(ctx context.Context, curationID uint64, b *domain.Book) error
	ReplaceLink(ctx context.Context, curationID uint64, b *domain.Book) error
}

// AdminPolicy 管理能力判定，由 authz.Enforcer 实现
type AdminPolicy interface {
	Allow(id domain.Identity, object, action string) (bool, error)
}

type TokenIssuer interface {
	Issue(m *domain.Member) (string, error)
}
