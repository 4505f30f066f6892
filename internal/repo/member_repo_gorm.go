package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"whosbook/internal/domain"
)

type MemberRepo struct{ db *gorm.DB }

func NewMemberRepo(db *gorm.DB) *MemberRepo { return &MemberRepo{db: db} }

// Create 唯一约束冲突时再查一次，区分 email 与 nickname 撞车
func (r *MemberRepo) Create(ctx context.Context, m *domain.Member) error {
	err := conn(ctx, r.db).Create(m).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if other, ferr := r.FindByEmail(ctx, m.Email); ferr == nil && other != nil {
		return domain.ErrMemberExists.WithCause(err)
	}
	if other, ferr := r.FindByNickname(ctx, m.Nickname); ferr == nil && other != nil {
		return domain.ErrNicknameExists.WithCause(err)
	}
	return domain.ErrMemberExists.WithCause(err)
}

func (r *MemberRepo) first(ctx context.Context, query string, arg any) (*domain.Member, error) {
	var m domain.Member
	err := conn(ctx, r.db).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepo) FindByID(ctx context.Context, id uint64) (*domain.Member, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *MemberRepo) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *MemberRepo) FindByNickname(ctx context.Context, nickname string) (*domain.Member, error) {
	return r.first(ctx, "nickname = ?", nickname)
}

// List 管理端列表，q 按 email/nickname 模糊匹配
func (r *MemberRepo) List(ctx context.Context, q string, page domain.PageRequest) ([]domain.Member, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q); s != "" {
			like := "%" + s + "%"
			db = db.Where("email LIKE ? OR nickname LIKE ?", like, like)
		}
		return db
	}
	var total int64
	if err := conn(ctx, r.db).Model(&domain.Member{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []domain.Member
	err := conn(ctx, r.db).Scopes(scope).
		Order("id DESC").Limit(page.Size).Offset(page.Offset()).
		Find(&ms).Error
	return ms, total, err
}

func (r *MemberRepo) UpdateStatus(ctx context.Context, id uint64, status domain.MemberStatus) error {
	return conn(ctx, r.db).Model(&domain.Member{}).Where("id = ?", id).Update("status", status).Error
}

func (r *MemberRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.Member{}).Count(&n).Error
	return n, err
}

const curatorStatColumns = `m.id AS member_id, m.nickname, m.introduction, m.image_url,
	(SELECT COUNT(*) FROM curations c WHERE c.member_id = m.id AND c.status = ?) AS curation_count,
	(SELECT COUNT(*) FROM subscribes s JOIN members f ON f.id = s.subscriber_id AND f.status = ? WHERE s.subscribed_member_id = m.id) AS subscriber_count,
	(SELECT COALESCE(SUM(c2.like_count), 0) FROM curations c2 WHERE c2.member_id = m.id AND c2.status = ?) AS like_count`

// RankCurators 只统计 ACTIVE 成员与 ACTIVE curation，最后按 id 升序保证稳定
func (r *MemberRepo) RankCurators(ctx context.Context, order domain.CuratorOrder, page domain.PageRequest) ([]domain.CuratorStat, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&domain.Member{}).
		Where("status = ?", domain.MemberActive).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := "curation_count DESC, m.id ASC"
	if order == domain.ByCuratorQuality {
		orderBy = "curation_count DESC, subscriber_count DESC, like_count DESC, m.id ASC"
	}

	var rows []domain.CuratorStat
	err := conn(ctx, r.db).Table("members AS m").
		Select(curatorStatColumns, domain.CurationActive, domain.MemberActive, domain.CurationActive).
		Where("m.status = ?", domain.MemberActive).
		Order(orderBy).
		Limit(page.Size).Offset(page.Offset()).
		Scan(&rows).Error
	return rows, total, err
}
