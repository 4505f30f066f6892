package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whosbook/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) FindByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	var b domain.Book
	err := conn(ctx, r.db).First(&b, "isbn = ?", isbn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateIfAbsent 并发下同一 ISBN 只会有一行；插入后统一按 ISBN 读回
func (r *BookRepo) CreateIfAbsent(ctx context.Context, b *domain.Book) error {
	err := conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "isbn"}}, DoNothing: true}).
		Create(b).Error
	if err != nil {
		return err
	}
	saved, err := r.FindByISBN(ctx, b.ISBN)
	if err != nil {
		return err
	}
	if saved == nil {
		return domain.ErrBookNotFound
	}
	*b = *saved
	return nil
}

func (r *BookRepo) Links(ctx context.Context, curationID uint64) ([]domain.BookCuration, error) {
	var ls []domain.BookCuration
	err := conn(ctx, r.db).Preload("Book").
		Where("curation_id = ?", curationID).
		Order("position ASC, id ASC").
		Find(&ls).Error
	return ls, err
}

func (r *BookRepo) CreateLink(ctx context.Context, l *domain.BookCuration) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(l).Error
}

func (r *BookRepo) DeleteLinks(ctx context.Context, curationID uint64) error {
	return conn(ctx, r.db).Where("curation_id = ?", curationID).Delete(&domain.BookCuration{}).Error
}
