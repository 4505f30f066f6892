package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whosbook/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) FindByID(ctx context.Context, id uint64) (*domain.Category, error) {
	var c domain.Category
	err := conn(ctx, r.db).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var cs []domain.Category
	err := conn(ctx, r.db).Order("id ASC").Find(&cs).Error
	return cs, err
}

// EnsureNames 按名字补齐分类，已有的保持原 id
func (r *CategoryRepo) EnsureNames(ctx context.Context, names []string) error {
	for _, n := range names {
		err := conn(ctx, r.db).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&domain.Category{Name: n}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
