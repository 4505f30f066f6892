package repo

import (
	"context"

	"gorm.io/gorm"

	"whosbook/internal/domain"
)

type ImageRepo struct{ db *gorm.DB }

func NewImageRepo(db *gorm.DB) *ImageRepo { return &ImageRepo{db: db} }

func (r *ImageRepo) Create(ctx context.Context, img *domain.CurationImage) error {
	return conn(ctx, r.db).Create(img).Error
}

func (r *ImageRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.CurationImage, error) {
	var out []domain.CurationImage
	if len(ids) == 0 {
		return out, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *ImageRepo) ClaimedBy(ctx context.Context, imageIDs []uint64) (map[uint64]uint64, error) {
	out := make(map[uint64]uint64)
	if len(imageIDs) == 0 {
		return out, nil
	}
	var links []domain.CurationSaveImage
	if err := conn(ctx, r.db).Where("image_id IN ?", imageIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.ImageID] = l.CurationID
	}
	return out, nil
}

func (r *ImageRepo) Link(ctx context.Context, curationID uint64, imageIDs []uint64) error {
	if len(imageIDs) == 0 {
		return nil
	}
	links := make([]domain.CurationSaveImage, 0, len(imageIDs))
	for _, id := range imageIDs {
		links = append(links, domain.CurationSaveImage{CurationID: curationID, ImageID: id})
	}
	return conn(ctx, r.db).Create(&links).Error
}
