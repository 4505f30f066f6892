package domain

import "time"

type ImageStatus string

const (
	ImageActive  ImageStatus = "ACTIVE"
	ImageDeleted ImageStatus = "DELETED"
)

// CurationImage 上传后的图片记录；二进制内容由外部存储负责
type CurationImage struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement" json:"imageId"`
	MemberID  uint64      `gorm:"not null;index" json:"memberId"`
	ImageKey  string      `gorm:"size:255;not null" json:"-"`
	ImageURL  string      `gorm:"size:512;not null" json:"url"`
	Status    ImageStatus `gorm:"size:16;not null" json:"-"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"-"`
}

func (CurationImage) TableName() string { return "curation_images" }

// CurationSaveImage 图片被某篇 curation 认领；一张图片最多属于一篇
type CurationSaveImage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	CurationID uint64    `gorm:"not null;index"`
	ImageID    uint64    `gorm:"not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (CurationSaveImage) TableName() string { return "curation_save_images" }
