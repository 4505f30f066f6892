package domain

import "time"

// MaxBooksPerCuration 目前一篇 curation 只关联一本书；多书支持上线后放开
const MaxBooksPerCuration = 1

type Book struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"bookId"`
	ISBN      string    `gorm:"column:isbn;uniqueIndex;size:32;not null" json:"isbn"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Authors   string    `gorm:"size:255" json:"authors"`
	Publisher string    `gorm:"size:128" json:"publisher"`
	Thumbnail string    `gorm:"size:512" json:"thumbnail"`
	URL       string    `gorm:"size:512" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Book) TableName() string { return "books" }

type BookCuration struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	CurationID uint64    `gorm:"not null;uniqueIndex:idx_book_curation_pos,priority:1" json:"-"`
	BookID     uint64    `gorm:"not null;index" json:"-"`
	Book       Book      `gorm:"foreignKey:BookID" json:"book"`
	Position   int       `gorm:"not null;default:0;uniqueIndex:idx_book_curation_pos,priority:2" json:"position"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
}

func (BookCuration) TableName() string { return "book_curations" }

// BookDescriptor 用来解析/创建规范书籍，至少需要 ISBN
type BookDescriptor struct {
	ISBN      string `json:"isbn" validate:"required,max=32"`
	Title     string `json:"title" validate:"required,max=255"`
	Authors   string `json:"authors" validate:"max=255"`
	Publisher string `json:"publisher" validate:"max=128"`
	Thumbnail string `json:"thumbnail" validate:"max=512"`
	URL       string `json:"url" validate:"max=512"`
}

func (d BookDescriptor) ToBook() *Book {
	return &Book{
		ISBN:      d.ISBN,
		Title:     d.Title,
		Authors:   d.Authors,
		Publisher: d.Publisher,
		Thumbnail: d.Thumbnail,
		URL:       d.URL,
	}
}
