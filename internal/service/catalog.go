package service

import (
	"context"
	"fmt"
	"strings"

	"whosbook/internal/domain"
)

type CategoryService struct {
	categories domain.CategoryRepository
}

func NewCategoryService(categories domain.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) ByID(ctx context.Context, id uint64) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Seed 启动时按配置补齐分类
func (s *CategoryService) Seed(ctx context.Context, names []string) error {
	clean := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	return s.categories.EnsureNames(ctx, clean)
}

type BookService struct {
	books domain.BookRepository
}

func NewBookService(books domain.BookRepository) *BookService {
	return &BookService{books: books}
}

// ResolveOrCreate 同一 ISBN 只有一本规范书籍
func (s *BookService) ResolveOrCreate(ctx context.Context, d domain.BookDescriptor) (*domain.Book, error) {
	d.ISBN = strings.TrimSpace(d.ISBN)
	if err := validateStruct(d); err != nil {
		return nil, err
	}
	if b, err := s.books.FindByISBN(ctx, d.ISBN); err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	} else if b != nil {
		return b, nil
	}
	b := d.ToBook()
	if err := s.books.CreateIfAbsent(ctx, b); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

func (s *BookService) Links(ctx context.Context, curationID uint64) ([]domain.BookCuration, error) {
	return s.books.Links(ctx, curationID)
}

func (s *BookService) CurrentLink(ctx context.Context, curationID uint64) (*domain.BookCuration, error) {
	ls, err := s.books.Links(ctx, curationID)
	if err != nil {
		return nil, fmt.Errorf("load book links: %w", err)
	}
	if len(ls) == 0 {
		return nil, nil
	}
	return &ls[0], nil
}

// Link 新增关联；超过 MaxBooksPerCuration 时拒绝
func (s *BookService) Link(ctx context.Context, curationID uint64, b *domain.Book) error {
	ls, err := s.books.Links(ctx, curationID)
	if err != nil {
		return fmt.Errorf("load book links: %w", err)
	}
	if len(ls) >= domain.MaxBooksPerCuration {
		return domain.ErrInvalidInput.WithMessage("too many books for one curation")
	}
	l := &domain.BookCuration{CurationID: curationID, BookID: b.ID, Position: len(ls)}
	if err := s.books.CreateLink(ctx, l); err != nil {
		return fmt.Errorf("link book: %w", err)
	}
	return nil
}

// ReplaceLink 删除旧关联后写入唯一的新关联
func (s *BookService) ReplaceLink(ctx context.Context, curationID uint64, b *domain.Book) error {
	if err := s.books.DeleteLinks(ctx, curationID); err != nil {
		return fmt.Errorf("unlink books: %w", err)
	}
	return s.Link(ctx, curationID, b)
}

type ImageService struct {
	images domain.ImageRepository
}

func NewImageService(images domain.ImageRepository) *ImageService {
	return &ImageService{images: images}
}

type ImageInput struct {
	ImageKey string `json:"imageKey" validate:"required,max=255"`
	ImageURL string `json:"imageUrl" validate:"required,url,max=512"`
}

// Register 记录一张已上传到外部存储的图片
func (s *ImageService) Register(ctx context.Context, ownerID uint64, in ImageInput) (*domain.CurationImage, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	img := &domain.CurationImage{MemberID: ownerID, ImageKey: in.ImageKey, ImageURL: in.ImageURL, Status: domain.ImageActive}
	if err := s.images.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	return img, nil
}

func (s *ImageService) VerifyOwnedUnclaimed(ctx context.Context, imageIDs []uint64, ownerID, curationID uint64) ([]uint64, error) {
	ids := dedupe(imageIDs)
	if len(ids) == 0 {
		return nil, nil
	}
	imgs, err := s.images.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	if len(imgs) != len(ids) {
		return nil, domain.ErrImageVerificationFailed.WithMessage("image not found")
	}
	for _, img := range imgs {
		if img.MemberID != ownerID || img.Status != domain.ImageActive {
			return nil, domain.ErrImageVerificationFailed
		}
	}

	claimed, err := s.images.ClaimedBy(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load image claims: %w", err)
	}
	fresh := make([]uint64, 0, len(ids))
	for _, id := range ids {
		owner, ok := claimed[id]
		switch {
		case !ok:
			fresh = append(fresh, id)
		case curationID != 0 && owner == curationID:
			// 已属于本篇，跳过
		default:
			return nil, domain.ErrImageVerificationFailed.WithMessage("image already used by another curation")
		}
	}
	return fresh, nil
}

func (s *ImageService) Attach(ctx context.Context, curationID uint64, imageIDs []uint64) error {
	if len(imageIDs) == 0 {
		return nil
	}
	if err := s.images.Link(ctx, curationID, imageIDs); err != nil {
		return fmt.Errorf("attach images: %w", err)
	}
	return nil
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
