package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest 内部页码从 0 开始；HTTP 边界使用 1 开始的页码
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest 由 1 开始的页码构造，越界值被收敛
func NewPageRequest(page, size int) PageRequest {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Page: page - 1, Size: size}
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{Items: items, Page: req.Page, Size: req.Size, TotalElements: total, TotalPages: pages}
}

// MapPage 转换元素类型，分页信息不变
func MapPage[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, f(it))
	}
	return Page[U]{Items: out, Page: p.Page, Size: p.Size, TotalElements: p.TotalElements, TotalPages: p.TotalPages}
}
