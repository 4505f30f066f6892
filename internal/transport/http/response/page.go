package response

import "whosbook/internal/domain"

// Page 分页响应；page 从 1 开始
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func FromPage[T any](p domain.Page[T]) Page[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:         items,
		Page:          p.Page + 1,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
	Size int `form:"size,default=20" binding:"min=1"`
}

// Request 转成内部 0 开始的分页，size 超上限时收敛
func (q PageQuery) Request() domain.PageRequest {
	return domain.NewPageRequest(q.Page, q.Size)
}
