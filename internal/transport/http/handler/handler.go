// Package handler 按业务域组织的 HTTP 模块；每个模块实现 MountAPI 和/或 MountAdmin，
// 由 router.Registry 统一挂载。
package handler

import (
	resp "whosbook/internal/transport/http/response"
)

// 路径参数
type memberURI struct {
	MemberID uint64 `uri:"memberId" binding:"required"`
}

type curationURI struct {
	CurationID uint64 `uri:"curationId" binding:"required"`
}

// 路径参数 + 分页；路径部分只由 uri 映射填充
type memberPageIn struct {
	MemberID uint64 `uri:"memberId" form:"-" json:"-"`
	resp.PageQuery
}
