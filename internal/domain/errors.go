package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 业务错误：Status 对应 HTTP 语义，Code 为稳定的错误种类（客户端可据此分支）
type Error struct {
	Status  int
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is 按 Code 比较，WithCause/WithMessage 派生出的错误仍然匹配原始哨兵
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithCause(err error) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, cause: err}
}

func (e *Error) WithMessage(msg string) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: msg, cause: e.cause}
}

func newError(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Message: msg}
}

// NotFound
var (
	ErrMemberNotFound   = newError(http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found")
	ErrCurationNotFound = newError(http.StatusNotFound, "CURATION_NOT_FOUND", "curation not found")
	ErrCategoryNotFound = newError(http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
	ErrBookNotFound     = newError(http.StatusNotFound, "BOOK_NOT_FOUND", "book not found")
)

// 状态类：存在过但已退役
var (
	ErrMemberHasBeenDeleted   = newError(http.StatusGone, "MEMBER_HAS_BEEN_DELETED", "member has been deleted")
	ErrCurationHasBeenDeleted = newError(http.StatusGone, "CURATION_HAS_BEEN_DELETED", "curation has been deleted")
)

// 权限类
var (
	ErrCurationAccessDenied      = newError(http.StatusForbidden, "CURATION_ACCESS_DENIED", "curation access denied")
	ErrCurationCannotChange      = newError(http.StatusForbidden, "CURATION_CANNOT_CHANGE", "only the curator can change this curation")
	ErrCurationCannotDelete      = newError(http.StatusForbidden, "CURATION_CANNOT_DELETE", "only the curator can delete this curation")
	ErrMemberNoHaveAuthorization = newError(http.StatusForbidden, "MEMBER_NO_HAVE_AUTHORIZATION", "member has no authorization")
)

// 校验类
var (
	ErrImageVerificationFailed = newError(http.StatusBadRequest, "IMAGE_VERIFICATION_FAILED", "image verification failed")
	ErrInvalidInput            = newError(http.StatusBadRequest, "INVALID_INPUT", "invalid input")
	ErrNicknameExists          = newError(http.StatusConflict, "NICKNAME_EXISTS", "nickname exists")
	ErrMemberExists            = newError(http.StatusConflict, "MEMBER_EXISTS", "member exists")
)

// 认证
var (
	ErrUnauthorized       = newError(http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrInvalidCredentials = newError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
)
