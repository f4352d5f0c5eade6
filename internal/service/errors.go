package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("invalid post")
	ErrStore        = errors.New("post store failure")
)

// ErrorKind 错误分类，供 handler 选择回退页面和日志级别
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindValidation
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindStore:
		return "store"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindOf 返回 err 的分类；未分类的错误按存储错误处理
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrPostNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidPost):
		return KindValidation
	default:
		return KindStore
	}
}

// ValidationError 列出未通过校验的字段
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid post: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidPost }
