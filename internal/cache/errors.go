package cache

import (
	"errors"
	"strings"
)

// ValidationError 携带 Descriptor 校验的全部违反项，边界层将其映射为 4xx。
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid request descriptor: " + strings.Join(e.Violations, "; ")
}

// ErrUpstream 标记上游调用失败；失败结果永远不会写入缓存。
var ErrUpstream = errors.New("upstream dispatch failed")
