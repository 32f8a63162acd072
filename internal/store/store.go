package store

import (
	"context"
	"errors"
)

// Store 负责管理指纹到响应正文的持久映射，进程重启后数据仍然可用。
// 键是请求指纹（定宽十六进制串），值是不透明的响应正文字节。
type Store interface {
	// Get 返回指纹对应的正文。若不存在则返回 ErrNotFound。
	Get(ctx context.Context, fingerprint string) ([]byte, error)

	// Put 持久化一条指纹 → 正文映射。单键写入必须原子且在返回前落盘，
	// 同一指纹的重复写入以最后一次为准。
	Put(ctx context.Context, fingerprint string, payload []byte) error

	// Close 释放底层数据库句柄。
	Close() error
}

// ErrNotFound 表示指纹尚未缓存。
var ErrNotFound = errors.New("store entry not found")
