package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// NewStore 以 path 为目录打开 LevelDB 数据库，整个进程复用一份实例。
func NewStore(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("store path required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}

	db, err := leveldb.OpenFile(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &levelStore{db: db}, nil
}

// levelStore 借助 LevelDB 的单键原子写实现并发安全的持久缓存。
type levelStore struct {
	db *leveldb.DB
}

// syncWrites 保证 Put 返回前数据已落盘，避免调用方立即重试时读不到。
var syncWrites = &opt.WriteOptions{Sync: true}

func (s *levelStore) Get(ctx context.Context, fingerprint string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	payload, err := s.db.Get([]byte(fingerprint), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (s *levelStore) Put(ctx context.Context, fingerprint string, payload []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return s.db.Put([]byte(fingerprint), payload, syncWrites)
}

func (s *levelStore) Close() error {
	return s.db.Close()
}
