package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tonehub/tonehub/internal/store"
)

// Dispatch 是外部注入的上游调用协作方，负责真正发起 HTTP 请求。
// 超时与重试策略由调用方通过 ctx 与闭包自行承载。
type Dispatch func(ctx context.Context, d Descriptor) ([]byte, error)

// Resolver 串联“校验 → 指纹 → 查库 → 回源 → 写库”的全流程。
// 命中永远按原样返回，不做新鲜度检查；同一指纹的并发未命中
// 可能各自回源一次，以最后一次写入为准，这是可接受的重复开销。
type Resolver struct {
	store          store.Store
	logger         *logrus.Logger
	allowedMethods []string
}

// NewResolver 构造 Resolver，store 与 logger 由启动阶段注入并整站复用。
func NewResolver(s store.Store, logger *logrus.Logger, allowedMethods []string) *Resolver {
	return &Resolver{
		store:          s,
		logger:         logger,
		allowedMethods: allowedMethods,
	}
}

// Resolve 返回 descriptor 对应的响应正文以及是否命中缓存。
// 校验失败返回 *ValidationError 且不触碰存储；上游失败时错误
// 匹配 ErrUpstream 且不写入任何条目。
func (r *Resolver) Resolve(ctx context.Context, d Descriptor, dispatch Dispatch) ([]byte, bool, error) {
	if verr := d.Validate(r.allowedMethods); verr != nil {
		return nil, false, verr
	}

	fp := Fingerprint(d.normalized())

	payload, err := r.store.Get(ctx, fp)
	switch {
	case err == nil:
		r.log(d, fp, true)
		return payload, true, nil
	case errors.Is(err, store.ErrNotFound):
		// miss, fall through to dispatch
	default:
		return nil, false, fmt.Errorf("store get: %w", err)
	}

	payload, err = dispatch(ctx, d)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := r.store.Put(ctx, fp, payload); err != nil {
		return nil, false, fmt.Errorf("store put: %w", err)
	}

	r.log(d, fp, false)
	return payload, false, nil
}

func (r *Resolver) log(d Descriptor, fp string, hit bool) {
	if r.logger == nil {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"action":      "resolve",
		"method":      d.Method,
		"url":         d.URL,
		"fingerprint": fp,
		"cache_hit":   hit,
	}).Debug("resolve completed")
}
