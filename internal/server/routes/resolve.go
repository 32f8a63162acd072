package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/tonehub/tonehub/internal/cache"
	"github.com/tonehub/tonehub/internal/logging"
	"github.com/tonehub/tonehub/internal/server"
)

// RegisterResolveRoutes 暴露 POST /resolve：命中时原样返回缓存正文，
// 未命中时回源并持久化后返回。
func RegisterResolveRoutes(app *fiber.App, resolver *cache.Resolver, client *http.Client, logger *logrus.Logger) {
	if app == nil || resolver == nil {
		return
	}

	app.Post("/resolve", func(c fiber.Ctx) error {
		started := time.Now()

		var desc cache.Descriptor
		if err := json.Unmarshal(c.Body(), &desc); err != nil {
			logResolveRequest(logger, c, desc, false, fiber.StatusBadRequest, started, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid_json",
			})
		}

		ctx := c.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		dispatch := server.NewDispatch(client, forwardableHeaders(c))
		payload, hit, err := resolver.Resolve(ctx, desc, dispatch)
		if err != nil {
			return renderResolveError(c, logger, desc, err, started)
		}

		c.Set("X-Tonehub-Cache-Hit", strconv.FormatBool(hit))
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		logResolveRequest(logger, c, desc, hit, fiber.StatusOK, started, nil)
		return c.Status(fiber.StatusOK).Send(payload)
	})
}

// renderResolveError 将缓存子系统的错误类型映射为对应的 HTTP 状态。
func renderResolveError(c fiber.Ctx, logger *logrus.Logger, desc cache.Descriptor, err error, started time.Time) error {
	var validationErr *cache.ValidationError

	switch {
	case errors.As(err, &validationErr):
		logResolveRequest(logger, c, desc, false, fiber.StatusUnprocessableEntity, started, err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": validationErr.Violations,
		})
	case errors.Is(err, cache.ErrUpstream):
		logResolveRequest(logger, c, desc, false, fiber.StatusBadGateway, started, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "upstream_failed",
		})
	default:
		logResolveRequest(logger, c, desc, false, fiber.StatusInternalServerError, started, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_error",
		})
	}
}

// forwardableHeaders 收集入站请求头作为不透明透传值（例如上游鉴权头）。
// 描述 resolve 请求体自身的头部不应继续上行。
func forwardableHeaders(c fiber.Ctx) http.Header {
	headers := make(http.Header)
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})
	headers.Del(fiber.HeaderHost)
	headers.Del(fiber.HeaderContentLength)
	headers.Del(fiber.HeaderContentType)
	headers.Del(fiber.HeaderAcceptEncoding)
	return headers
}

func logResolveRequest(logger *logrus.Logger, c fiber.Ctx, desc cache.Descriptor, hit bool, status int, started time.Time, err error) {
	if logger == nil {
		return
	}
	fields := logging.ResolveFields(desc.Method, desc.URL, hit)
	fields["action"] = "resolve"
	fields["status"] = status
	fields["duration_ms"] = time.Since(started).Milliseconds()
	if reqID := server.RequestID(c); reqID != "" {
		fields["request_id"] = reqID
	}
	if err != nil {
		logger.WithFields(fields).Warn(err.Error())
		return
	}
	logger.WithFields(fields).Info("resolve served")
}
