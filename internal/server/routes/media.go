package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/tonehub/tonehub/internal/logging"
	"github.com/tonehub/tonehub/internal/media"
	"github.com/tonehub/tonehub/internal/server"
)

// RegisterMediaRoutes 暴露 GET /media/* 流式接口，按 Range 头返回 200/206。
func RegisterMediaRoutes(app *fiber.App, lib *media.Library, logger *logrus.Logger, maxChunk int64) {
	if app == nil || lib == nil {
		return
	}

	app.Get("/media/*", func(c fiber.Ctx) error {
		started := time.Now()
		id := c.Params("*")
		rangeHeader := string(c.Request().Header.Peek(fiber.HeaderRange))

		path, size, err := lib.Resolve(id)
		if err != nil {
			return renderMediaError(c, logger, id, rangeHeader, err, started)
		}

		rng, err := media.ParseRange(rangeHeader, size, maxChunk)
		if err != nil {
			return renderMediaError(c, logger, id, rangeHeader, err, started)
		}

		slice, err := media.ReadRange(path, rng)
		if err != nil {
			return renderMediaError(c, logger, id, rangeHeader, err, started)
		}

		c.Set(fiber.HeaderContentType, slice.ContentType)
		c.Response().Header.SetContentLength(int(slice.ContentLength))
		if slice.Status == fiber.StatusPartialContent {
			c.Set(fiber.HeaderContentRange, slice.ContentRange)
			c.Set(fiber.HeaderAcceptRanges, "bytes")
		}

		logMediaRequest(logger, c, id, rangeHeader, slice.Status, started, nil)
		return c.Status(slice.Status).Send(slice.Body)
	})
}

// renderMediaError 将媒体子系统的错误类型映射为对应的 HTTP 状态。
func renderMediaError(c fiber.Ctx, logger *logrus.Logger, id, rangeHeader string, err error, started time.Time) error {
	var rangeErr *media.RangeError

	switch {
	case errors.Is(err, media.ErrNotFound):
		logMediaRequest(logger, c, id, rangeHeader, fiber.StatusNotFound, started, err)
		return c.Status(fiber.StatusNotFound).SendString("media object not found")
	case errors.As(err, &rangeErr):
		logMediaRequest(logger, c, id, rangeHeader, fiber.StatusRequestedRangeNotSatisfiable, started, err)
		return c.Status(fiber.StatusRequestedRangeNotSatisfiable).JSON(fiber.Map{
			"error":  "range_not_satisfiable",
			"reason": rangeErr.Reason,
		})
	default:
		logMediaRequest(logger, c, id, rangeHeader, fiber.StatusInternalServerError, started, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_error",
		})
	}
}

func logMediaRequest(logger *logrus.Logger, c fiber.Ctx, id, rangeHeader string, status int, started time.Time, err error) {
	if logger == nil {
		return
	}
	fields := logging.MediaFields(id, rangeHeader, status)
	fields["action"] = "serve_media"
	fields["duration_ms"] = time.Since(started).Milliseconds()
	if reqID := server.RequestID(c); reqID != "" {
		fields["request_id"] = reqID
	}
	if err != nil {
		logger.WithFields(fields).Warn(err.Error())
		return
	}
	logger.WithFields(fields).Info("media served")
}
