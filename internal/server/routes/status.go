package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tonehub/tonehub/internal/config"
	"github.com/tonehub/tonehub/internal/media"
	"github.com/tonehub/tonehub/internal/version"
)

// RegisterStatusRoutes 暴露 /-/status 诊断接口，供运维查询当前生效配置。
func RegisterStatusRoutes(app *fiber.App, cfg *config.Config, lib *media.Library) {
	if app == nil || cfg == nil {
		return
	}

	app.Get("/-/status", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"version":         version.Full(),
			"listen_port":     cfg.ListenPort,
			"store_path":      cfg.StorePath,
			"max_chunk_size":  cfg.MaxChunkSize,
			"allowed_methods": cfg.NormalizedMethods(),
		}
		if lib != nil {
			payload["media_path"] = lib.BasePath()
		}
		return c.JSON(payload)
	})
}
