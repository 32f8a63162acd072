package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// 缓存解析端点只接受无副作用、可安全重放的方法。
var supportedMethods = map[string]struct{}{
	http.MethodGet:  {},
	http.MethodPost: {},
}

const supportedMethodList = "GET|POST"

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if c.MediaPath == "" {
		return newFieldError("MediaPath", "不能为空")
	}
	if c.StorePath == "" {
		return newFieldError("StorePath", "不能为空")
	}
	if c.MaxChunkSize <= 0 {
		return newFieldError("MaxChunkSize", "必须大于 0")
	}
	if c.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError("UpstreamTimeout", "必须大于 0")
	}
	if c.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if c.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}

	methods := c.NormalizedMethods()
	if len(methods) == 0 {
		return newFieldError("AllowedMethods", "至少需要一个方法")
	}
	seen := map[string]struct{}{}
	for _, m := range methods {
		if _, ok := supportedMethods[m]; !ok {
			return newFieldError("AllowedMethods", fmt.Sprintf("%s 不受支持，仅支持 %s", m, supportedMethodList))
		}
		if _, dup := seen[m]; dup {
			return newFieldError("AllowedMethods", m+" 重复")
		}
		seen[m] = struct{}{}
	}
	c.AllowedMethods = methods

	if c.LogLevel != "" && !isKnownLogLevel(c.LogLevel) {
		return newFieldError("LogLevel", "未知日志级别 "+c.LogLevel)
	}

	return nil
}

func isKnownLogLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "panic", "fatal", "error", "warn", "warning", "info", "debug", "trace":
		return true
	}
	return false
}
