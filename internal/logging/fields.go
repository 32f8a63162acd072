package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// MediaFields 提供媒体请求的 id/range/命中状态字段，供流式响应日志复用。
func MediaFields(id, rangeHeader string, status int) logrus.Fields {
	return logrus.Fields{
		"media_id": id,
		"range":    rangeHeader,
		"status":   status,
	}
}

// ResolveFields 提供缓存解析请求的 method/url/命中状态字段。
func ResolveFields(method, url string, cacheHit bool) logrus.Fields {
	return logrus.Fields{
		"method":    method,
		"url":       url,
		"cache_hit": cacheHit,
	}
}
