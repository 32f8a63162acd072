package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// Config 描述整个服务的运行时行为，媒体与缓存子系统共享同一份参数。
type Config struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// MediaPath 是媒体文件根目录；StorePath 是响应缓存（LevelDB）目录。
	MediaPath string `mapstructure:"MediaPath"`
	StorePath string `mapstructure:"StorePath"`

	// MaxChunkSize 限制单次 Range 响应的最大切片字节数。
	MaxChunkSize int64 `mapstructure:"MaxChunkSize"`

	UpstreamTimeout Duration `mapstructure:"UpstreamTimeout"`

	// AllowedMethods 是缓存解析端点接受的 HTTP 方法白名单。
	AllowedMethods []string `mapstructure:"AllowedMethods"`
}

// NormalizedMethods 返回统一大写、去除空白后的方法白名单。
func (c Config) NormalizedMethods() []string {
	if len(c.AllowedMethods) == 0 {
		return nil
	}
	result := make([]string, 0, len(c.AllowedMethods))
	for _, m := range c.AllowedMethods {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			result = append(result, strings.ToUpper(trimmed))
		}
	}
	return result
}
