package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(testConfigPath(t, "valid.toml"))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if cfg.ListenPort != 5100 {
		t.Fatalf("ListenPort 应当被解析，得到 %d", cfg.ListenPort)
	}
	if cfg.MaxChunkSize != 1<<20 {
		t.Fatalf("MaxChunkSize 应自动填充 1 MiB 默认值，得到 %d", cfg.MaxChunkSize)
	}
	if cfg.UpstreamTimeout.DurationValue() != 10*time.Second {
		t.Fatalf("UpstreamTimeout 应被解析为 10s")
	}
	if !filepath.IsAbs(cfg.MediaPath) || !filepath.IsAbs(cfg.StorePath) {
		t.Fatalf("目录应解析为绝对路径: %s %s", cfg.MediaPath, cfg.StorePath)
	}
	if len(cfg.AllowedMethods) != 2 {
		t.Fatalf("AllowedMethods 应自动填充默认白名单，得到 %v", cfg.AllowedMethods)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(testConfigPath(t, "missing.toml")); err == nil {
		t.Fatalf("不存在的配置文件应返回错误")
	}
}

func TestValidateEnforcesListenPortRange(t *testing.T) {
	path := writeTempConfig(t, `
ListenPort = 70000
MediaPath = "./media"
StorePath = "./store"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("ListenPort 超出范围应当报错")
	}
}

func TestValidateRejectsUnknownMethod(t *testing.T) {
	path := writeTempConfig(t, `
MediaPath = "./media"
StorePath = "./store"
AllowedMethods = ["GET", "TRACE"]
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("白名单之外的方法应当报错")
	}
}

func TestValidateNormalizesMethodCase(t *testing.T) {
	path := writeTempConfig(t, `
MediaPath = "./media"
StorePath = "./store"
AllowedMethods = ["get", " post "]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("小写方法应被归一化而非拒绝: %v", err)
	}
	methods := cfg.NormalizedMethods()
	if len(methods) != 2 || methods[0] != "GET" || methods[1] != "POST" {
		t.Fatalf("方法应统一大写并去空白，得到 %v", methods)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	path := writeTempConfig(t, `
MediaPath = "./media"
StorePath = "./store"
UpstreamTimeout = "boom"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 Duration 应失败")
	}
}

func TestValidateRejectsNonPositiveChunk(t *testing.T) {
	path := writeTempConfig(t, `
MediaPath = "./media"
StorePath = "./store"
MaxChunkSize = -1
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("非正的 MaxChunkSize 应当报错")
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90")); err != nil {
		t.Fatalf("纯数字秒值应可解析: %v", err)
	}
	if d.DurationValue() != 90*time.Second {
		t.Fatalf("期望 90s，得到 %v", d.DurationValue())
	}
	if err := d.UnmarshalText([]byte("5m")); err != nil {
		t.Fatalf("Go Duration 字符串应可解析: %v", err)
	}
	if d.DurationValue() != 5*time.Minute {
		t.Fatalf("期望 5m，得到 %v", d.DurationValue())
	}
}
