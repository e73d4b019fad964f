package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDefaultConfig(t *testing.T) {
	cfg := CreateDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置应通过验证: %v", err)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("默认数据库类型应为 sqlite, got=%s", cfg.Database.Type)
	}
	if cfg.Session.Store != "memory" {
		t.Errorf("默认会话存储应为 memory, got=%s", cfg.Session.Store)
	}
	if cfg.System.Language != "fr-FR" {
		t.Errorf("默认语言应为 fr-FR, got=%s", cfg.System.Language)
	}
	if cfg.Advisory.RespectStopFlag {
		t.Error("默认应无条件执行达标封锁")
	}
}

func TestLoadConfigFromBytes(t *testing.T) {
	data := []byte(`
server:
  port: 9090
database:
  type: sqlite
  path: ./test.db
advisory:
  respect_stop_flag: true
system:
  log_level: DEBUG
`)
	cfg, err := LoadConfigFromBytes(data)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("端口解析错误: got=%d", cfg.Server.Port)
	}
	if !cfg.Advisory.RespectStopFlag {
		t.Error("advisory.respect_stop_flag 解析错误")
	}
	// 未指定的字段应保留默认值
	if cfg.Session.TimeoutHours != 24 {
		t.Errorf("未指定字段应保留默认值: timeout_hours=%d", cfg.Session.TimeoutHours)
	}
	if cfg.Auth.Username != "trader" {
		t.Errorf("未指定字段应保留默认值: username=%s", cfg.Auth.Username)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"非法端口", func(c *Config) { c.Server.Port = 0 }},
		{"非法数据库类型", func(c *Config) { c.Database.Type = "oracle" }},
		{"sqlite 缺路径", func(c *Config) { c.Database.Path = "" }},
		{"postgres 缺主机", func(c *Config) { c.Database.Type = "postgres"; c.Database.Host = "" }},
		{"非法会话存储", func(c *Config) { c.Session.Store = "memcached" }},
		{"redis 缺地址", func(c *Config) { c.Session.Store = "redis" }},
		{"非法会话超时", func(c *Config) { c.Session.TimeoutHours = 0 }},
		{"空账号名", func(c *Config) { c.Auth.Username = "" }},
	}
	for _, tt := range tests {
		cfg := CreateDefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: 应返回验证错误", tt.name)
		}
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := CreateDefaultConfig()
	cfg.Server.Port = 8888
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if loaded.Server.Port != 8888 {
		t.Errorf("往返后端口不一致: got=%d", loaded.Server.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(os.TempDir(), "no-such-config-xyz.yaml")); err == nil {
		t.Error("不存在的配置文件应返回错误")
	}
}
