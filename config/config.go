package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 挑战跟踪系统配置
type Config struct {
	// Web 服务配置
	Server struct {
		Host      string `yaml:"host"`       // 监听地址，默认 0.0.0.0
		Port      int    `yaml:"port"`       // 监听端口，默认 8080
		StaticDir string `yaml:"static_dir"` // 前端静态文件目录，空则不挂载
	} `yaml:"server"`

	// 业务数据库配置
	Database struct {
		Type     string `yaml:"type"` // sqlite / postgres / mysql
		Path     string `yaml:"path"` // sqlite 文件路径
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		// 连接池
		MaxOpenConns    int `yaml:"max_open_conns"`     // 默认 10
		MaxIdleConns    int `yaml:"max_idle_conns"`     // 默认 5
		ConnMaxLifetime int `yaml:"conn_max_lifetime"`  // 秒，默认 3600
	} `yaml:"database"`

	// 认证配置（单用户）
	Auth struct {
		DBPath           string `yaml:"db_path"`            // 密码库路径，默认 ./data/auth.db
		Username         string `yaml:"username"`           // 固定账号名，默认 trader
		LoginRatePerMin  int    `yaml:"login_rate_per_min"` // 每 IP 每分钟允许的验证次数，默认 5
		LoginBurst       int    `yaml:"login_burst"`        // 突发额度，默认 5
	} `yaml:"auth"`

	// 会话配置
	Session struct {
		Store        string `yaml:"store"`         // memory / redis，默认 memory
		TimeoutHours int    `yaml:"timeout_hours"` // 默认 24
		CookieName   string `yaml:"cookie_name"`   // 默认 session_id
		Redis        struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"` // key 前缀，默认 tc:session:
		} `yaml:"redis"`
	} `yaml:"session"`

	// 建议引擎配置
	Advisory struct {
		// 为 true 时达标封锁跟随规则中的 stop_if_objective_reached 开关
		RespectStopFlag bool `yaml:"respect_stop_flag"`
	} `yaml:"advisory"`

	// 监控配置
	Metrics struct {
		Enabled                 bool `yaml:"enabled"`                   // 默认 true
		SystemCollectorInterval int  `yaml:"system_collector_interval"` // 秒，默认 15
	} `yaml:"metrics"`

	// 系统配置
	System struct {
		LogLevel         string `yaml:"log_level"`          // DEBUG / INFO / WARNING / ERROR
		Timezone         string `yaml:"timezone"`           // 如 "Europe/Paris"
		Language         string `yaml:"language"`           // fr-FR / en-US
		LogRetentionDays int    `yaml:"log_retention_days"` // 默认 30，0 表示不清理
	} `yaml:"system"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %v", err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes 从字节数组加载配置（用于测试）
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := CreateDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %v", err)
	}

	return cfg, nil
}

// SaveConfig 保存配置到文件
func SaveConfig(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %v", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %v", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %v", err)
	}

	return nil
}

// CreateDefaultConfig 创建默认配置（首次启动时落盘）
func CreateDefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080

	cfg.Database.Type = "sqlite"
	cfg.Database.Path = "./data/challenge.db"
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 3600

	cfg.Auth.DBPath = "./data/auth.db"
	cfg.Auth.Username = "trader"
	cfg.Auth.LoginRatePerMin = 5
	cfg.Auth.LoginBurst = 5

	cfg.Session.Store = "memory"
	cfg.Session.TimeoutHours = 24
	cfg.Session.CookieName = "session_id"
	cfg.Session.Redis.Prefix = "tc:session:"

	cfg.Advisory.RespectStopFlag = false

	cfg.Metrics.Enabled = true
	cfg.Metrics.SystemCollectorInterval = 15

	cfg.System.LogLevel = "INFO"
	cfg.System.Timezone = "Europe/Paris"
	cfg.System.Language = "fr-FR"
	cfg.System.LogRetentionDays = 30

	return cfg
}

// Validate 验证配置合法性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port 必须在 1-65535 之间")
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("sqlite 数据库必须指定 database.path")
		}
	case "postgres", "mysql":
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("数据库 %s 必须指定 host 和 dbname", c.Database.Type)
		}
	default:
		return fmt.Errorf("不支持的数据库类型: %s", c.Database.Type)
	}

	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.Redis.Addr == "" {
			return fmt.Errorf("redis 会话存储必须指定 session.redis.addr")
		}
	default:
		return fmt.Errorf("不支持的会话存储类型: %s", c.Session.Store)
	}

	if c.Session.TimeoutHours <= 0 {
		return fmt.Errorf("session.timeout_hours 必须大于 0")
	}

	if c.Auth.Username == "" {
		return fmt.Errorf("auth.username 不能为空")
	}

	if c.Metrics.Enabled && c.Metrics.SystemCollectorInterval <= 0 {
		return fmt.Errorf("metrics.system_collector_interval 必须大于 0")
	}

	return nil
}
