package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradechallenge/config"
	"tradechallenge/database"
	"tradechallenge/i18n"
	"tradechallenge/logger"
	"tradechallenge/metrics"
	"tradechallenge/web"
)

// Version 版本号
var Version = "1.2.0"

// buildDSN 根据数据库配置拼接 DSN
func buildDSN(cfg *config.Config) string {
	switch cfg.Database.Type {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			cfg.Database.Host, cfg.Database.User, cfg.Database.Password,
			cfg.Database.DBName, cfg.Database.Port)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Database.User, cfg.Database.Password,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	default:
		return cfg.Database.Path
	}
}

func main() {
	// 检查版本参数
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Printf("Trade Challenge Tracker\n")
		fmt.Printf("Version: %s\n", Version)
		os.Exit(0)
	}

	// 解析调试参数（-debug / --debug）
	debugMode := false
	filteredArgs := []string{os.Args[0]}
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-debug", "--debug":
			debugMode = true
		default:
			filteredArgs = append(filteredArgs, arg)
		}
	}
	if debugMode {
		log.Printf("[INFO] Debug 模式已启用：Gin 将输出全量请求日志")
	}
	os.Args = filteredArgs

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// 配置文件不存在时写出默认配置
	var cfg *config.Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Info("ℹ️ 配置文件不存在，创建默认配置: %s", configPath)
		cfg = config.CreateDefaultConfig()
		if err := config.SaveConfig(cfg, configPath); err != nil {
			logger.Warn("⚠️ 保存默认配置失败: %v，将继续运行", err)
		}
	} else {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			logger.Fatal("❌ 加载配置失败: %v", err)
		}
	}

	// 时区
	loc, err := time.LoadLocation(cfg.System.Timezone)
	if err != nil {
		logger.Warn("⚠️ 加载时区 %s 失败: %v，将使用 UTC", cfg.System.Timezone, err)
		loc = time.UTC
	}
	logger.SetLocation(loc)
	web.SetLocation(loc)

	// 日志级别
	if debugMode {
		cfg.System.LogLevel = "debug"
	}
	logLevel := logger.ParseLogLevel(cfg.System.LogLevel)
	logger.SetLevel(logLevel)

	logger.Info("🚀 Trade Challenge Tracker 启动...")
	logger.Info("📦 版本号: %s", Version)
	logger.Info("✅ 系统时区: %s，日志级别: %s", loc.String(), logLevel.String())

	// Web 访问日志 & 过期日志清理
	if err := logger.InitWebLogger(); err != nil {
		logger.Warn("⚠️ 初始化 Web 日志失败: %v", err)
	}
	if cfg.System.LogRetentionDays > 0 {
		logger.CleanupOldLogs(cfg.System.LogRetentionDays)
		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				logger.CleanupOldLogs(cfg.System.LogRetentionDays)
			}
		}()
	}

	// i18n（仪表盘建议文案 fr-FR / en-US）
	if err := i18n.Init(cfg.System.Language); err != nil {
		logger.Fatal("❌ 初始化 i18n 失败: %v", err)
	}
	logger.Info("✅ i18n 已初始化，系统语言: %s", cfg.System.Language)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 数据库
	db, err := database.NewDatabase(&database.Config{
		Type:            cfg.Database.Type,
		DSN:             buildDSN(cfg),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		LogLevel:        cfg.System.LogLevel,
	})
	if err != nil {
		logger.Fatal("❌ 初始化数据库失败: %v", err)
	}
	defer db.Close()
	logger.Info("✅ 数据库已连接: %s", cfg.Database.Type)

	// 密码库
	passwordManager, err := web.NewPasswordManager(cfg.Auth.DBPath)
	if err != nil {
		logger.Fatal("❌ 初始化密码库失败: %v", err)
	}
	defer passwordManager.Close()

	// 会话存储
	sessionStore, err := web.NewSessionStore(cfg)
	if err != nil {
		logger.Fatal("❌ 初始化会话存储失败: %v", err)
	}
	defer sessionStore.Close()
	sessionManager := web.NewSessionManager(sessionStore, cfg.Session.CookieName,
		time.Duration(cfg.Session.TimeoutHours)*time.Hour)
	logger.Info("✅ 会话存储已初始化: %s", cfg.Session.Store)

	// 注入 Web 层依赖
	web.Version = Version
	web.SetDatabase(db)
	web.SetConfig(cfg)
	web.SetPasswordManager(passwordManager)
	web.SetSessionManager(sessionManager)

	// 系统指标采集
	var systemCollector *metrics.SystemMetricsCollector
	if cfg.Metrics.Enabled {
		systemCollector = metrics.NewSystemMetricsCollector(
			time.Duration(cfg.Metrics.SystemCollectorInterval) * time.Second)
		systemCollector.Start()
		defer systemCollector.Stop()
		logger.Info("✅ 系统指标采集已启动，间隔 %d 秒", cfg.Metrics.SystemCollectorInterval)
	}

	// 配置热更新
	watcher, err := config.NewConfigWatcher(configPath, cfg, func(newCfg *config.Config) {
		logger.SetLevel(logger.ParseLogLevel(newCfg.System.LogLevel))
		web.SetConfig(newCfg)
		logger.Info("🔄 配置已热更新")
	})
	if err != nil {
		logger.Warn("⚠️ 初始化配置监控失败: %v，热更新不可用", err)
	} else {
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("⚠️ 启动配置监控失败: %v", err)
		} else {
			defer watcher.Stop()
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-watcher.GetUpdateChan():
						logger.Warn("⚠️ 服务器/数据库/会话配置变更需要重启后生效")
					case err := <-watcher.GetErrorChan():
						logger.Warn("⚠️ 配置监控错误: %v", err)
					}
				}
			}()
		}
	}

	// Web 服务器
	server := web.NewWebServer(cfg)
	if err := server.Start(ctx); err != nil {
		logger.Fatal("❌ 启动 Web 服务器失败: %v", err)
	}

	logger.Info("✅ 系统初始化完成，程序正在运行中...")
	logger.Info("💡 按 Ctrl+C 退出程序")

	// 等待退出信号（SIGINT 或 SIGTERM）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("🛑 收到退出信号，开始优雅关闭...")
	server.Stop()
	cancel()
	time.Sleep(200 * time.Millisecond)
	logger.Close()
}
