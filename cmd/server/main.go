package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/3Eeeecho/go-quickshare/internal/router"
	"github.com/3Eeeecho/go-quickshare/internal/setup"
	"go.uber.org/zap"
)

// @title go-quickshare API
// @version 1.0
// @description 文件与富文本分享服务，凭6位提取码访问
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("加载配置出错", zap.Error(err))
	}

	//初始化日志系统
	if err = os.MkdirAll("logs", 0755); err != nil {
		logger.Fatal("初始化日志系统失败", zap.Error(err))
	}
	logger.InitLogger(cfg.Log.OutputPath, cfg.Log.ErrorPath, cfg.Log.Level)
	defer logger.Sync() // 确保在应用退出时刷新所有缓冲的日志条目

	logger.Info("启动分享服务...")

	// 初始化数据库连接
	setup.InitMySQL(&cfg.MySQL)
	defer setup.CloseMySQLDB()

	// 初始化 Redis 连接（可选，未配置时退化为直查数据库）
	setup.InitRedis(cfg)
	defer setup.CloseRedis()

	// 初始化 Elasticsearch（可选，未启用时搜索接口不可用）
	setup.InitElasticsearchClient(&cfg.Elasticsearch)

	// 初始化对象存储
	fileStorageService := setup.InitStorage(cfg)

	// 初始化 Gin 引擎和注册路由
	routerCfg := router.NewRouterConfig(setup.DB, setup.RedisClientGlobal, setup.EsClient, fileStorageService, cfg)
	engine := router.InitRouter(routerCfg)

	// 启动 HTTP 服务器
	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		logger.Info(fmt.Sprintf("Server is running on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// 等待停止信号，优雅关机
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	<-stopChan
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("分享服务已退出。")
}
