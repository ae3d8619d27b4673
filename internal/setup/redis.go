package setup

import (
	"context"
	"time"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var RedisClientGlobal *redis.Client

// InitRedis 初始化 Redis 连接，作为提取码查询的读穿缓存
// 未配置 Redis 地址时跳过，服务退化为直查数据库
func InitRedis(cfg *config.Config) {
	if cfg.Redis.Addr == "" {
		logger.Info("Redis not configured, share lookups will go to the database directly.")
		return
	}

	RedisClientGlobal = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	_, err := RedisClientGlobal.Ping(context.Background()).Result()
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	logger.Info("Connected to Redis successfully!")
}

func CloseRedis() {
	if RedisClientGlobal != nil {
		err := RedisClientGlobal.Close()
		if err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		} else {
			logger.Info("Redis connection closed.")
		}
	}
}
