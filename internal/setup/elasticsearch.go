package setup

import (
	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

var EsClient *elasticsearch.Client

// InitElasticsearchClient 初始化 Elasticsearch 连接，用于分享元数据的搜索索引
// 配置未启用时跳过，搜索接口返回服务不可用
func InitElasticsearchClient(cfg *config.ElasticsearchConfig) {
	if !cfg.Enabled {
		logger.Info("Elasticsearch disabled, share search will be unavailable.")
		return
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	var err error
	if EsClient, err = elasticsearch.NewClient(esCfg); err != nil {
		logger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}

	// 尝试连接并获取集群信息，验证连接是否成功
	res, err := EsClient.Info()
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", zap.Error(err))
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Fatal("Error connecting to Elasticsearch", zap.String("status", res.Status()))
	}

	logger.Info("Elasticsearch client initialized successfully.", zap.String("index", cfg.Index))
}
