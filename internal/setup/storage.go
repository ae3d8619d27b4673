package setup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/storage"
)

// InitMinIOStorage 初始化 MinIO 存储服务并确保存储桶存在。
func InitMinIOStorage(cfg *config.Config) (storage.StorageService, error) {
	minioCfg := &cfg.MinIO

	minioSvc, err := storage.NewMinIOStorageService(minioCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 存储服务失败: %w", err)
	}
	logger.Info("MinIO 存储服务已选择并初始化")

	// 检查并创建 MinIO 存储桶
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := minioSvc.IsBucketExist(ctx, minioCfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查 MinIO 存储桶存在性失败: %w", err)
	}

	if !exists {
		logger.Info("MinIO 存储桶不存在，尝试创建...", zap.String("bucketName", minioCfg.BucketName))
		if err := minioSvc.MakeBucket(ctx, minioCfg.BucketName); err != nil {
			return nil, fmt.Errorf("创建 MinIO 存储桶失败: %w", err)
		}
		logger.Info("MinIO 存储桶创建成功", zap.String("bucketName", minioCfg.BucketName))
	} else {
		logger.Info("MinIO 存储桶已存在", zap.String("bucketName", minioCfg.BucketName))
	}

	return minioSvc, nil
}

// InitAliyunOSSStorage 初始化阿里云 OSS 存储服务并确保存储桶存在。
func InitAliyunOSSStorage(cfg *config.Config) (storage.StorageService, error) {
	aliyunCfg := &cfg.AliyunOSS

	aliyunSvc, err := storage.NewAliyunOSSStorageService(aliyunCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化阿里云 OSS 存储服务失败: %w", err)
	}
	logger.Info("阿里云 OSS 存储服务已选择并初始化")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := aliyunSvc.IsBucketExist(ctx, aliyunCfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查阿里云 OSS 存储桶存在性失败: %w", err)
	}

	if !exists {
		logger.Info("阿里云 OSS 存储桶不存在，尝试创建...", zap.String("bucketName", aliyunCfg.BucketName))
		if err := aliyunSvc.MakeBucket(ctx, aliyunCfg.BucketName); err != nil {
			return nil, fmt.Errorf("创建阿里云 OSS 存储桶失败: %w", err)
		}
		logger.Info("阿里云 OSS 存储桶创建成功", zap.String("bucketName", aliyunCfg.BucketName))
	} else {
		logger.Info("阿里云 OSS 存储桶已存在", zap.String("bucketName", aliyunCfg.BucketName))
	}

	return aliyunSvc, nil
}

// InitStorage 按配置选择对象存储后端，文件分享的载荷都存放在这里
func InitStorage(cfg *config.Config) storage.StorageService {
	var fileStorageService storage.StorageService
	switch cfg.Storage.Type {
	case "minio":
		minioSvc, err := InitMinIOStorage(cfg)
		if err != nil {
			logger.Fatal("初始化 MinIO 存储服务失败", zap.Error(err))
		}
		fileStorageService = minioSvc
	case "aliyun_oss":
		aliyunSvc, err := InitAliyunOSSStorage(cfg)
		if err != nil {
			logger.Fatal("初始化阿里云 OSS 存储服务失败", zap.Error(err))
		}
		fileStorageService = aliyunSvc
	default:
		logger.Fatal("未知的存储服务类型，请检查配置: " + cfg.Storage.Type)
	}
	return fileStorageService
}
