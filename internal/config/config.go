package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 结构体包含所有应用的配置
type Config struct {
	Server        ServerConfig        `mapstructure:"server"` // `mapstructure` 标签用于Viper绑定结构体
	MySQL         MySQLConfig         `mapstructure:"mysql"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	AliyunOSS     AliyunOSSConfig     `mapstructure:"aliyun_oss"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Share         ShareConfig         `mapstructure:"share"`
	Log           LogConfig           `mapstructure:"log"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	PublicBaseURL string `mapstructure:"public_base_url"` // 生成提取链接时使用的对外地址
}

// MySQLConfig 数据库配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

type AliyunOSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"` // 例如: oss-cn-hangzhou.aliyuncs.com
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

type StorageConfig struct {
	Type               string `mapstructure:"type"`                 // minio 或 aliyun_oss
	PresignedURLExpiry int    `mapstructure:"presigned_url_expiry"` // 预签名URL有效期（分钟）
}

// ShareConfig 分享业务配置
type ShareConfig struct {
	MaxUploadSizeBytes int64 `mapstructure:"max_upload_size_bytes"` // 单文件上传大小上限
	// 兼容历史明文密码记录的迁移期开关，全部记录迁移完成后应关闭
	LegacyPlaintextPassword bool `mapstructure:"legacy_plaintext_password"`
	CacheTTLSeconds         int  `mapstructure:"cache_ttl_seconds"` // 提取码查询缓存TTL
}

// zap日志配置
type LogConfig struct {
	OutputPath string `mapstructure:"output_path"`
	ErrorPath  string `mapstructure:"error_path"`
	Level      string `mapstructure:"level"`
}

// ElasticsearchConfig 定义 Elasticsearch 连接配置
type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"` // 分享元数据索引名
}

// StorageBucket 返回当前存储后端使用的桶名
func (c *Config) StorageBucket() string {
	if c.Storage.Type == "aliyun_oss" {
		return c.AliyunOSS.BucketName
	}
	return c.MinIO.BucketName
}

var AppConfig *Config // 全局应用配置实例

// LoadConfig 加载配置
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")              // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")                // 配置文件类型
	viper.AddConfigPath(".")                   // 在当前目录查找配置文件
	viper.AddConfigPath("./configs")           // 也可以添加其他路径
	viper.AddConfigPath("/etc/go-quickshare/") // 生产环境常见路径

	// 读取环境变量，例如 GO_QUICKSHARE_SERVER_PORT 对应 server.port
	viper.SetEnvPrefix("GO_QUICKSHARE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 默认值（配置文件和环境变量都缺失时生效）
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.public_base_url", "http://localhost:8080")
	viper.SetDefault("storage.type", "minio")
	viper.SetDefault("storage.presigned_url_expiry", 15)
	viper.SetDefault("share.max_upload_size_bytes", 100<<20)
	viper.SetDefault("share.legacy_plaintext_password", false)
	viper.SetDefault("share.cache_ttl_seconds", 60)
	viper.SetDefault("elasticsearch.enabled", false)
	viper.SetDefault("elasticsearch.index", "quickshare-shares")
	viper.SetDefault("log.output_path", "logs/app.log")
	viper.SetDefault("log.error_path", "logs/error.log")
	viper.SetDefault("log.level", "info")

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 配置文件未找到不是致命错误，可以依赖环境变量或默认值
			log.Println("Warning: config file not found, using environment variables or default values.")
		} else {
			log.Fatalf("Fatal error reading config file: %s \n", err)
			return nil, err
		}
	}

	// 将读取到的配置绑定到结构体
	AppConfig = &Config{}
	if err := viper.Unmarshal(AppConfig); err != nil {
		log.Fatalf("Fatal error unmarshaling config: %s \n", err)
		return nil, err
	}

	log.Println("Configuration loaded successfully with Viper.")
	return AppConfig, nil
}
