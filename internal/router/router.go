package router

import (
	"net/http"

	_ "github.com/3Eeeecho/go-quickshare/docs"
	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/handlers"
	"github.com/3Eeeecho/go-quickshare/internal/middlewares"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/cache"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/storage"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/repositories"
	"github.com/3Eeeecho/go-quickshare/internal/services"
	"github.com/3Eeeecho/go-quickshare/internal/services/share"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterConfig 包含初始化路由所需的所有依赖
// redisClient 和 esClient 允许为 nil，对应功能自动退化
type RouterConfig struct {
	db                 *gorm.DB
	redisClient        *redis.Client
	esClient           *elasticsearch.Client
	fileStorageService storage.StorageService
	cfg                *config.Config
}

func NewRouterConfig(db *gorm.DB, redisClient *redis.Client, esClient *elasticsearch.Client, fileStorageService storage.StorageService, cfg *config.Config) *RouterConfig {
	return &RouterConfig{
		db:                 db,
		redisClient:        redisClient,
		esClient:           esClient,
		fileStorageService: fileStorageService,
		cfg:                cfg,
	}
}

func InitRouter(routerCfg *RouterConfig) *gin.Engine {
	router := gin.Default() // 使用默认的 Gin 引擎，包含 Logger 和 Recovery 中间件

	// Health Check 路由
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 可选依赖按配置装配
	var cacheService cache.Cache
	if routerCfg.redisClient != nil {
		cacheService = cache.NewRedisCache(routerCfg.redisClient)
	}
	var indexer share.ShareIndexer
	if routerCfg.esClient != nil {
		indexer = share.NewESShareIndexer(routerCfg.esClient, routerCfg.cfg.Elasticsearch.Index)
	}

	shareRepo := repositories.NewShareRepository(routerCfg.db)
	shareService := share.NewShareService(shareRepo, routerCfg.fileStorageService, cacheService, indexer, routerCfg.cfg)

	shareHandler := handlers.NewShareHandler(shareService, routerCfg.fileStorageService, routerCfg.cfg)
	accessHandler := handlers.NewAccessHandler(shareService, routerCfg.cfg)

	v1 := router.Group("/api/v1")
	{
		// 认证相关路由 (无需认证)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handlers.Register(routerCfg.db, routerCfg.cfg))
			authGroup.POST("/login", handlers.Login(routerCfg.db, routerCfg.cfg))
			authGroup.POST("/refresh", handlers.RefreshToken(routerCfg.cfg))
		}

		// 提取访问路由 (无需认证，凭提取码访问)
		accessGroup := v1.Group("/access")
		{
			accessGroup.GET("/:code", accessHandler.GetShareDetails)
			accessGroup.POST("/:code/verify", accessHandler.VerifyPassword)
			accessGroup.GET("/:code/content", accessHandler.GetContent)
		}

		// 需要认证的路由组
		authenticated := v1.Group("/")
		authenticated.Use(middlewares.AuthMiddleware(routerCfg.cfg))

		// 用户相关路由
		userGroup := authenticated.Group("/users")
		{
			userRepo := repositories.NewUserRepository(routerCfg.db)
			userService := services.NewUserService(userRepo)
			userHandler := handlers.NewUserHandler(userService)

			userGroup.GET("/me", userHandler.GetUserProfile)
		}

		// 分享管理路由
		shareGroup := authenticated.Group("/shares")
		{
			shareGroup.POST("/text", shareHandler.CreateTextShare)
			shareGroup.POST("/file", shareHandler.CreateFileShare)
			shareGroup.GET("/my", shareHandler.ListUserShares)
			shareGroup.GET("/search", shareHandler.SearchShares)
			shareGroup.GET("/export", shareHandler.ExportShares)
			shareGroup.PUT("/:share_id", shareHandler.UpdateShare)
			shareGroup.DELETE("/:share_id", shareHandler.DeleteShare)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		xerr.Error(c, http.StatusNotFound, http.StatusNotFound, "Route not found")
	})

	return router
}
