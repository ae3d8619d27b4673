package handlers

import (
	"net/http"
	"strings"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/utils"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/repositories"
	"github.com/3Eeeecho/go-quickshare/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=255"`
	Email    string `json:"email" binding:"required,email"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // 可以是用户名或邮箱
	Password   string `json:"password" binding:"required"`
}

// @Summary 用户注册
// @Description 用户注册接口
// @Tags 用户认证
// @Accept json
// @Produce json
// @Param data body RegisterRequest true "注册信息"
// @Success 200 {object} xerr.Response "注册成功"
// @Failure 400 {object} xerr.Response "参数错误"
// @Failure 409 {object} xerr.Response "用户名或邮箱已存在"
// @Router /api/v1/auth/register [post]
func Register(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	userRepo := repositories.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, cfg)
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		user, err := authService.RegisterUser(req.Username, req.Password, req.Email)
		if err != nil {
			if xerr.Is(err, xerr.ErrUserAlreadyExists) {
				xerr.Error(c, http.StatusConflict, xerr.UserAlreadyExistsCode, err.Error())
				return
			}
			if xerr.Is(err, xerr.ErrEmailAlreadyExists) {
				xerr.Error(c, http.StatusConflict, xerr.EmailAlreadyExistsCode, err.Error())
				return
			}
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to register user")
			return
		}

		xerr.Success(c, http.StatusOK, "User registered successfully", gin.H{
			"user_id":  user.ID,
			"username": user.Username,
			"email":    user.Email,
		})
	}
}

// @Summary 用户登录
// @Description 用户登录接口，identifier 支持用户名或邮箱
// @Tags 用户认证
// @Accept json
// @Produce json
// @Param data body LoginRequest true "登录信息"
// @Success 200 {object} xerr.Response "登录成功，返回token"
// @Failure 400 {object} xerr.Response "参数错误"
// @Failure 401 {object} xerr.Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func Login(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	userRepo := repositories.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, cfg)
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		tokenString, err := authService.LoginUser(req.Identifier, req.Password)
		if err != nil {
			if xerr.Is(err, xerr.ErrUserNotFound) || xerr.Is(err, xerr.ErrInvalidCredentials) {
				// 对外统一返回凭证错误，不区分用户是否存在
				xerr.Error(c, http.StatusUnauthorized, xerr.InvalidCredentialsCode, "Invalid username or password")
				return
			}
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to login")
			return
		}

		xerr.Success(c, http.StatusOK, "Login successful", gin.H{"token": tokenString})
	}
}

// @Summary 刷新Token
// @Description 用仍然有效的 Token 换发一个新 Token
// @Tags 用户认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "刷新成功"
// @Failure 401 {object} xerr.Response "Token 无效或已过期"
// @Router /api/v1/auth/refresh [post]
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			xerr.Error(c, http.StatusUnauthorized, xerr.UnauthorizedCode, "Invalid Authorization header format")
			return
		}

		claims, err := utils.ParseToken(parts[1], cfg.JWT.SecretKey)
		if err != nil {
			xerr.Error(c, http.StatusUnauthorized, xerr.TokenInvalidCode, "Invalid or malformed token")
			return
		}

		token, err := utils.GenerateToken(claims.UserID, claims.Username, claims.Email,
			cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
		if err != nil {
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to refresh token")
			return
		}

		xerr.Success(c, http.StatusOK, "Token refreshed", gin.H{"token": token})
	}
}
