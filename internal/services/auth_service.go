package services

import (
	"fmt"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/utils"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/repositories"
	"go.uber.org/zap"
)

type AuthService interface {
	RegisterUser(username, password, email string) (*models.User, error)
	LoginUser(identifier, password string) (string, error)
}

type authService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// 确保authService实现了AuthService的方法
var _ AuthService = (*authService)(nil)

func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) RegisterUser(username, password, email string) (*models.User, error) {
	//检查用户名是否存在
	existingUser, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if existingUser != nil {
		return nil, xerr.ErrUserAlreadyExists
	}

	//检查邮箱是否存在
	existingUser, err = s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existingUser != nil {
		return nil, xerr.ErrEmailAlreadyExists
	}

	//哈希密码
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Email:        email,
		Status:       1,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user in database: %w", err)
	}

	logger.Info("User registered successfully", zap.String("username", user.Username))
	return user, nil
}

// LoginUser 验证用户凭证并签发 JWT Token
// identifier 可以是用户名或邮箱
func (s *authService) LoginUser(identifier, password string) (string, error) {
	user, err := s.userRepo.GetUserByUsername(identifier)
	if err != nil {
		return "", fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		user, err = s.userRepo.GetUserByEmail(identifier)
		if err != nil {
			return "", fmt.Errorf("failed to query user: %w", err)
		}
	}
	if user == nil {
		return "", xerr.ErrUserNotFound
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", xerr.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Email,
		s.cfg.JWT.SecretKey, s.cfg.JWT.Issuer, s.cfg.JWT.ExpiresIn)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in", zap.Uint64("userID", user.ID), zap.String("username", user.Username))
	return token, nil
}
