package services

import (
	"fmt"

	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/repositories"
)

type UserService interface {
	GetUserByID(id uint64) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

var _ UserService = (*userService)(nil)

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserByID(id uint64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, xerr.ErrUserNotFound
	}
	return user, nil
}
