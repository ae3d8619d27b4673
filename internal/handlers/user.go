package handlers

import (
	"net/http"

	"github.com/3Eeeecho/go-quickshare/internal/pkg/utils"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler 处理用户信息相关的HTTP请求
type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUserProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "查询成功"
// @Failure 401 {object} xerr.Response "未授权"
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		if xerr.Is(err, xerr.ErrUserNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
			return
		}
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to get user profile")
		return
	}

	xerr.Success(c, http.StatusOK, "Profile retrieved successfully", user)
}
