package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/storage"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/utils"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/services/share"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShareHandler 处理分享管理相关的HTTP请求（创建、列表、编辑、删除、导出、搜索）
type ShareHandler struct {
	shareService share.ShareService
	fileStorage  storage.StorageService
	cfg          *config.Config
}

func NewShareHandler(shareService share.ShareService, fileStorage storage.StorageService, cfg *config.Config) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		fileStorage:  fileStorage,
		cfg:          cfg,
	}
}

// CreateTextShareRequest 创建文本分享的请求体
type CreateTextShareRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Title         string  `json:"title" binding:"max=255"`
	Content       string  `json:"content" binding:"required"`
	ExpiresInDays int     `json:"expires_in_days" binding:"required"` // -1 表示永不过期
	Password      *string `json:"password"`                           // 不传表示不设置密码
}

// UpdateShareRequest 编辑分享的请求体，所有字段均可选
type UpdateShareRequest struct {
	Name          *string `json:"name"`
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Password      *string `json:"password"`   // 空字符串表示移除密码
	ExpiresAt     *string `json:"expires_at"` // "never" 或 RFC3339 时间戳
	ExpiresInDays *int    `json:"expires_in_days"`
}

// shareResponse 把分享记录转换成带提取链接的响应体
func (h *ShareHandler) shareResponse(s *models.Share) gin.H {
	return gin.H{
		"share":      s,
		"access_url": fmt.Sprintf("%s/s/%s", strings.TrimRight(h.cfg.Server.PublicBaseURL, "/"), s.AccessCode),
	}
}

// CreateTextShare 创建文本分享
// @Summary 创建文本分享
// @Description 创建一个富文本分享，系统分配6位提取码
// @Tags 分享管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body CreateTextShareRequest true "分享内容"
// @Success 200 {object} xerr.Response "创建成功"
// @Failure 400 {object} xerr.Response "参数错误"
// @Router /api/v1/shares/text [post]
func (h *ShareHandler) CreateTextShare(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	var req CreateTextShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
		return
	}

	s, err := h.shareService.CreateTextShare(c.Request.Context(), userID, share.CreateTextShareInput{
		Name:          req.Name,
		Title:         req.Title,
		Content:       req.Content,
		ExpiresInDays: req.ExpiresInDays,
		Password:      req.Password,
	})
	if err != nil {
		h.handleCreateError(c, err)
		return
	}

	xerr.Success(c, http.StatusOK, "Share created successfully", h.shareResponse(s))
}

// CreateFileShare 上传文件并创建文件分享
// @Summary 创建文件分享
// @Description multipart 上传文件到对象存储并创建分享记录
// @Tags 分享管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "文件"
// @Param title formData string false "标题"
// @Param expires_in_days formData int true "有效天数，-1表示永不过期"
// @Param password formData string false "访问密码"
// @Success 200 {object} xerr.Response "创建成功"
// @Failure 400 {object} xerr.Response "参数错误或文件过大"
// @Router /api/v1/shares/file [post]
func (h *ShareHandler) CreateFileShare(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Missing file in form data")
		return
	}
	if h.cfg.Share.MaxUploadSizeBytes > 0 && fileHeader.Size > h.cfg.Share.MaxUploadSizeBytes {
		xerr.Error(c, http.StatusBadRequest, xerr.FileTooLargeCode,
			fmt.Sprintf("File exceeds maximum allowed size of %d bytes", h.cfg.Share.MaxUploadSizeBytes))
		return
	}

	expiresInDays, err := strconv.Atoi(c.PostForm("expires_in_days"))
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid expires_in_days")
		return
	}

	var password *string
	if p, ok := c.GetPostForm("password"); ok {
		password = &p
	}

	src, err := fileHeader.Open()
	if err != nil {
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to open uploaded file")
		return
	}
	defer src.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	// 以 UUID 命名对象，避免同名文件互相覆盖，原始文件名保存在分享记录中
	objectKey := fmt.Sprintf("%d/%s%s", userID, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	bucket := h.cfg.StorageBucket()

	if _, err := h.fileStorage.PutObject(c.Request.Context(), bucket, objectKey, src, fileHeader.Size, mimeType); err != nil {
		logger.Error("CreateFileShare: 上传对象存储失败",
			zap.Uint64("userID", userID), zap.String("objectKey", objectKey), zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.StorageErrorCode, "Failed to store file")
		return
	}

	s, err := h.shareService.CreateFileShare(c.Request.Context(), userID, share.CreateFileShareInput{
		File: share.FileRef{
			ObjectKey: objectKey,
			PublicURL: h.fileStorage.GetObjectURL(bucket, objectKey),
			FileName:  fileHeader.Filename,
			MimeType:  mimeType,
			SizeBytes: uint64(fileHeader.Size),
		},
		Title:         c.PostForm("title"),
		ExpiresInDays: expiresInDays,
		Password:      password,
	})
	if err != nil {
		// 数据库记录创建失败时回收已上传的对象，避免孤儿文件
		if rmErr := h.fileStorage.RemoveObject(c.Request.Context(), bucket, objectKey); rmErr != nil {
			logger.Warn("CreateFileShare: 清理孤儿对象失败",
				zap.String("objectKey", objectKey), zap.Error(rmErr))
		}
		h.handleCreateError(c, err)
		return
	}

	xerr.Success(c, http.StatusOK, "Share created successfully", h.shareResponse(s))
}

// ListUserShares 列出当前用户的分享
// @Summary 我的分享列表
// @Description 分页列出当前用户创建的全部分享，按创建时间倒序
// @Tags 分享管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页条数，默认20"
// @Success 200 {object} xerr.Response "查询成功"
// @Router /api/v1/shares/my [get]
func (h *ShareHandler) ListUserShares(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	// 非数字或越界的分页参数回落到默认值
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	shares, total, err := h.shareService.ListUserShares(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		xerr.Error(c, http.StatusInternalServerError, xerr.DatabaseErrorCode, "Failed to list shares")
		return
	}

	xerr.Success(c, http.StatusOK, "Shares retrieved successfully", gin.H{
		"shares":    shares,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateShare 编辑分享
// @Summary 编辑分享
// @Description 修改分享的名称、标题、内容、密码或过期时间，仅所有者可操作
// @Tags 分享管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param share_id path int true "分享ID"
// @Param data body UpdateShareRequest true "要修改的字段"
// @Success 200 {object} xerr.Response "修改成功"
// @Failure 404 {object} xerr.Response "分享不存在或无权访问"
// @Router /api/v1/shares/{share_id} [put]
func (h *ShareHandler) UpdateShare(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	shareID, err := strconv.ParseUint(c.Param("share_id"), 10, 64)
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid share ID")
		return
	}

	var req UpdateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
		return
	}

	s, err := h.shareService.UpdateShare(c.Request.Context(), shareID, userID, share.UpdateShareInput{
		Name:          req.Name,
		Title:         req.Title,
		Content:       req.Content,
		Password:      req.Password,
		ExpiresAt:     req.ExpiresAt,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		switch {
		case xerr.Is(err, xerr.ErrShareNotFound):
			xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, err.Error())
		case xerr.Is(err, xerr.ErrInvalidExpiry):
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidExpiryCode, err.Error())
		case xerr.Is(err, xerr.ErrValidationFailed):
			xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, err.Error())
		default:
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to update share")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "Share updated successfully", h.shareResponse(s))
}

// DeleteShare 删除分享
// @Summary 删除分享
// @Description 删除分享记录，文件分享同时尽力清理对象存储，仅所有者可操作
// @Tags 分享管理
// @Produce json
// @Security BearerAuth
// @Param share_id path int true "分享ID"
// @Success 200 {object} xerr.Response "删除成功"
// @Failure 404 {object} xerr.Response "分享不存在或无权访问"
// @Router /api/v1/shares/{share_id} [delete]
func (h *ShareHandler) DeleteShare(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	shareID, err := strconv.ParseUint(c.Param("share_id"), 10, 64)
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid share ID")
		return
	}

	if err := h.shareService.DeleteShare(c.Request.Context(), shareID, userID); err != nil {
		if xerr.Is(err, xerr.ErrShareNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, err.Error())
			return
		}
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to delete share")
		return
	}

	xerr.Success(c, http.StatusOK, "Share deleted successfully", nil)
}

// ExportShares 导出当前用户的全部分享
// @Summary 导出我的分享
// @Description 把当前用户的全部分享（文本转HTML、文件原样）打包成ZIP下载
// @Tags 分享管理
// @Produce application/zip
// @Security BearerAuth
// @Success 200 {file} binary "ZIP压缩包"
// @Router /api/v1/shares/export [get]
func (h *ShareHandler) ExportShares(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	rc, err := h.shareService.ExportUserShares(c.Request.Context(), userID)
	if err != nil {
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to export shares")
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="shares_%d.zip"`, userID))
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// 响应头已经发出，只能记录日志
		logger.Warn("ExportShares: 写出ZIP流失败", zap.Uint64("userID", userID), zap.Error(err))
	}
}

// SearchShares 搜索当前用户的分享
// @Summary 搜索我的分享
// @Description 按名称或标题全文检索当前用户的分享
// @Tags 分享管理
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜索关键词"
// @Success 200 {object} xerr.Response "搜索结果"
// @Router /api/v1/shares/search [get]
func (h *ShareHandler) SearchShares(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Missing query parameter q")
		return
	}

	docs, err := h.shareService.SearchUserShares(c.Request.Context(), userID, query)
	if err != nil {
		if xerr.Is(err, xerr.ErrSearchError) {
			xerr.Error(c, http.StatusInternalServerError, xerr.SearchErrorCode, "Search service unavailable")
			return
		}
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to search shares")
		return
	}

	xerr.Success(c, http.StatusOK, "Search completed", gin.H{"results": docs})
}

// handleCreateError 把创建分享的业务错误映射成HTTP响应
func (h *ShareHandler) handleCreateError(c *gin.Context, err error) {
	switch {
	case xerr.Is(err, xerr.ErrEmptyContent):
		xerr.Error(c, http.StatusBadRequest, xerr.EmptyContentCode, err.Error())
	case xerr.Is(err, xerr.ErrValidationFailed):
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, err.Error())
	case xerr.Is(err, xerr.ErrEmptyPassword):
		xerr.Error(c, http.StatusBadRequest, xerr.EmptyPasswordCode, err.Error())
	case xerr.Is(err, xerr.ErrInvalidExpiry):
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidExpiryCode, err.Error())
	case xerr.Is(err, xerr.ErrAccessCodeConflict):
		xerr.Error(c, http.StatusInternalServerError, xerr.AccessCodeConflictCode, "Failed to allocate access code, please retry")
	default:
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to create share")
	}
}
