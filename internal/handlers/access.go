package handlers

import (
	"net/http"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/services/share"
	"github.com/gin-gonic/gin"
)

// AccessHandler 处理凭提取码访问分享的公开接口，不要求登录
type AccessHandler struct {
	shareService share.ShareService
	cfg          *config.Config
}

func NewAccessHandler(shareService share.ShareService, cfg *config.Config) *AccessHandler {
	return &AccessHandler{shareService: shareService, cfg: cfg}
}

// VerifyPasswordRequest 校验分享密码的请求体
type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// shareDetails 返回不含内容本体的分享元数据
// 密码保护的分享在校验通过前只能看到这些字段
func shareDetails(s *models.Share) gin.H {
	return gin.H{
		"kind":         s.Kind,
		"name":         s.Name,
		"title":        s.DisplayTitle(),
		"has_password": s.HasPassword,
		"mime_type":    s.MimeType,
		"size_bytes":   s.SizeBytes,
		"expires_at":   s.ExpiresAt,
		"created_at":   s.CreatedAt,
	}
}

// GetShareDetails 按提取码查询分享元数据
// @Summary 查询分享信息
// @Description 凭6位提取码查询分享的元数据，不包含内容本体
// @Tags 提取访问
// @Produce json
// @Param code path string true "6位提取码"
// @Success 200 {object} xerr.Response "查询成功"
// @Failure 404 {object} xerr.Response "分享不存在或已过期"
// @Router /api/v1/access/{code} [get]
func (h *AccessHandler) GetShareDetails(c *gin.Context) {
	s, err := h.shareService.GetByAccessCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to look up share")
		return
	}
	if s == nil {
		xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, xerr.ErrShareNotFound.Error())
		return
	}

	xerr.Success(c, http.StatusOK, "Share found", shareDetails(s))
}

// VerifyPassword 校验分享密码
// @Summary 校验分享密码
// @Description 校验密码保护分享的访问密码
// @Tags 提取访问
// @Accept json
// @Produce json
// @Param code path string true "6位提取码"
// @Param data body VerifyPasswordRequest true "密码"
// @Success 200 {object} xerr.Response "密码正确"
// @Failure 403 {object} xerr.Response "密码错误"
// @Failure 404 {object} xerr.Response "分享不存在或已过期"
// @Router /api/v1/access/{code}/verify [post]
func (h *AccessHandler) VerifyPassword(c *gin.Context) {
	var req VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
		return
	}

	s, err := h.shareService.GetByAccessCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to look up share")
		return
	}
	if s == nil {
		xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, xerr.ErrShareNotFound.Error())
		return
	}

	if !h.shareService.VerifyPassword(c.Request.Context(), s, req.Password) {
		xerr.Error(c, http.StatusForbidden, xerr.SharePasswordIncorrectCode, xerr.ErrSharePasswordIncorrect.Error())
		return
	}

	xerr.Success(c, http.StatusOK, "Password verified", gin.H{"verified": true})
}

// GetContent 提取分享内容
// @Summary 提取分享内容
// @Description 返回文本分享的内容，或文件分享的限时下载URL；密码保护的分享需要携带password参数
// @Tags 提取访问
// @Produce json
// @Param code path string true "6位提取码"
// @Param password query string false "访问密码（密码保护的分享必填）"
// @Success 200 {object} xerr.Response "提取成功"
// @Failure 403 {object} xerr.Response "需要密码或密码错误"
// @Failure 404 {object} xerr.Response "分享不存在或已过期"
// @Router /api/v1/access/{code}/content [get]
func (h *AccessHandler) GetContent(c *gin.Context) {
	s, err := h.shareService.GetByAccessCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to look up share")
		return
	}
	if s == nil {
		xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, xerr.ErrShareNotFound.Error())
		return
	}

	if s.HasPassword {
		password, ok := c.GetQuery("password")
		if !ok {
			xerr.Error(c, http.StatusForbidden, xerr.SharePasswordRequiredCode, xerr.ErrSharePasswordRequired.Error())
			return
		}
		if !h.shareService.VerifyPassword(c.Request.Context(), s, password) {
			xerr.Error(c, http.StatusForbidden, xerr.SharePasswordIncorrectCode, xerr.ErrSharePasswordIncorrect.Error())
			return
		}
	}

	switch s.Kind {
	case models.ShareKindText:
		h.shareService.RecordAccess(s)
		xerr.Success(c, http.StatusOK, "Content retrieved", gin.H{
			"kind":    s.Kind,
			"name":    s.Name,
			"title":   s.DisplayTitle(),
			"content": s.Content,
		})
	case models.ShareKindFile:
		url, err := h.shareService.PresignedFileURL(c.Request.Context(), s)
		if err != nil {
			xerr.Error(c, http.StatusInternalServerError, xerr.StorageErrorCode, "Failed to generate download URL")
			return
		}
		h.shareService.RecordAccess(s)
		xerr.Success(c, http.StatusOK, "Content retrieved", gin.H{
			"kind":         s.Kind,
			"name":         s.Name,
			"title":        s.DisplayTitle(),
			"mime_type":    s.MimeType,
			"size_bytes":   s.SizeBytes,
			"download_url": url,
		})
	default:
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Unknown share kind")
	}
}
