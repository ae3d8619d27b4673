package share

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/cache"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/storage"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/utils"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/repositories"
	"go.uber.org/zap"
)

// 提取码分配的最大尝试次数，探测+插入都算一次
// 探测只是尽力而为，真正的兜底是表上的唯一约束
const maxCodeAttempts = 5

// NeverExpires 是"永不过期"的请求参数哨兵值
const NeverExpires = -1

// FileRef 描述一个已经在对象存储中落盘的文件
// 上传由外部协作方（上传处理器）完成，服务只接收引用
type FileRef struct {
	ObjectKey string
	PublicURL string
	FileName  string
	MimeType  string
	SizeBytes uint64
}

// CreateTextShareInput 创建文本分享的参数
type CreateTextShareInput struct {
	Name          string
	Title         string
	Content       string
	ExpiresInDays int     // NeverExpires 表示永不过期
	Password      *string // nil 表示不设置密码
}

// CreateFileShareInput 创建文件分享的参数
type CreateFileShareInput struct {
	File          FileRef
	Title         string
	ExpiresInDays int
	Password      *string
}

// UpdateShareInput 是编辑分享的归一化入口
// 外部可能传来形态不一的部分字段（expiry 与 expires_at 等），
// 统一在 normalizeUpdate 中映射成数据库列，业务逻辑不再分支判断
type UpdateShareInput struct {
	Name    *string
	Title   *string
	Content *string
	// 新的明文密码；空字符串表示移除密码
	Password *string
	// "never" 或 RFC3339 时间戳
	ExpiresAt *string
	// 与 ExpiresAt 二选一，优先使用 ExpiresAt
	ExpiresInDays *int
}

// ShareService 定义了分享生命周期服务的接口
type ShareService interface {
	// CreateTextShare 创建一个文本分享并分配提取码
	CreateTextShare(ctx context.Context, ownerID uint64, in CreateTextShareInput) (*models.Share, error)
	// CreateFileShare 为已上传的文件创建分享记录
	CreateFileShare(ctx context.Context, ownerID uint64, in CreateFileShareInput) (*models.Share, error)
	// GetByAccessCode 按提取码查找分享；未知提取码与已过期记录都返回 (nil, nil)
	GetByAccessCode(ctx context.Context, code string) (*models.Share, error)
	// VerifyPassword 校验分享密码，未设密码的分享恒为 true
	VerifyPassword(ctx context.Context, share *models.Share, candidate string) bool
	// ListUserShares 列出指定用户创建的所有分享（分页，创建时间倒序）
	ListUserShares(ctx context.Context, ownerID uint64, page, pageSize int) ([]models.Share, int64, error)
	// UpdateShare 由所有者编辑分享
	UpdateShare(ctx context.Context, id, ownerID uint64, in UpdateShareInput) (*models.Share, error)
	// DeleteShare 由所有者删除分享，文件载荷尽力清理
	DeleteShare(ctx context.Context, id, ownerID uint64) error
	// RecordAccess 记录一次成功提取，不阻塞也不失败
	RecordAccess(share *models.Share)
	// IsExpired 判断分享是否已过期
	IsExpired(share *models.Share) bool
	// PresignedFileURL 为文件分享生成限时下载URL
	PresignedFileURL(ctx context.Context, share *models.Share) (string, error)
	// ExportUserShares 将用户的全部分享打包成ZIP流
	ExportUserShares(ctx context.Context, ownerID uint64) (io.ReadCloser, error)
	// SearchUserShares 按名称/标题搜索用户自己的分享
	SearchUserShares(ctx context.Context, ownerID uint64, query string) ([]ShareDoc, error)
}

// shareService 是 ShareService 接口的具体实现
type shareService struct {
	shareRepo   repositories.ShareRepository // 分享数据仓库
	fileStorage storage.StorageService       // 对象存储，文件载荷的清理和导出用
	cacheSvc    cache.Cache                  // 提取码查询缓存，可为 nil
	indexer     ShareIndexer                 // 搜索索引，可为 nil
	cfg         *config.Config

	// 测试注入点
	now     func() time.Time
	genCode func() string
}

var _ ShareService = (*shareService)(nil)

// NewShareService 创建一个新的 ShareService 实例
// cacheSvc 和 indexer 都允许为 nil，对应功能自动退化
func NewShareService(shareRepo repositories.ShareRepository, fileStorage storage.StorageService, cacheSvc cache.Cache, indexer ShareIndexer, cfg *config.Config) ShareService {
	return &shareService{
		shareRepo:   shareRepo,
		fileStorage: fileStorage,
		cacheSvc:    cacheSvc,
		indexer:     indexer,
		cfg:         cfg,
		now:         time.Now,
		genCode:     utils.GenerateAccessCode,
	}
}

// CreateTextShare 处理创建文本分享的业务逻辑
func (s *shareService) CreateTextShare(ctx context.Context, ownerID uint64, in CreateTextShareInput) (*models.Share, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, xerr.ErrEmptyContent
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, xerr.ErrValidationFailed
	}

	share := &models.Share{
		OwnerID: ownerID,
		Kind:    models.ShareKindText,
		Name:    in.Name,
		Content: in.Content,
	}
	if in.Title != "" {
		share.Title = &in.Title
	} else {
		// 原型行为：文本分享的标题默认取名称
		share.Title = &in.Name
	}

	if err := s.applyExpiry(share, in.ExpiresInDays); err != nil {
		return nil, err
	}
	if err := s.applyPassword(share, in.Password); err != nil {
		return nil, err
	}
	if err := s.allocateCodeAndInsert(ctx, share); err != nil {
		return nil, err
	}

	logger.Info("CreateTextShare: 文本分享创建成功",
		zap.Uint64("shareID", share.ID),
		zap.String("accessCode", share.AccessCode),
		zap.Uint64("ownerID", ownerID))
	s.indexAsync(share)
	return share, nil
}

// CreateFileShare 为已落盘的文件创建分享记录
// 调用时文件必须已经在对象存储中，元数据只引用既有的 blob，
// 插入失败留下的孤儿对象交给离线清理，不在这里回收
func (s *shareService) CreateFileShare(ctx context.Context, ownerID uint64, in CreateFileShareInput) (*models.Share, error) {
	if in.File.ObjectKey == "" || in.File.PublicURL == "" {
		return nil, xerr.ErrEmptyContent
	}
	if strings.TrimSpace(in.File.FileName) == "" {
		return nil, xerr.ErrValidationFailed
	}

	objectKey := in.File.ObjectKey
	mimeType := in.File.MimeType
	sizeBytes := in.File.SizeBytes
	share := &models.Share{
		OwnerID:   ownerID,
		Kind:      models.ShareKindFile,
		Name:      in.File.FileName,
		Content:   in.File.PublicURL,
		FilePath:  &objectKey,
		MimeType:  &mimeType,
		SizeBytes: &sizeBytes,
	}
	if in.Title != "" {
		share.Title = &in.Title
	} else {
		share.Title = &share.Name
	}

	if err := s.applyExpiry(share, in.ExpiresInDays); err != nil {
		return nil, err
	}
	if err := s.applyPassword(share, in.Password); err != nil {
		return nil, err
	}
	if err := s.allocateCodeAndInsert(ctx, share); err != nil {
		return nil, err
	}

	logger.Info("CreateFileShare: 文件分享创建成功",
		zap.Uint64("shareID", share.ID),
		zap.String("accessCode", share.AccessCode),
		zap.String("objectKey", objectKey),
		zap.Uint64("ownerID", ownerID))
	s.indexAsync(share)
	return share, nil
}

// applyExpiry 将相对天数换算成绝对过期时间，-1 表示永不过期
func (s *shareService) applyExpiry(share *models.Share, days int) error {
	switch {
	case days == NeverExpires:
		share.ExpiresAt = nil
	case days > 0:
		expiresAt := s.now().AddDate(0, 0, days)
		share.ExpiresAt = &expiresAt
	default:
		return xerr.ErrInvalidExpiry
	}
	return nil
}

// applyPassword 计算并落盘密码摘要
func (s *shareService) applyPassword(share *models.Share, password *string) error {
	if password == nil {
		return nil
	}
	if *password == "" {
		return xerr.ErrEmptyPassword
	}
	digest := utils.DigestPassword(*password)
	share.HasPassword = true
	share.PasswordDigest = &digest
	return nil
}

// allocateCodeAndInsert 分配唯一提取码并插入记录
// 探测-插入不是原子的，并发下两个调用方可能同时通过探测；
// 表上的唯一约束把这种竞争转成 ErrAccessCodeConflict，这里有限重试
func (s *shareService) allocateCodeAndInsert(ctx context.Context, share *models.Share) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.genCode()

		existing, err := s.shareRepo.FindByAccessCode(ctx, code)
		if err != nil {
			return fmt.Errorf("探测提取码唯一性失败: %w", err)
		}
		if existing != nil {
			// 撞码（对所有记录判重，含已过期的），换一个再试
			continue
		}

		share.AccessCode = code
		err = s.shareRepo.Create(ctx, share)
		if err == nil {
			return nil
		}
		if xerr.Is(err, xerr.ErrAccessCodeConflict) {
			logger.Warn("allocateCodeAndInsert: 插入时提取码冲突，重试",
				zap.String("accessCode", code), zap.Int("attempt", attempt+1))
			continue
		}
		return err
	}
	return xerr.ErrAccessCodeConflict
}

// GetByAccessCode 按提取码查找分享
// 未知提取码和已过期的记录都返回 (nil, nil)：
// 调用方有意无法区分"从未存在"和"已过期"，避免枚举探测
func (s *shareService) GetByAccessCode(ctx context.Context, code string) (*models.Share, error) {
	if !utils.IsValidAccessCode(code) {
		return nil, nil
	}

	share, err := s.lookupByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if share == nil || s.IsExpired(share) {
		return nil, nil
	}
	return share, nil
}

// cachedShare 是提取码缓存里的存储形态
/// models.Share 的 PasswordDigest 标记了 json:"-"，直接缓存模型会丢摘要、
// 破坏 hasPassword ⇔ 摘要存在 的约束，所以缓存条目单独携带摘要
type cachedShare struct {
	Share          models.Share `json:"share"`
	PasswordDigest *string      `json:"password_digest"`
}

// lookupByCode 读取分享记录，优先走缓存
// 缓存只存原始记录，过期判定始终在读取后按当前时间计算
func (s *shareService) lookupByCode(ctx context.Context, code string) (*models.Share, error) {
	if s.cacheSvc != nil {
		var cached cachedShare
		err := s.cacheSvc.Get(ctx, cache.GenerateShareCodeKey(code), &cached)
		if err == nil {
			cached.Share.PasswordDigest = cached.PasswordDigest
			return &cached.Share, nil
		}
		if err != cache.ErrCacheMiss {
			logger.Warn("lookupByCode: 读取缓存失败,回退数据库", zap.String("accessCode", code), zap.Error(err))
		}
	}

	share, err := s.shareRepo.FindByAccessCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("查询分享失败: %w", err)
	}
	if share != nil && s.cacheSvc != nil {
		ttl := time.Duration(s.cfg.Share.CacheTTLSeconds) * time.Second
		entry := cachedShare{Share: *share, PasswordDigest: share.PasswordDigest}
		if err := s.cacheSvc.Set(ctx, cache.GenerateShareCodeKey(share.AccessCode), entry, ttl); err != nil {
			logger.Warn("lookupByCode: 写入缓存失败", zap.String("accessCode", code), zap.Error(err))
		}
	}
	return share, nil
}

// VerifyPassword 校验分享密码
// 未设密码恒为 true；开启迁移开关时兼容历史明文记录，
// 明文命中后立刻用摘要回写，逐步完成迁移
func (s *shareService) VerifyPassword(ctx context.Context, share *models.Share, candidate string) bool {
	if !share.HasPassword {
		return true
	}
	if share.PasswordDigest == nil || *share.PasswordDigest == "" {
		// 数据不满足 hasPassword ⇔ digest 存在的约束，拒绝放行并告警
		logger.Warn("VerifyPassword: 分享标记有密码但缺少摘要,拒绝访问", zap.Uint64("shareID", share.ID))
		return false
	}

	ok, legacy := utils.VerifyPasswordDigest(candidate, *share.PasswordDigest, s.cfg.Share.LegacyPlaintextPassword)
	if ok && legacy {
		s.rehashLegacyPassword(share, candidate)
	}
	return ok
}

// rehashLegacyPassword 把命中明文分支的记录回写为摘要，尽力而为
func (s *shareService) rehashLegacyPassword(share *models.Share, plaintext string) {
	digest := utils.DigestPassword(plaintext)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := s.shareRepo.Update(ctx, share.ID, share.OwnerID, map[string]any{
			"password_digest": digest,
		})
		if err != nil {
			logger.Error("rehashLegacyPassword: 迁移明文密码失败",
				zap.Uint64("shareID", share.ID), zap.Error(err))
			return
		}
		s.invalidateCache(ctx, share.AccessCode)
		logger.Info("rehashLegacyPassword: 明文密码已迁移为摘要", zap.Uint64("shareID", share.ID))
	}()
}

// ListUserShares 获取指定用户创建的所有分享列表（分页）
func (s *shareService) ListUserShares(ctx context.Context, ownerID uint64, page, pageSize int) ([]models.Share, int64, error) {
	shares, total, err := s.shareRepo.FindAllByOwnerID(ctx, ownerID, page, pageSize)
	if err != nil {
		logger.Error("ListUserShares: 查询用户分享列表失败", zap.Uint64("ownerID", ownerID), zap.Error(err))
		return nil, 0, fmt.Errorf("查询分享列表失败: %w", err)
	}
	return shares, total, nil
}

// UpdateShare 由所有者编辑分享，只有提供的字段会变化
func (s *shareService) UpdateShare(ctx context.Context, id, ownerID uint64, in UpdateShareInput) (*models.Share, error) {
	fields, err := s.normalizeUpdate(in)
	if err != nil {
		return nil, err
	}

	updated, err := s.shareRepo.Update(ctx, id, ownerID, fields)
	if err != nil {
		if xerr.Is(err, xerr.ErrShareNotFound) {
			return nil, xerr.ErrShareNotFound
		}
		logger.Error("UpdateShare: 更新分享失败", zap.Uint64("shareID", id), zap.Error(err))
		return nil, fmt.Errorf("更新分享失败: %w", err)
	}

	s.invalidateCache(ctx, updated.AccessCode)
	s.indexAsync(updated)
	logger.Info("UpdateShare: 分享更新成功", zap.Uint64("shareID", id), zap.Uint64("ownerID", ownerID))
	return updated, nil
}

// normalizeUpdate 把形态不一的编辑载荷归一化成数据库列
// 所有字段形态的判断都集中在这一处，深层业务逻辑不再关心
func (s *shareService) normalizeUpdate(in UpdateShareInput) (map[string]any, error) {
	fields := make(map[string]any)

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, xerr.ErrValidationFailed
		}
		fields["name"] = *in.Name
	}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, xerr.ErrEmptyContent
		}
		fields["content"] = *in.Content
	}
	if in.Password != nil {
		if *in.Password == "" {
			// 空密码表示移除密码保护
			fields["has_password"] = false
			fields["password_digest"] = nil
		} else {
			fields["has_password"] = true
			fields["password_digest"] = utils.DigestPassword(*in.Password)
		}
	}

	switch {
	case in.ExpiresAt != nil:
		if *in.ExpiresAt == "never" {
			fields["expires_at"] = nil
		} else {
			t, err := time.Parse(time.RFC3339, *in.ExpiresAt)
			if err != nil {
				return nil, xerr.ErrInvalidExpiry
			}
			fields["expires_at"] = t
		}
	case in.ExpiresInDays != nil:
		switch {
		case *in.ExpiresInDays == NeverExpires:
			fields["expires_at"] = nil
		case *in.ExpiresInDays > 0:
			fields["expires_at"] = s.now().AddDate(0, 0, *in.ExpiresInDays)
		default:
			return nil, xerr.ErrInvalidExpiry
		}
	}

	return fields, nil
}

// DeleteShare 由所有者删除分享
// 元数据删除是权威操作；对象存储里的文件载荷尽力清理，
// 清理失败只记日志，不影响删除结果
func (s *shareService) DeleteShare(ctx context.Context, id, ownerID uint64) error {
	share, err := s.shareRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("查询分享失败: %w", err)
	}
	// 不存在和无权操作对外都表现为"不存在"
	if share == nil || share.OwnerID != ownerID {
		return xerr.ErrShareNotFound
	}

	if err := s.shareRepo.Delete(ctx, id, ownerID); err != nil {
		if xerr.Is(err, xerr.ErrShareNotFound) {
			return xerr.ErrShareNotFound
		}
		logger.Error("DeleteShare: 删除分享记录失败", zap.Uint64("shareID", id), zap.Error(err))
		return fmt.Errorf("删除分享失败: %w", err)
	}

	if share.Kind == models.ShareKindFile && share.FilePath != nil && s.fileStorage != nil {
		bucket := s.bucketName()
		if err := s.fileStorage.RemoveObject(ctx, bucket, *share.FilePath); err != nil {
			logger.Error("DeleteShare: 清理文件载荷失败",
				zap.Uint64("shareID", id), zap.String("objectKey", *share.FilePath), zap.Error(err))
		}
	}

	s.invalidateCache(ctx, share.AccessCode)
	s.removeIndexAsync(share.ID)
	logger.Info("DeleteShare: 分享删除成功", zap.Uint64("shareID", id), zap.Uint64("ownerID", ownerID))
	return nil
}

// RecordAccess 记录一次成功提取
// 计数是非关键操作：异步执行，出错只记日志，绝不阻塞提取流程
func (s *shareService) RecordAccess(share *models.Share) {
	shareID := share.ID
	accessCode := share.AccessCode
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.shareRepo.IncrementAccessCount(ctx, shareID); err != nil {
			logger.Error("RecordAccess: 更新访问计数失败", zap.Uint64("shareID", shareID), zap.Error(err))
			return
		}
		s.invalidateCache(ctx, accessCode)
	}()
}

// IsExpired 判断分享是否已过期，永不过期的分享恒为 false
func (s *shareService) IsExpired(share *models.Share) bool {
	if share.ExpiresAt == nil {
		return false
	}
	return s.now().After(*share.ExpiresAt)
}

// PresignedFileURL 为文件分享生成限时下载URL
func (s *shareService) PresignedFileURL(ctx context.Context, share *models.Share) (string, error) {
	payload := share.File()
	if payload == nil || payload.ObjectKey == "" {
		return "", xerr.ErrShareNotFound
	}
	expiry := time.Duration(s.cfg.Storage.PresignedURLExpiry) * time.Minute
	url, err := s.fileStorage.PresignGetObjectURL(ctx, s.bucketName(), payload.ObjectKey, expiry)
	if err != nil {
		logger.Error("PresignedFileURL: 生成预签名URL失败",
			zap.Uint64("shareID", share.ID), zap.Error(err))
		return "", fmt.Errorf("获取文件下载链接失败: %w", err)
	}
	return url, nil
}

func (s *shareService) bucketName() string {
	return s.cfg.StorageBucket()
}

func (s *shareService) invalidateCache(ctx context.Context, accessCode string) {
	if s.cacheSvc == nil || accessCode == "" {
		return
	}
	if err := s.cacheSvc.Del(ctx, cache.GenerateShareCodeKey(accessCode)); err != nil {
		logger.Warn("invalidateCache: 删除缓存失败", zap.String("accessCode", accessCode), zap.Error(err))
	}
}
