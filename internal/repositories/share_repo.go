package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"gorm.io/gorm"
)

// 分页参数非法时使用的默认每页条数
const defaultPageSize = 20

// ShareRepository 定义了分享记录的持久化接口
// 生产环境使用 GORM/MySQL 实现，测试与单进程场景使用内存实现
type ShareRepository interface {
	// Create 插入新记录。提取码撞上唯一约束时返回 xerr.ErrAccessCodeConflict
	Create(ctx context.Context, share *models.Share) error
	// FindByAccessCode 按提取码查找，未找到返回 (nil, nil)
	FindByAccessCode(ctx context.Context, code string) (*models.Share, error)
	// FindByID 按ID查找，未找到返回 (nil, nil)
	FindByID(ctx context.Context, id uint64) (*models.Share, error)
	// FindAllByOwnerID 按创建时间倒序返回某用户的分享（分页）
	FindAllByOwnerID(ctx context.Context, ownerID uint64, page, pageSize int) ([]models.Share, int64, error)
	// Update 对 (id, ownerID) 匹配的记录做字段级合并，无匹配返回 xerr.ErrShareNotFound
	Update(ctx context.Context, id, ownerID uint64, fields map[string]any) (*models.Share, error)
	// Delete 删除 (id, ownerID) 匹配的记录，无匹配返回 xerr.ErrShareNotFound
	Delete(ctx context.Context, id, ownerID uint64) error
	// IncrementAccessCount 原子自增访问计数，由存储端保证原子性
	IncrementAccessCount(ctx context.Context, id uint64) error
}

type shareRepository struct {
	db *gorm.DB
}

var _ ShareRepository = (*shareRepository)(nil)

// NewShareRepository 创建新的shareRepository实例
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

// 创建新的数据库记录
func (r *shareRepository) Create(ctx context.Context, share *models.Share) error {
	err := r.db.WithContext(ctx).Create(share).Error
	if err != nil {
		// 依赖表上的唯一约束兜底并发下的提取码冲突
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return xerr.ErrAccessCodeConflict
		}
		return fmt.Errorf("创建分享记录失败: %w", err)
	}
	return nil
}

// 根据提取码查找记录
func (r *shareRepository) FindByAccessCode(ctx context.Context, code string) (*models.Share, error) {
	var share models.Share
	err := r.db.WithContext(ctx).Where("access_code = ?", code).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil if not found
		}
		return nil, fmt.Errorf("查询分享记录失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) FindByID(ctx context.Context, id uint64) (*models.Share, error) {
	var share models.Share
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询分享记录失败: %w", err)
	}
	return &share, nil
}

// 查找特定用户的所有分享记录
func (r *shareRepository) FindAllByOwnerID(ctx context.Context, ownerID uint64, page, pageSize int) ([]models.Share, int64, error) {
	var shares []models.Share
	var total int64

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize
	query := r.db.WithContext(ctx).Model(&models.Share{}).Where("owner_id = ?", ownerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计分享总数失败: %w", err)
	}

	err := query.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&shares).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询分享列表失败: %w", err)
	}
	return shares, total, nil
}

// 字段级合并更新，只有传入的字段会变化
func (r *shareRepository) Update(ctx context.Context, id, ownerID uint64, fields map[string]any) (*models.Share, error) {
	var share models.Share
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrShareNotFound
		}
		return nil, fmt.Errorf("查询分享记录失败: %w", err)
	}

	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&share).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("更新分享记录失败: %w", err)
		}
	}

	// 重新读取，返回合并后的完整记录
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&share).Error; err != nil {
		return nil, fmt.Errorf("读取更新后的分享记录失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) Delete(ctx context.Context, id, ownerID uint64) error {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Share{})
	if result.Error != nil {
		return fmt.Errorf("删除分享记录失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return xerr.ErrShareNotFound
	}
	return nil
}

// 原子自增，避免客户端读改写竞争
func (r *shareRepository) IncrementAccessCount(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Model(&models.Share{}).
		Where("id = ?", id).
		UpdateColumn("access_count", gorm.Expr("access_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("更新分享访问计数失败: %w", err)
	}
	return nil
}
