package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
)

// memoryShareRepository 是 ShareRepository 的内存实现
// 用于测试和不依赖 MySQL 的单进程部署，依赖注入时与 GORM 实现互换
type memoryShareRepository struct {
	mu     sync.RWMutex
	nextID uint64
	shares map[uint64]*models.Share
	byCode map[string]uint64
}

var _ ShareRepository = (*memoryShareRepository)(nil)

// NewMemoryShareRepository 创建一个空的内存仓库
func NewMemoryShareRepository() ShareRepository {
	return &memoryShareRepository{
		nextID: 1,
		shares: make(map[uint64]*models.Share),
		byCode: make(map[string]uint64),
	}
}

func (r *memoryShareRepository) Create(ctx context.Context, share *models.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 与数据库唯一约束同语义
	if _, exists := r.byCode[share.AccessCode]; exists {
		return xerr.ErrAccessCodeConflict
	}

	share.ID = r.nextID
	r.nextID++
	now := time.Now()
	if share.CreatedAt.IsZero() {
		share.CreatedAt = now
	}
	share.UpdatedAt = now

	cloned := *share
	r.shares[share.ID] = &cloned
	r.byCode[share.AccessCode] = share.ID
	return nil
}

func (r *memoryShareRepository) FindByAccessCode(ctx context.Context, code string) (*models.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, nil
	}
	cloned := *r.shares[id]
	return &cloned, nil
}

func (r *memoryShareRepository) FindByID(ctx context.Context, id uint64) (*models.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	share, ok := r.shares[id]
	if !ok {
		return nil, nil
	}
	cloned := *share
	return &cloned, nil
}

func (r *memoryShareRepository) FindAllByOwnerID(ctx context.Context, ownerID uint64, page, pageSize int) ([]models.Share, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []models.Share
	for _, share := range r.shares {
		if share.OwnerID == ownerID {
			all = append(all, *share)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	// 非法分页参数按第一页处理，避免负下标
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []models.Share{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memoryShareRepository) Update(ctx context.Context, id, ownerID uint64, fields map[string]any) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	share, ok := r.shares[id]
	if !ok || share.OwnerID != ownerID {
		return nil, xerr.ErrShareNotFound
	}

	for column, value := range fields {
		applyShareField(share, column, value)
	}
	share.UpdatedAt = time.Now()

	cloned := *share
	return &cloned, nil
}

func (r *memoryShareRepository) Delete(ctx context.Context, id, ownerID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	share, ok := r.shares[id]
	if !ok || share.OwnerID != ownerID {
		return xerr.ErrShareNotFound
	}
	delete(r.byCode, share.AccessCode)
	delete(r.shares, id)
	return nil
}

func (r *memoryShareRepository) IncrementAccessCount(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	share, ok := r.shares[id]
	if !ok {
		return xerr.ErrShareNotFound
	}
	share.AccessCount++
	return nil
}

// applyShareField 将数据库列名风格的字段合并到内存记录上
// 与 GORM 实现的 Updates(fields) 保持同一套列名
func applyShareField(share *models.Share, column string, value any) {
	switch column {
	case "name":
		if v, ok := value.(string); ok {
			share.Name = v
		}
	case "title":
		switch v := value.(type) {
		case string:
			share.Title = &v
		case *string:
			share.Title = v
		case nil:
			share.Title = nil
		}
	case "content":
		if v, ok := value.(string); ok {
			share.Content = v
		}
	case "has_password":
		if v, ok := value.(bool); ok {
			share.HasPassword = v
		}
	case "password_digest":
		switch v := value.(type) {
		case string:
			share.PasswordDigest = &v
		case *string:
			share.PasswordDigest = v
		case nil:
			share.PasswordDigest = nil
		}
	case "expires_at":
		switch v := value.(type) {
		case time.Time:
			share.ExpiresAt = &v
		case *time.Time:
			share.ExpiresAt = v
		case nil:
			share.ExpiresAt = nil
		}
	}
}
