package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrCacheMiss = errors.New("缓存未命中,key不存在")

// Cache 缓存通用接口
type Cache interface {
	// Set 在缓存中设置一个值，并指定过期时间。
	// value应该是一个可以被JSON封送的结构体或指向结构体的指针。
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// Get 从缓存中检索一个值，并将其解编组到目标接口。
	// target应该是一个指针，指向希望解编组成的类型。
	Get(ctx context.Context, key string, target any) error

	// Del 删除一个或多个key
	Del(ctx context.Context, keys ...string) error

	// Exists 检查key是否存在
	Exists(ctx context.Context, key string) (bool, error)
}

// GenerateShareCodeKey 提取码查询的缓存键
func GenerateShareCodeKey(accessCode string) string {
	return fmt.Sprintf("share:code:%s", accessCode)
}
