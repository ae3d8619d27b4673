package share

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/cache"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/storage"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/utils"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage 是测试用的内存对象存储
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

var _ storage.StorageService = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) (storage.PutObjectResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return storage.PutObjectResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = data
	return storage.PutObjectResult{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeStorage) GetObject(ctx context.Context, bucketName, objectName string) (storage.GetObjectResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectName]
	if !ok {
		return storage.GetObjectResult{}, fmt.Errorf("object %s not found", objectName)
	}
	return storage.GetObjectResult{
		Reader: io.NopCloser(bytes.NewReader(data)),
		Size:   int64(len(data)),
	}, nil
}

func (f *fakeStorage) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectName)
	f.removed = append(f.removed, objectName)
	return nil
}

func (f *fakeStorage) IsBucketExist(ctx context.Context, bucketName string) (bool, error) { return true, nil }
func (f *fakeStorage) MakeBucket(ctx context.Context, bucketName string) error           { return nil }
func (f *fakeStorage) GetObjectURL(bucketName, objectName string) string {
	return fmt.Sprintf("http://fake/%s/%s", bucketName, objectName)
}
func (f *fakeStorage) PresignGetObjectURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("http://fake/%s/%s?presigned=1", bucketName, objectName), nil
}

// jsonCache 是测试用的内存缓存，Set/Get 走一轮 JSON 序列化，
// 行为与 RedisCache 对齐
type jsonCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

var _ cache.Cache = (*jsonCache)(nil)

func newJSONCache() *jsonCache {
	return &jsonCache{items: make(map[string][]byte)}
}

func (c *jsonCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *jsonCache) Get(ctx context.Context, key string, target any) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, target)
}

func (c *jsonCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *jsonCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Type = "minio"
	cfg.Storage.PresignedURLExpiry = 15
	cfg.MinIO.BucketName = "quickshare"
	cfg.Share.CacheTTLSeconds = 60
	return cfg
}

// newTestService 构建一个基于内存仓库和假存储的服务实例
func newTestService(t *testing.T) (*shareService, *fakeStorage) {
	t.Helper()
	fs := newFakeStorage()
	svc := NewShareService(repositories.NewMemoryShareRepository(), fs, nil, nil, testConfig()).(*shareService)
	return svc, fs
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateTextShare_ExpiryDays(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, days := range []int{1, 3, 7, 14, 30} {
		svc, _ := newTestService(t)
		svc.now = func() time.Time { return base }

		s, err := svc.CreateTextShare(context.Background(), 1, CreateTextShareInput{
			Name:          "note",
			Content:       "<p>hello</p>",
			ExpiresInDays: days,
		})
		require.NoError(t, err)
		require.NotNil(t, s.ExpiresAt)
		assert.Equal(t, base.AddDate(0, 0, days), *s.ExpiresAt, "days=%d", days)
	}
}

func TestCreateTextShare_NeverExpires(t *testing.T) {
	svc, _ := newTestService(t)

	s, err := svc.CreateTextShare(context.Background(), 1, CreateTextShareInput{
		Name:          "note",
		Content:       "<p>hello</p>",
		ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)
	assert.Nil(t, s.ExpiresAt)
	assert.False(t, svc.IsExpired(s))
}

func TestCreateTextShare_InvalidExpiry(t *testing.T) {
	svc, _ := newTestService(t)

	for _, days := range []int{0, -2, -100} {
		_, err := svc.CreateTextShare(context.Background(), 1, CreateTextShareInput{
			Name:          "note",
			Content:       "x",
			ExpiresInDays: days,
		})
		assert.ErrorIs(t, err, xerr.ErrInvalidExpiry, "days=%d", days)
	}
}

func TestCreateTextShare_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{Name: "note", Content: "   ", ExpiresInDays: 1})
	assert.ErrorIs(t, err, xerr.ErrEmptyContent)

	_, err = svc.CreateTextShare(ctx, 1, CreateTextShareInput{Name: "  ", Content: "x", ExpiresInDays: 1})
	assert.ErrorIs(t, err, xerr.ErrValidationFailed)

	_, err = svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "note", Content: "x", ExpiresInDays: 1, Password: strPtr(""),
	})
	assert.ErrorIs(t, err, xerr.ErrEmptyPassword)
}

func TestCreateTextShare_AccessCodeFormat(t *testing.T) {
	svc, _ := newTestService(t)

	s, err := svc.CreateTextShare(context.Background(), 1, CreateTextShareInput{
		Name: "note", Content: "x", ExpiresInDays: 7,
	})
	require.NoError(t, err)
	assert.True(t, utils.IsValidAccessCode(s.AccessCode), "code=%s", s.AccessCode)
}

func TestCreateTextShare_CodesUnique(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
			Name: fmt.Sprintf("note-%d", i), Content: "x", ExpiresInDays: NeverExpires,
		})
		require.NoError(t, err)
		assert.False(t, seen[s.AccessCode], "duplicate code %s", s.AccessCode)
		seen[s.AccessCode] = true
	}
}

func TestAllocateCode_RetriesOnCollision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// 先占用一个提取码
	svc.genCode = func() string { return "111111" }
	_, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{Name: "a", Content: "x", ExpiresInDays: NeverExpires})
	require.NoError(t, err)

	// 前两次撞码，第三次换新值
	codes := []string{"111111", "111111", "222222"}
	calls := 0
	svc.genCode = func() string {
		code := codes[calls]
		calls++
		return code
	}
	s, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{Name: "b", Content: "x", ExpiresInDays: NeverExpires})
	require.NoError(t, err)
	assert.Equal(t, "222222", s.AccessCode)
	assert.Equal(t, 3, calls)
}

func TestAllocateCode_ExhaustsRetries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.genCode = func() string { return "333333" }
	_, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{Name: "a", Content: "x", ExpiresInDays: NeverExpires})
	require.NoError(t, err)

	// 生成器卡死在已占用的值上，重试耗尽后报冲突
	_, err = svc.CreateTextShare(ctx, 1, CreateTextShareInput{Name: "b", Content: "x", ExpiresInDays: NeverExpires})
	assert.ErrorIs(t, err, xerr.ErrAccessCodeConflict)
}

func TestGetByAccessCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	created, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "note", Content: "<p>hi</p>", ExpiresInDays: 1,
	})
	require.NoError(t, err)

	// 命中
	got, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	// 未知提取码
	got, err = svc.GetByAccessCode(ctx, "000000")
	require.NoError(t, err)
	assert.Nil(t, got)

	// 非法格式直接判无
	for _, code := range []string{"", "12345", "1234567", "abcdef", "12 456"} {
		got, err = svc.GetByAccessCode(ctx, code)
		require.NoError(t, err)
		assert.Nil(t, got, "code=%q", code)
	}

	// 时钟前进两天后过期，表现与不存在一致
	svc.now = func() time.Time { return base.AddDate(0, 0, 2) }
	got, err = svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVerifyPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	protected, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "secret", Content: "x", ExpiresInDays: NeverExpires, Password: strPtr("s3cret"),
	})
	require.NoError(t, err)
	require.True(t, protected.HasPassword)
	require.NotNil(t, protected.PasswordDigest)

	assert.True(t, svc.VerifyPassword(ctx, protected, "s3cret"))
	assert.False(t, svc.VerifyPassword(ctx, protected, "wrong"))
	assert.False(t, svc.VerifyPassword(ctx, protected, ""))

	// 未设密码的分享任何候选值都通过
	open, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "open", Content: "x", ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)
	assert.True(t, svc.VerifyPassword(ctx, open, ""))
	assert.True(t, svc.VerifyPassword(ctx, open, "anything"))
}

func TestVerifyPassword_CacheHitKeepsDigest(t *testing.T) {
	jc := newJSONCache()
	svc := NewShareService(repositories.NewMemoryShareRepository(), newFakeStorage(), jc, nil, testConfig()).(*shareService)
	ctx := context.Background()

	created, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "secret", Content: "x", ExpiresInDays: NeverExpires, Password: strPtr("s3cret"),
	})
	require.NoError(t, err)

	// 首次查询落库并写缓存
	first, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, first.PasswordDigest)
	exists, err := jc.Exists(ctx, cache.GenerateShareCodeKey(created.AccessCode))
	require.NoError(t, err)
	require.True(t, exists)

	// 第二次命中缓存：摘要必须原样带回，密码校验不受影响
	second, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	require.NotNil(t, second)
	require.NotNil(t, second.PasswordDigest)
	assert.Equal(t, *first.PasswordDigest, *second.PasswordDigest)

	assert.False(t, svc.VerifyPassword(ctx, second, "wrong"))
	assert.False(t, svc.VerifyPassword(ctx, second, ""))
	assert.True(t, svc.VerifyPassword(ctx, second, "s3cret"))
}

func TestVerifyPassword_MissingDigestRejects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "broken", Content: "x", ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	// 记录声称有密码却缺少摘要，任何候选值都不放行
	created.HasPassword = true
	created.PasswordDigest = nil
	assert.False(t, svc.VerifyPassword(ctx, created, ""))
	assert.False(t, svc.VerifyPassword(ctx, created, "anything"))

	empty := ""
	created.PasswordDigest = &empty
	assert.False(t, svc.VerifyPassword(ctx, created, "anything"))
}

func TestVerifyPassword_LegacyPlaintextMigration(t *testing.T) {
	svc, _ := newTestService(t)
	svc.cfg.Share.LegacyPlaintextPassword = true
	ctx := context.Background()

	created, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "legacy", Content: "x", ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	// 模拟迁移前的历史记录：摘要列里存的是明文
	_, err = svc.shareRepo.Update(ctx, created.ID, 1, map[string]any{
		"has_password":    true,
		"password_digest": "plain-pass",
	})
	require.NoError(t, err)
	created, err = svc.shareRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	// 明文命中放行，并异步回写摘要
	assert.True(t, svc.VerifyPassword(ctx, created, "plain-pass"))
	expected := utils.DigestPassword("plain-pass")
	assert.Eventually(t, func() bool {
		s, err := svc.shareRepo.FindByID(ctx, created.ID)
		return err == nil && s != nil && s.PasswordDigest != nil && *s.PasswordDigest == expected
	}, 2*time.Second, 10*time.Millisecond)

	// 开关关闭后明文不再放行
	svc.cfg.Share.LegacyPlaintextPassword = false
	stale := *created
	assert.False(t, svc.VerifyPassword(ctx, &stale, "plain-pass"))
}

func TestUpdateShare(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	created, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "note", Content: "old", ExpiresInDays: 7, Password: strPtr("pw"),
	})
	require.NoError(t, err)

	// 改名和内容
	updated, err := svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{
		Name:    strPtr("renamed"),
		Content: strPtr("new body"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "new body", updated.Content)
	assert.True(t, updated.HasPassword, "untouched fields keep their values")

	// 空密码移除保护
	updated, err = svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{Password: strPtr("")})
	require.NoError(t, err)
	assert.False(t, updated.HasPassword)
	assert.Nil(t, updated.PasswordDigest)

	// "never" 清除过期时间
	updated, err = svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{ExpiresAt: strPtr("never")})
	require.NoError(t, err)
	assert.Nil(t, updated.ExpiresAt)

	// RFC3339 时间戳
	updated, err = svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{
		ExpiresAt: strPtr("2030-01-02T15:04:05Z"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ExpiresAt)
	assert.Equal(t, 2030, updated.ExpiresAt.Year())

	// 相对天数
	updated, err = svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{ExpiresInDays: intPtr(3)})
	require.NoError(t, err)
	require.NotNil(t, updated.ExpiresAt)
	assert.Equal(t, base.AddDate(0, 0, 3), *updated.ExpiresAt)

	// 非法值
	_, err = svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{ExpiresAt: strPtr("not-a-time")})
	assert.ErrorIs(t, err, xerr.ErrInvalidExpiry)
	_, err = svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{Name: strPtr("  ")})
	assert.ErrorIs(t, err, xerr.ErrValidationFailed)

	// 非所有者表现为不存在
	_, err = svc.UpdateShare(ctx, created.ID, 99, UpdateShareInput{Name: strPtr("hijack")})
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
}

func TestDeleteShare(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateFileShare(ctx, 1, CreateFileShareInput{
		File: FileRef{
			ObjectKey: "1/report.pdf",
			PublicURL: "http://fake/quickshare/1/report.pdf",
			FileName:  "report.pdf",
			MimeType:  "application/pdf",
			SizeBytes: 1024,
		},
		ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	// 非所有者删除失败，记录保留
	err = svc.DeleteShare(ctx, created.ID, 99)
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
	still, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	assert.NotNil(t, still)

	// 所有者删除成功，文件载荷被清理
	err = svc.DeleteShare(ctx, created.ID, 1)
	require.NoError(t, err)
	gone, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Contains(t, fs.removed, "1/report.pdf")

	// 重复删除
	err = svc.DeleteShare(ctx, created.ID, 1)
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
}

func TestRecordAccess_Concurrent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "hot", Content: "x", ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RecordAccess(created)
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		s, err := svc.shareRepo.FindByID(ctx, created.ID)
		return err == nil && s != nil && s.AccessCount == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCreateFileShare_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFileShare(ctx, 1, CreateFileShareInput{
		File:          FileRef{FileName: "a.txt"},
		ExpiresInDays: NeverExpires,
	})
	assert.ErrorIs(t, err, xerr.ErrEmptyContent)

	_, err = svc.CreateFileShare(ctx, 1, CreateFileShareInput{
		File:          FileRef{ObjectKey: "k", PublicURL: "u", FileName: "  "},
		ExpiresInDays: NeverExpires,
	})
	assert.ErrorIs(t, err, xerr.ErrValidationFailed)
}

func TestPresignedFileURL(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	file, err := svc.CreateFileShare(ctx, 1, CreateFileShareInput{
		File: FileRef{
			ObjectKey: "1/pic.png",
			PublicURL: "http://fake/quickshare/1/pic.png",
			FileName:  "pic.png",
			MimeType:  "image/png",
			SizeBytes: 10,
		},
		ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	url, err := svc.PresignedFileURL(ctx, file)
	require.NoError(t, err)
	assert.Contains(t, url, "presigned=1")

	// 文本分享没有文件载荷
	text, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "t", Content: "x", ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)
	_, err = svc.PresignedFileURL(ctx, text)
	assert.Error(t, err)
}

func TestExportUserShares(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "memo", Content: "<p>body</p>", ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	fileContent := []byte("pdf-bytes")
	_, err = fs.PutObject(ctx, "quickshare", "1/doc.pdf", bytes.NewReader(fileContent), int64(len(fileContent)), "application/pdf")
	require.NoError(t, err)
	_, err = svc.CreateFileShare(ctx, 1, CreateFileShareInput{
		File: FileRef{
			ObjectKey: "1/doc.pdf",
			PublicURL: "http://fake/quickshare/1/doc.pdf",
			FileName:  "doc.pdf",
			MimeType:  "application/pdf",
			SizeBytes: uint64(len(fileContent)),
		},
		ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	// 其他用户的分享不应混进来
	_, err = svc.CreateTextShare(ctx, 2, CreateTextShareInput{
		Name: "other", Content: "x", ExpiresInDays: NeverExpires,
	})
	require.NoError(t, err)

	rc, err := svc.ExportUserShares(ctx, 1)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.Len(t, names, 3)
	assert.Contains(t, names, "manifest.json")

	var sawText, sawFile bool
	for _, f := range reader.File {
		switch {
		case strings.HasPrefix(f.Name, "text/") && strings.HasSuffix(f.Name, "_memo.html"):
			sawText = true
			r, err := f.Open()
			require.NoError(t, err)
			body, err := io.ReadAll(r)
			require.NoError(t, err)
			r.Close()
			assert.Equal(t, "<p>body</p>", string(body))
		case strings.HasPrefix(f.Name, "files/") && strings.HasSuffix(f.Name, "_doc.pdf"):
			sawFile = true
			r, err := f.Open()
			require.NoError(t, err)
			body, err := io.ReadAll(r)
			require.NoError(t, err)
			r.Close()
			assert.Equal(t, fileContent, body)
		}
	}
	assert.True(t, sawText, "missing text entry: %v", names)
	assert.True(t, sawFile, "missing file entry: %v", names)
}

// 场景：创建带密码的文本分享，访客凭提取码取回内容
func TestScenario_ProtectedTextShare(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTextShare(ctx, 7, CreateTextShareInput{
		Name:          "meeting-notes",
		Title:         "周会纪要",
		Content:       "<h1>notes</h1>",
		ExpiresInDays: 7,
		Password:      strPtr("team-pw"),
	})
	require.NoError(t, err)

	share, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	require.NotNil(t, share)
	assert.True(t, share.HasPassword)

	assert.False(t, svc.VerifyPassword(ctx, share, "guess"))
	assert.True(t, svc.VerifyPassword(ctx, share, "team-pw"))
	assert.Equal(t, "周会纪要", share.DisplayTitle())
	assert.Equal(t, "<h1>notes</h1>", share.Content)

	svc.RecordAccess(share)
	assert.Eventually(t, func() bool {
		s, err := svc.shareRepo.FindByID(ctx, created.ID)
		return err == nil && s != nil && s.AccessCount == 1
	}, 2*time.Second, 10*time.Millisecond)
}

// 场景：分享到期后自动失效，所有者续期恢复访问
func TestScenario_ExpiryAndRenewal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	created, err := svc.CreateTextShare(ctx, 1, CreateTextShareInput{
		Name: "flash", Content: "x", ExpiresInDays: 1,
	})
	require.NoError(t, err)

	// 到期前可访问
	got, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	assert.NotNil(t, got)

	// 到期后不可访问，但记录仍在，所有者列表里还能看到
	svc.now = func() time.Time { return base.AddDate(0, 0, 2) }
	got, err = svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	assert.Nil(t, got)
	list, total, err := svc.ListUserShares(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	// 所有者续期后恢复访问，提取码不变
	_, err = svc.UpdateShare(ctx, created.ID, 1, UpdateShareInput{ExpiresInDays: intPtr(7)})
	require.NoError(t, err)
	got, err = svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.AccessCode, got.AccessCode)
}

// 场景：文件分享全生命周期，删除后载荷一并清理
func TestScenario_FileShareLifecycle(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	content := []byte("binary-payload")
	_, err := fs.PutObject(ctx, "quickshare", "9/data.bin", bytes.NewReader(content), int64(len(content)), "application/octet-stream")
	require.NoError(t, err)

	created, err := svc.CreateFileShare(ctx, 9, CreateFileShareInput{
		File: FileRef{
			ObjectKey: "9/data.bin",
			PublicURL: "http://fake/quickshare/9/data.bin",
			FileName:  "data.bin",
			MimeType:  "application/octet-stream",
			SizeBytes: uint64(len(content)),
		},
		ExpiresInDays: 30,
	})
	require.NoError(t, err)

	share, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	require.NotNil(t, share)
	payload := share.File()
	require.NotNil(t, payload)
	assert.Equal(t, "9/data.bin", payload.ObjectKey)
	assert.EqualValues(t, len(content), payload.SizeBytes)

	url, err := svc.PresignedFileURL(ctx, share)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	require.NoError(t, svc.DeleteShare(ctx, created.ID, 9))
	assert.Contains(t, fs.removed, "9/data.bin")
	gone, err := svc.GetByAccessCode(ctx, created.AccessCode)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
