package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/3Eeeecho/go-quickshare/internal/config"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/storage"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/3Eeeecho/go-quickshare/internal/repositories"
	"github.com/3Eeeecho/go-quickshare/internal/services/share"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct{}

var _ storage.StorageService = (*stubStorage)(nil)

func (stubStorage) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) (storage.PutObjectResult, error) {
	return storage.PutObjectResult{Bucket: bucketName, Key: objectName}, nil
}
func (stubStorage) GetObject(ctx context.Context, bucketName, objectName string) (storage.GetObjectResult, error) {
	return storage.GetObjectResult{Reader: io.NopCloser(strings.NewReader(""))}, nil
}
func (stubStorage) RemoveObject(ctx context.Context, bucketName, objectName string) error { return nil }
func (stubStorage) IsBucketExist(ctx context.Context, bucketName string) (bool, error) {
	return true, nil
}
func (stubStorage) MakeBucket(ctx context.Context, bucketName string) error { return nil }
func (stubStorage) GetObjectURL(bucketName, objectName string) string {
	return "http://stub/" + bucketName + "/" + objectName
}
func (stubStorage) PresignGetObjectURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	return "http://stub/" + bucketName + "/" + objectName + "?signed=1", nil
}

func newAccessRouter(t *testing.T) (*gin.Engine, share.ShareService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Storage.Type = "minio"
	cfg.Storage.PresignedURLExpiry = 15
	cfg.MinIO.BucketName = "quickshare"

	svc := share.NewShareService(repositories.NewMemoryShareRepository(), stubStorage{}, nil, nil, cfg)
	handler := NewAccessHandler(svc, cfg)

	router := gin.New()
	router.GET("/api/v1/access/:code", handler.GetShareDetails)
	router.POST("/api/v1/access/:code/verify", handler.VerifyPassword)
	router.GET("/api/v1/access/:code/content", handler.GetContent)
	return router, svc
}

func doRequest(router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, xerr.Response) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp xerr.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestAccess_UnknownCode(t *testing.T) {
	router, _ := newAccessRouter(t)

	w, resp := doRequest(router, http.MethodGet, "/api/v1/access/123456", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, xerr.ShareNotFoundCode, resp.Code)

	// 非法格式与未知提取码表现一致
	w, resp = doRequest(router, http.MethodGet, "/api/v1/access/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, xerr.ShareNotFoundCode, resp.Code)
}

func TestAccess_OpenTextShare(t *testing.T) {
	router, svc := newAccessRouter(t)

	created, err := svc.CreateTextShare(context.Background(), 1, share.CreateTextShareInput{
		Name:          "memo",
		Content:       "<p>hello</p>",
		ExpiresInDays: share.NeverExpires,
	})
	require.NoError(t, err)

	// 元数据不含内容本体
	w, resp := doRequest(router, http.MethodGet, "/api/v1/access/"+created.AccessCode, "")
	require.Equal(t, http.StatusOK, w.Code)
	details, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "text", details["kind"])
	assert.Equal(t, false, details["has_password"])
	assert.NotContains(t, w.Body.String(), "<p>hello</p>")

	// 提取内容
	w, resp = doRequest(router, http.MethodGet, "/api/v1/access/"+created.AccessCode+"/content", "")
	require.Equal(t, http.StatusOK, w.Code)
	content, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "<p>hello</p>", content["content"])
}

func TestAccess_PasswordProtected(t *testing.T) {
	router, svc := newAccessRouter(t)

	pw := "s3cret"
	created, err := svc.CreateTextShare(context.Background(), 1, share.CreateTextShareInput{
		Name:          "secret",
		Content:       "classified",
		ExpiresInDays: share.NeverExpires,
		Password:      &pw,
	})
	require.NoError(t, err)
	code := created.AccessCode

	// 不带密码取内容被拒
	w, resp := doRequest(router, http.MethodGet, "/api/v1/access/"+code+"/content", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, xerr.SharePasswordRequiredCode, resp.Code)

	// 错误密码
	w, resp = doRequest(router, http.MethodPost, "/api/v1/access/"+code+"/verify", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, xerr.SharePasswordIncorrectCode, resp.Code)

	w, resp = doRequest(router, http.MethodGet, "/api/v1/access/"+code+"/content?password=wrong", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, xerr.SharePasswordIncorrectCode, resp.Code)

	// 正确密码
	w, _ = doRequest(router, http.MethodPost, "/api/v1/access/"+code+"/verify", `{"password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doRequest(router, http.MethodGet, "/api/v1/access/"+code+"/content?password=s3cret", "")
	require.Equal(t, http.StatusOK, w.Code)
	content, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "classified", content["content"])
}

func TestAccess_FileShareContent(t *testing.T) {
	router, svc := newAccessRouter(t)

	created, err := svc.CreateFileShare(context.Background(), 1, share.CreateFileShareInput{
		File: share.FileRef{
			ObjectKey: "1/report.pdf",
			PublicURL: "http://stub/quickshare/1/report.pdf",
			FileName:  "report.pdf",
			MimeType:  "application/pdf",
			SizeBytes: 2048,
		},
		ExpiresInDays: share.NeverExpires,
	})
	require.NoError(t, err)

	w, resp := doRequest(router, http.MethodGet, "/api/v1/access/"+created.AccessCode+"/content", "")
	require.Equal(t, http.StatusOK, w.Code)
	content, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "file", content["kind"])
	url, _ := content["download_url"].(string)
	assert.Contains(t, url, "signed=1")
}
