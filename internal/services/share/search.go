package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/xerr"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// ShareDoc 是分享在搜索索引中的投影
type ShareDoc struct {
	ID          uint64 `json:"id"`
	OwnerID     uint64 `json:"owner_id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	AccessCode  string `json:"access_code"`
	HasPassword bool   `json:"has_password"`
	CreatedAt   string `json:"created_at"`
}

// ShareIndexer 维护分享元数据的搜索索引
// 索引失败不影响主流程，调用方只记日志
type ShareIndexer interface {
	Index(ctx context.Context, share *models.Share) error
	Remove(ctx context.Context, shareID uint64) error
	Search(ctx context.Context, ownerID uint64, query string) ([]ShareDoc, error)
}

// esShareIndexer 是基于 Elasticsearch 的 ShareIndexer 实现
type esShareIndexer struct {
	client *elasticsearch.Client
	index  string
}

var _ ShareIndexer = (*esShareIndexer)(nil)

// NewESShareIndexer 创建 Elasticsearch 索引器
func NewESShareIndexer(client *elasticsearch.Client, index string) ShareIndexer {
	return &esShareIndexer{client: client, index: index}
}

func (e *esShareIndexer) Index(ctx context.Context, share *models.Share) error {
	doc := ShareDoc{
		ID:          share.ID,
		OwnerID:     share.OwnerID,
		Kind:        share.Kind,
		Name:        share.Name,
		Title:       share.DisplayTitle(),
		AccessCode:  share.AccessCode,
		HasPassword: share.HasPassword,
		CreatedAt:   share.CreatedAt.Format(time.RFC3339),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化索引文档失败: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: strconv.FormatUint(share.ID, 10),
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("写入搜索索引失败: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("写入搜索索引失败: %s", res.Status())
	}
	return nil
}

func (e *esShareIndexer) Remove(ctx context.Context, shareID uint64) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: strconv.FormatUint(shareID, 10),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("删除索引文档失败: %w", err)
	}
	defer res.Body.Close()
	// 文档不存在时返回404，不算错误
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("删除索引文档失败: %s", res.Status())
	}
	return nil
}

func (e *esShareIndexer) Search(ctx context.Context, ownerID uint64, query string) ([]ShareDoc, error) {
	searchBody := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"owner_id": ownerID}},
				},
				"must": []any{
					map[string]any{"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"name", "title"},
					}},
				},
			},
		},
		"size": 50,
	}
	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("构造搜索请求失败: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("搜索请求失败: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("搜索请求失败: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ShareDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析搜索结果失败: %w", err)
	}

	docs := make([]ShareDoc, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// SearchUserShares 按名称/标题搜索用户自己的分享
func (s *shareService) SearchUserShares(ctx context.Context, ownerID uint64, query string) ([]ShareDoc, error) {
	if s.indexer == nil {
		return nil, xerr.ErrSearchError
	}
	docs, err := s.indexer.Search(ctx, ownerID, query)
	if err != nil {
		logger.Error("SearchUserShares: 搜索失败", zap.Uint64("ownerID", ownerID), zap.Error(err))
		return nil, err
	}
	return docs, nil
}

// indexAsync 把记录异步写入搜索索引，失败只记日志
func (s *shareService) indexAsync(share *models.Share) {
	if s.indexer == nil {
		return
	}
	cloned := *share
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.indexer.Index(ctx, &cloned); err != nil {
			logger.Warn("indexAsync: 更新搜索索引失败", zap.Uint64("shareID", cloned.ID), zap.Error(err))
		}
	}()
}

// removeIndexAsync 把记录异步移出搜索索引，失败只记日志
func (s *shareService) removeIndexAsync(shareID uint64) {
	if s.indexer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.indexer.Remove(ctx, shareID); err != nil {
			logger.Warn("removeIndexAsync: 清理搜索索引失败", zap.Uint64("shareID", shareID), zap.Error(err))
		}
	}()
}
