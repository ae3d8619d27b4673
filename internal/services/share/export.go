package share

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/3Eeeecho/go-quickshare/internal/models"
	"github.com/3Eeeecho/go-quickshare/internal/pkg/logger"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// 导出时一次翻页的大小
const exportPageSize = 200

// exportManifestEntry 是导出包里 manifest.json 的一行
type exportManifestEntry struct {
	ID          uint64 `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	AccessCode  string `json:"access_code"`
	HasPassword bool   `json:"has_password"`
	ExpiresAt   string `json:"expires_at"`
	AccessCount int64  `json:"access_count"`
	CreatedAt   string `json:"created_at"`
}

// ExportUserShares 把用户的全部分享打包成一个ZIP流
// 文本分享写入 text/<id>_<name>.html，文件分享从对象存储取回写入 files/，
// 并附带一份 manifest.json。ZIP 在管道上边压边传，不在内存里攒整包
func (s *shareService) ExportUserShares(ctx context.Context, ownerID uint64) (io.ReadCloser, error) {
	// 先确认能拿到第一页，让明显的存储故障在响应开始前暴露
	first, total, err := s.shareRepo.FindAllByOwnerID(ctx, ownerID, 1, exportPageSize)
	if err != nil {
		return nil, fmt.Errorf("读取分享列表失败: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		zipWriter := zip.NewWriter(pw)
		manifest := make([]exportManifestEntry, 0, total)

		page := 1
		shares := first
		for {
			for i := range shares {
				record := &shares[i]
				manifest = append(manifest, manifestEntry(record))
				if err := s.writeShareEntry(ctx, zipWriter, record); err != nil {
					pw.CloseWithError(err)
					return
				}
			}
			if len(shares) < exportPageSize {
				break
			}
			page++
			shares, _, err = s.shareRepo.FindAllByOwnerID(ctx, ownerID, page, exportPageSize)
			if err != nil {
				pw.CloseWithError(fmt.Errorf("读取分享列表失败: %w", err))
				return
			}
		}

		entry, err := zipWriter.Create("manifest.json")
		if err != nil {
			pw.CloseWithError(fmt.Errorf("创建 manifest 失败: %w", err))
			return
		}
		encoder := json.NewEncoder(entry)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(manifest); err != nil {
			pw.CloseWithError(fmt.Errorf("写入 manifest 失败: %w", err))
			return
		}

		if err := zipWriter.Close(); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to close zip writer: %w", err))
			return
		}
		pw.Close()
		logger.Info("ExportUserShares: 导出完成", zap.Uint64("ownerID", ownerID), zap.Int64("total", total))
	}()

	return pr, nil
}

// writeShareEntry 把单条分享写入ZIP
func (s *shareService) writeShareEntry(ctx context.Context, zipWriter *zip.Writer, record *models.Share) error {
	switch record.Kind {
	case models.ShareKindText:
		name := fmt.Sprintf("text/%d_%s.html", record.ID, record.Name)
		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: record.UpdatedAt,
		}
		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("为 %s 创建 ZIP 头失败: %w", name, err)
		}
		if _, err := writer.Write([]byte(record.Content)); err != nil {
			return fmt.Errorf("写入 %s 内容失败: %w", name, err)
		}

	case models.ShareKindFile:
		payload := record.File()
		if payload == nil || payload.ObjectKey == "" {
			logger.Warn("ExportUserShares: 文件分享缺少存储键,跳过",
				zap.Uint64("shareID", record.ID), zap.String("name", record.Name))
			return nil
		}
		obj, err := s.fileStorage.GetObject(ctx, s.bucketName(), payload.ObjectKey)
		if err != nil {
			// 单个对象取不回不应废掉整个导出
			logger.Error("ExportUserShares: 获取文件内容失败,跳过",
				zap.Uint64("shareID", record.ID), zap.String("objectKey", payload.ObjectKey), zap.Error(err))
			return nil
		}
		defer obj.Reader.Close()

		name := fmt.Sprintf("files/%d_%s", record.ID, record.Name)
		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: record.UpdatedAt,
		}
		if payload.SizeBytes > 0 {
			header.UncompressedSize64 = payload.SizeBytes
		}
		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("为 %s 创建 ZIP 头失败: %w", name, err)
		}
		if _, err := io.Copy(writer, obj.Reader); err != nil {
			return fmt.Errorf("复制 %s 内容到 ZIP 失败: %w", name, err)
		}
	}
	return nil
}

func manifestEntry(record *models.Share) exportManifestEntry {
	entry := exportManifestEntry{
		ID:          record.ID,
		Kind:        record.Kind,
		Name:        record.Name,
		Title:       record.DisplayTitle(),
		AccessCode:  record.AccessCode,
		HasPassword: record.HasPassword,
		ExpiresAt:   "never",
		AccessCount: record.AccessCount,
		CreatedAt:   record.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if record.ExpiresAt != nil {
		entry.ExpiresAt = record.ExpiresAt.Format("2006-01-02 15:04:05")
	}
	return entry
}
