package models

import (
	"time"
)

// 分享类型
const (
	ShareKindFile = "file" // 文件分享
	ShareKindText = "text" // 富文本分享
)

// Share 对应 shares 表，一条记录即一个分享（文件或文本）
type Share struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID        uint64     `gorm:"not null;index" json:"owner_id"`                      // 创建者ID，创建后不可变更
	Kind           string     `gorm:"type:varchar(8);not null" json:"kind"`                // file 或 text
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`              // 文本分享的名称或上传文件的原始文件名
	Title          *string    `gorm:"type:varchar(255);default:null" json:"title"`         // 可选标题，展示用
	Content        string     `gorm:"type:longtext;not null" json:"content"`               // 文本内容，或文件的公开访问URL
	FilePath       *string    `gorm:"type:varchar(512);default:null" json:"file_path"`     // 对象存储中的Key（仅文件分享）
	MimeType       *string    `gorm:"type:varchar(128);default:null" json:"mime_type"`     // 文件MIME类型（仅文件分享）
	SizeBytes      *uint64    `gorm:"type:bigint unsigned;default:null" json:"size_bytes"` // 文件大小（仅文件分享）
	AccessCode     string     `gorm:"type:varchar(6);unique;not null" json:"access_code"`  // 6位数字提取码，全局唯一
	HasPassword    bool       `gorm:"not null;default:0" json:"has_password"`
	PasswordDigest *string    `gorm:"type:varchar(255);default:null" json:"-"` // - 表示不输出到 JSON
	ExpiresAt      *time.Time `gorm:"default:null" json:"expires_at"`          // null 表示永不过期
	AccessCount    int64      `gorm:"not null;default:0" json:"access_count"`  // 成功提取内容的次数，只增不减
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定 GORM 使用的表名
func (Share) TableName() string {
	return "shares"
}

// TextPayload 文本分享的载荷
type TextPayload struct {
	Content string
}

// FilePayload 文件分享的载荷，内容本体在对象存储中
type FilePayload struct {
	ObjectKey string
	PublicURL string
	MimeType  string
	SizeBytes uint64
}

// Text 返回文本载荷，非文本分享返回 nil
func (s *Share) Text() *TextPayload {
	if s.Kind != ShareKindText {
		return nil
	}
	return &TextPayload{Content: s.Content}
}

// File 返回文件载荷，非文件分享返回 nil
func (s *Share) File() *FilePayload {
	if s.Kind != ShareKindFile {
		return nil
	}
	p := &FilePayload{PublicURL: s.Content}
	if s.FilePath != nil {
		p.ObjectKey = *s.FilePath
	}
	if s.MimeType != nil {
		p.MimeType = *s.MimeType
	}
	if s.SizeBytes != nil {
		p.SizeBytes = *s.SizeBytes
	}
	return p
}

// DisplayTitle 优先返回标题，未设置时回退到名称
func (s *Share) DisplayTitle() string {
	if s.Title != nil && *s.Title != "" {
		return *s.Title
	}
	return s.Name
}
