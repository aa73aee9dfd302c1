// Package document 定义文档的领域模型
package document

import (
	"path/filepath"
	"strings"
	"time"
)

// Document 已上传的文档元数据
// 文档创建后不可变，已知文档集合只会因上传而增长
type Document struct {
	ID         string    `json:"id"`          // 文档 ID（后端签发 UUID）
	Filename   string    `json:"filename"`    // 原始文件名
	UploadDate time.Time `json:"upload_date"` // 上传时间
	FileSize   int64     `json:"file_size"`   // 文件大小（字节）
	ChunkCount int       `json:"chunk_count"` // 后端切分出的可检索片段数量
}

// 上传约束
// 与后端配置保持一致（MAX_FILE_SIZE / PDF 单一类型）
const (
	// MaxFileSize 上传文件大小上限（50 MB）
	MaxFileSize = 50 * 1024 * 1024
	// AllowedExtension 允许上传的扩展名
	AllowedExtension = ".pdf"
)

// ValidateUpload 校验待上传文件的类型与大小
// 上传入口（命令行与投放目录）共用同一套约束
func ValidateUpload(filename string, size int64) error {
	if !strings.EqualFold(filepath.Ext(filename), AllowedExtension) {
		return ErrUnsupportedType
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}
