package document

import (
	"context"
	"io"

	domainDoc "github.com/docchat/client/internal/domain/document"
)

// Backend 文档相关的后端能力
type Backend interface {
	// ListFiles 获取已入库文档列表
	ListFiles(ctx context.Context) ([]domainDoc.Document, error)
	// UploadFile 上传单个文档，返回后端分配的文件 ID
	UploadFile(ctx context.Context, filename string, reader io.Reader) (string, error)
}
