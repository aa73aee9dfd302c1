// Package document 持有文档列表与选中集合的客户端权威状态
package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	domainDoc "github.com/docchat/client/internal/domain/document"
	"github.com/docchat/client/internal/domain/events"
	"github.com/docchat/client/internal/infrastructure/log"
)

// Store 文档选择状态存储
// 已入库文档列表和选中文档 ID 集合的唯一拥有者。
// 选中集合始终是已知文档 ID 的子集，刷新列表时自动收敛
type Store struct {
	backend Backend
	bus     events.EventBus
	logger  *slog.Logger

	// mu 保护以下全部字段
	mu sync.Mutex
	// files 已入库文档列表
	files []domainDoc.Document
	// selected 选中的文档 ID 集合
	selected map[string]struct{}
	// loading 文档列表加载是否进行中
	loading bool
	// uploading 是否有上传在途
	uploading bool
}

// NewStore 创建文档状态存储
func NewStore(backend Backend, bus events.EventBus) *Store {
	return &Store{
		backend:  backend,
		bus:      bus,
		selected: make(map[string]struct{}),
		logger:   log.NewModuleLogger("document", "store"),
	}
}

// LoadFiles 刷新文档列表
// 成功后把选中集合收敛到新列表的 ID 子集；失败时保留既有列表与选择
func (s *Store) LoadFiles(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	files, err := s.backend.ListFiles(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("failed to load files, keeping cached list", "error", err)
		return fmt.Errorf("list files: %w", err)
	}
	s.files = files

	// 收敛选中集合：已消失的文档不再保留选中状态
	known := make(map[string]struct{}, len(files))
	for _, file := range files {
		known[file.ID] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := known[id]; !ok {
			delete(s.selected, id)
		}
	}
	count := len(files)
	s.mu.Unlock()

	s.logger.Info("files loaded", "count", count)
	s.bus.Publish(events.NewDocumentEvent(events.DocumentListRefreshed, "", count))

	return nil
}

// UploadFile 上传文档
// 同一时刻只允许一个上传在途；成功后刷新文档列表。
// 文件类型与大小校验由调用方在打开文件时完成
func (s *Store) UploadFile(ctx context.Context, filename string, reader io.Reader) (string, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return "", domainDoc.ErrUploadInFlight
	}
	s.uploading = true
	s.mu.Unlock()

	fileID, err := s.backend.UploadFile(ctx, filename, reader)

	s.mu.Lock()
	s.uploading = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("upload failed", "filename", filename, "error", err)
		return "", fmt.Errorf("upload file: %w", err)
	}

	s.logger.Info("file uploaded", "filename", filename, "file_id", fileID)
	s.bus.Publish(events.NewDocumentEvent(events.DocumentUploaded, filename, 1))

	// 上传成功后刷新列表，让新文档立即可选
	if err := s.LoadFiles(ctx); err != nil {
		s.logger.Warn("refresh after upload failed", "error", err)
	}

	return fileID, nil
}

// ToggleSelection 切换单个文档的选中状态
// 未知 ID 被忽略，保证选中集合始终是已知文档的子集
func (s *Store) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	for _, file := range s.files {
		if file.ID == id {
			s.selected[id] = struct{}{}
			return
		}
	}
}

// SelectAll 选中全部已知文档
func (s *Store) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, file := range s.files {
		s.selected[file.ID] = struct{}{}
	}
}

// ClearSelection 清空选中集合
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// --- 只读快照 ---

// Files 文档列表的副本
func (s *Store) Files() []domainDoc.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domainDoc.Document, len(s.files))
	copy(out, s.files)
	return out
}

// SelectedIDs 选中文档 ID 的副本，按文档列表顺序排列
func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selected))
	for _, file := range s.files {
		if _, ok := s.selected[file.ID]; ok {
			out = append(out, file.ID)
		}
	}
	return out
}

// IsSelected 文档是否被选中
func (s *Store) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[id]
	return ok
}

// IsLoading 文档列表加载是否进行中
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsUploading 是否有上传在途
func (s *Store) IsUploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}
