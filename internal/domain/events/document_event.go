package events

import "time"

// DocumentEvent 文档状态变更事件
type DocumentEvent struct {
	// EventType 事件类型（refreshed/uploaded）
	EventType EventType
	// Filename 相关文件名（列表刷新事件可能为空）
	Filename string
	// Count 当前已知文档数量
	Count int
	// EventTime 事件发生时间
	EventTime time.Time
}

// NewDocumentEvent 创建文档事件
func NewDocumentEvent(eventType EventType, filename string, count int) *DocumentEvent {
	return &DocumentEvent{
		EventType: eventType,
		Filename:  filename,
		Count:     count,
		EventTime: time.Now(),
	}
}

// Type 实现 Event 接口
func (e *DocumentEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *DocumentEvent) Timestamp() time.Time {
	return e.EventTime
}

// FileDroppedEvent 监听目录文件投放事件
// 由 watcher.UploadWatcher 在防抖窗口结束后发布
type FileDroppedEvent struct {
	// FilePath 文件完整路径
	FilePath string
	// FileSize 文件大小（字节）
	FileSize int64
	// ModTime 文件最后修改时间
	ModTime time.Time
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *FileDroppedEvent) Type() EventType {
	return FileDropped
}

// Timestamp 实现 Event 接口
func (e *FileDroppedEvent) Timestamp() time.Time {
	return e.EventTime
}
