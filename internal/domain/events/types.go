// Package events 定义领域事件类型和接口
// 用于状态变更通知（UI 重绘、自动上传），不承载跨 store 的一致性规则
package events

import "time"

// EventType 事件类型标识
type EventType string

// 会话状态相关事件类型
const (
	// SessionCreated 新会话建立（显式创建或后端隐式创建）
	SessionCreated EventType = "chat.session.created"
	// SessionSwitched 活动会话切换
	SessionSwitched EventType = "chat.session.switched"
	// SessionDeleted 会话删除
	SessionDeleted EventType = "chat.session.deleted"
	// SessionsRefreshed 会话摘要列表刷新
	SessionsRefreshed EventType = "chat.sessions.refreshed"
	// MessageCommitted 一轮问答被后端确认
	MessageCommitted EventType = "chat.message.committed"
	// ConversationCleared 当前会话的消息序列被清空
	ConversationCleared EventType = "chat.conversation.cleared"
)

// 文档相关事件类型
const (
	// DocumentListRefreshed 文档列表刷新
	DocumentListRefreshed EventType = "document.list.refreshed"
	// DocumentUploaded 文档上传成功
	DocumentUploaded EventType = "document.uploaded"
	// FileDropped 监听目录中出现了新文件
	FileDropped EventType = "document.file.dropped"
)

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}
