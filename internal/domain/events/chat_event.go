package events

import "time"

// ChatEvent 会话状态变更事件
// 由 chat.Store 在状态提交后发布，供 UI 层重绘使用
type ChatEvent struct {
	// EventType 事件类型
	EventType EventType
	// SessionID 相关会话 ID（列表刷新事件可能为空）
	SessionID string
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *ChatEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *ChatEvent) Timestamp() time.Time {
	return e.EventTime
}

// NewChatEvent 创建会话事件
func NewChatEvent(eventType EventType, sessionID string) *ChatEvent {
	return &ChatEvent{
		EventType: eventType,
		SessionID: sessionID,
		EventTime: time.Now(),
	}
}
