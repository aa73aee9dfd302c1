package chat

import "errors"

// 发送相关错误
var (
	// ErrEmptyMessage 消息内容为空
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrSendInFlight 当前会话已有一条消息在途
	ErrSendInFlight = errors.New("another message is already in flight")
	// ErrNoDocumentsSelected 未选择任何文档
	ErrNoDocumentsSelected = errors.New("no documents selected for chat context")
)

// 会话相关错误
var (
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("session not found or expired")
)
