package chat

import (
	"context"

	domainChat "github.com/docchat/client/internal/domain/chat"
)

// Backend 会话相关的后端接口
// 用于依赖注入和测试 mock
type Backend interface {
	// CreateSession 创建新会话，返回后端签发的会话 ID
	CreateSession(ctx context.Context) (string, error)
	// ListSessions 获取全部会话摘要
	ListSessions(ctx context.Context) ([]domainChat.SessionSummary, error)
	// GetSessionHistory 获取指定会话的消息历史
	GetSessionHistory(ctx context.Context, sessionID string) ([]domainChat.Message, error)
	// GetSessionInfo 获取会话元数据
	GetSessionInfo(ctx context.Context, sessionID string) (*domainChat.SessionInfo, error)
	// DeleteSession 删除会话
	DeleteSession(ctx context.Context, sessionID string) error
	// Chat 发送聊天消息，sessionID 为空时后端隐式新建会话
	Chat(ctx context.Context, question string, documentIDs []string, sessionID string) (*domainChat.ChatResult, error)
}
