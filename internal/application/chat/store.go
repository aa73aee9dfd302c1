// Package chat 持有活动会话与消息历史的客户端权威状态
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	domainChat "github.com/docchat/client/internal/domain/chat"
	"github.com/docchat/client/internal/domain/events"
	"github.com/docchat/client/internal/infrastructure/log"
)

// Store 会话/消息状态存储
// 活动会话 ID、消息历史和会话摘要列表的唯一拥有者，
// 所有修改都经过本 Store 的方法完成
type Store struct {
	backend Backend
	bus     events.EventBus
	logger  *slog.Logger

	// mu 保护以下全部字段
	mu sync.Mutex
	// sessionID 活动会话 ID，空串表示无会话
	sessionID string
	// messages 活动会话的有序消息历史
	messages []domainChat.Message
	// sessions 会话摘要缓存
	sessions []domainChat.SessionSummary
	// sending 当前会话是否有一条消息在途
	sending bool
	// pendingLoads 在途的历史加载数量
	// 过期的加载结果会被丢弃，但仍要在完成时递减
	pendingLoads int
	// sessionsLoading 会话列表刷新是否进行中
	sessionsLoading bool
	// generation 状态代际计数
	// 会话切换、删除活动会话、清空会话时递增；
	// 异步完成回调比对发起时捕获的代际，不一致则丢弃结果
	generation uint64
}

// NewStore 创建会话状态存储
func NewStore(backend Backend, bus events.EventBus) *Store {
	return &Store{
		backend: backend,
		bus:     bus,
		logger:  log.NewModuleLogger("chat", "store"),
	}
}

// InitializeSession 确保存在一个活动会话
// 已有活动会话时是空操作；失败时状态保持不变
func (s *Store) InitializeSession(ctx context.Context) error {
	s.mu.Lock()
	if s.sessionID != "" {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	sessionID, err := s.backend.CreateSession(ctx)
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		return fmt.Errorf("create session: %w", err)
	}

	s.mu.Lock()
	// 并发初始化只保留最先落地的会话
	if s.sessionID != "" {
		s.mu.Unlock()
		return nil
	}
	s.sessionID = sessionID
	s.messages = nil
	s.mu.Unlock()

	s.logger.Info("session initialized", "session_id", sessionID)
	s.bus.Publish(events.NewChatEvent(events.SessionCreated, sessionID))

	go s.refreshSessions()

	return nil
}

// NewSession 创建一个全新会话并切换过去
// 与 InitializeSession 不同，已有活动会话时也会创建并替换
func (s *Store) NewSession(ctx context.Context) error {
	sessionID, err := s.backend.CreateSession(ctx)
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		return fmt.Errorf("create session: %w", err)
	}

	s.mu.Lock()
	s.sessionID = sessionID
	s.messages = nil
	// 旧会话的在途结果不得写入新会话
	s.generation++
	s.mu.Unlock()

	s.logger.Info("new session created", "session_id", sessionID)
	s.bus.Publish(events.NewChatEvent(events.SessionCreated, sessionID))

	go s.refreshSessions()

	return nil
}

// FetchSessions 刷新会话摘要列表
// 失败时保留上一次成功获取的列表
func (s *Store) FetchSessions(ctx context.Context) error {
	s.mu.Lock()
	s.sessionsLoading = true
	s.mu.Unlock()

	sessions, err := s.backend.ListSessions(ctx)

	s.mu.Lock()
	s.sessionsLoading = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("failed to fetch sessions, keeping cached list", "error", err)
		return fmt.Errorf("list sessions: %w", err)
	}
	s.sessions = sessions
	s.mu.Unlock()

	s.bus.Publish(events.NewChatEvent(events.SessionsRefreshed, ""))

	return nil
}

// SwitchSession 切换活动会话
// id 等于当前活动会话时是空操作，不产生网络请求。
// 历史获取失败时会话仍然切换、历史置空：活动会话必须反映用户
// 最后一次明确选择，即便历史暂不可得
func (s *Store) SwitchSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if sessionID == s.sessionID {
		s.mu.Unlock()
		return nil
	}
	// 本次切换使所有在途完成回调失效
	s.generation++
	generation := s.generation
	s.pendingLoads++
	s.mu.Unlock()

	history, err := s.backend.GetSessionHistory(ctx, sessionID)

	s.mu.Lock()
	s.pendingLoads--
	if s.generation != generation {
		// 期间发生了更新的状态变更，丢弃本次结果
		s.mu.Unlock()
		return nil
	}
	s.sessionID = sessionID
	if err != nil {
		s.messages = nil
		s.mu.Unlock()
		s.logger.Warn("switched session but history fetch failed",
			"session_id", sessionID,
			"error", err,
		)
		s.bus.Publish(events.NewChatEvent(events.SessionSwitched, sessionID))
		return fmt.Errorf("fetch history: %w", err)
	}
	s.messages = history
	s.mu.Unlock()

	s.logger.Info("session switched",
		"session_id", sessionID,
		"messages", len(history),
	)
	s.bus.Publish(events.NewChatEvent(events.SessionSwitched, sessionID))

	return nil
}

// DeleteSession 删除会话
// 删除活动会话时回到无会话状态，不自动新建；失败时状态不变并向调用方传播
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.backend.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.mu.Lock()
	kept := make([]domainChat.SessionSummary, 0, len(s.sessions))
	for _, summary := range s.sessions {
		if summary.SessionID != sessionID {
			kept = append(kept, summary)
		}
	}
	s.sessions = kept

	if s.sessionID == sessionID {
		s.sessionID = ""
		s.messages = nil
		s.generation++
	}
	s.mu.Unlock()

	s.logger.Info("session deleted", "session_id", sessionID)
	s.bus.Publish(events.NewChatEvent(events.SessionDeleted, sessionID))

	return nil
}

// SendMessage 发送一条消息（乐观更新）
// 先把用户消息追加进历史并置发送标志，成功后追加 AI 回复并采纳响应中
// 的会话 ID（后端可能隐式新建会话）；失败则精确回滚投机追加的那条消息
func (s *Store) SendMessage(ctx context.Context, text string, documentIDs []string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domainChat.ErrEmptyMessage
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return domainChat.ErrSendInFlight
	}
	s.sending = true
	s.messages = append(s.messages, domainChat.Message{
		Role:    domainChat.RoleUser,
		Content: text,
		Pending: true,
	})
	generation := s.generation
	sessionID := s.sessionID
	s.mu.Unlock()

	if sessionID != "" {
		ctx = log.WithSessionID(ctx, sessionID)
	}
	result, err := s.backend.Chat(ctx, text, documentIDs, sessionID)

	s.mu.Lock()
	s.sending = false
	if s.generation != generation {
		// 会话在请求期间被切换或清空，投机消息已随旧状态消失
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		s.logger.Warn("discarding stale chat response",
			"session_id", result.SessionID,
		)
		return nil
	}
	if err != nil {
		// 回滚：精确移除最近追加的投机用户消息
		s.messages = s.messages[:len(s.messages)-1]
		s.mu.Unlock()
		s.logger.Error("send failed, rolled back pending message", "error", err)
		return fmt.Errorf("send message: %w", err)
	}

	s.messages[len(s.messages)-1].Pending = false
	s.messages = append(s.messages, domainChat.Message{
		Role:    domainChat.RoleAssistant,
		Content: result.Answer,
		Sources: result.Sources,
	})
	created := sessionID == "" && result.SessionID != ""
	s.sessionID = result.SessionID
	s.mu.Unlock()

	if created {
		s.logger.Info("session created implicitly", "session_id", result.SessionID)
		s.bus.Publish(events.NewChatEvent(events.SessionCreated, result.SessionID))
	}
	s.bus.Publish(events.NewChatEvent(events.MessageCommitted, result.SessionID))

	go s.refreshSessions()

	return nil
}

// ClearChat 清空活动会话的消息历史
// 纯本地操作，不触达后端，不改变会话 ID；幂等。
// 文档选择变更后由调用方（UI 层）调用本方法完成会话失效
func (s *Store) ClearChat() {
	s.mu.Lock()
	s.messages = nil
	// 已失效的上下文中在途的发送结果不应再落地
	s.generation++
	sessionID := s.sessionID
	s.mu.Unlock()

	s.bus.Publish(events.NewChatEvent(events.ConversationCleared, sessionID))
}

// SessionInfo 获取活动会话的元数据
func (s *Store) SessionInfo(ctx context.Context) (*domainChat.SessionInfo, error) {
	s.mu.Lock()
	sessionID := s.sessionID
	s.mu.Unlock()

	if sessionID == "" {
		return nil, domainChat.ErrSessionNotFound
	}
	return s.backend.GetSessionInfo(ctx, sessionID)
}

// refreshSessions 异步刷新会话列表
// 错误已在 FetchSessions 内记录，此处不再处理
func (s *Store) refreshSessions() {
	_ = s.FetchSessions(context.Background())
}

// --- 只读快照 ---

// SessionID 当前活动会话 ID，空串表示无会话
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Messages 活动会话消息历史的副本
func (s *Store) Messages() []domainChat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domainChat.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Sessions 会话摘要缓存的副本
func (s *Store) Sessions() []domainChat.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domainChat.SessionSummary, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// IsSending 是否有消息在途
func (s *Store) IsSending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// IsLoading 历史加载是否进行中
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLoads > 0
}

// SessionsLoading 会话列表刷新是否进行中
func (s *Store) SessionsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionsLoading
}
