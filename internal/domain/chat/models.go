// Package chat 定义会话与消息的领域模型
package chat

import (
	"strconv"
	"time"
)

// Role 消息角色
type Role string

const (
	// RoleUser 用户消息
	RoleUser Role = "user"
	// RoleAssistant AI 回复消息
	RoleAssistant Role = "assistant"
)

// Message 会话中的一条消息
// 消息一旦提交即不可变，客户端只做追加或回滚最近一条投机消息
type Message struct {
	Role    Role     `json:"role"`              // 消息角色（user/assistant）
	Content string   `json:"content"`           // 消息正文
	Sources []string `json:"sources,omitempty"` // 引用来源（仅 assistant 消息可能携带）
	Pending bool     `json:"pending,omitempty"` // 是否为未经后端确认的占位消息
}

// SessionSummary 会话摘要
// 后端是会话数据的唯一权威，客户端只缓存摘要列表
type SessionSummary struct {
	SessionID    string   `json:"session_id"`             // 会话 ID（后端签发）
	MessageCount int      `json:"message_count"`          // 消息数量
	CreatedAt    string   `json:"created_at"`             // 创建时间（毫秒时间戳字符串，后端格式）
	TTLRemaining int      `json:"ttl_remaining"`          // 剩余存活秒数（-1 表示未知）
	LastMessage  *Message `json:"last_message,omitempty"` // 最近一条消息预览
}

// CreatedTime 解析创建时间
// 后端以毫秒时间戳字符串存储，解析失败返回零值
func (s *SessionSummary) CreatedTime() time.Time {
	ms, err := strconv.ParseInt(s.CreatedAt, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// SessionInfo 单个会话的元数据（调试/监控用）
type SessionInfo struct {
	SessionID    string `json:"session_id"`    // 会话 ID
	MessageCount int    `json:"message_count"` // 消息数量
	CreatedAt    string `json:"created_at"`    // 创建时间（毫秒时间戳字符串）
	TTLRemaining int    `json:"ttl_remaining"` // 剩余存活秒数
}

// CreatedTime 解析创建时间，解析失败返回零值
func (s *SessionInfo) CreatedTime() time.Time {
	ms, err := strconv.ParseInt(s.CreatedAt, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// ChatResult 一次对话调用的后端结果
type ChatResult struct {
	Answer    string   `json:"answer"`            // AI 回答
	Sources   []string `json:"sources,omitempty"` // 引用来源
	SessionID string   `json:"session_id"`        // 实际归属的会话 ID（后端可能隐式新建）
}
