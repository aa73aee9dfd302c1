package api

import (
	"fmt"

	"github.com/docchat/client/internal/domain/chat"
)

// --- 各接口响应结构（与后端 schemas 对应） ---

// CreateSessionResponse POST /api/create-session 响应
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// HistoryResponse GET /api/session/{id}/history 响应
type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Messages  []chat.Message `json:"messages"`
}

// DeleteSessionResponse DELETE /api/session/{id} 响应
type DeleteSessionResponse struct {
	Message string `json:"message"`
}

// UploadResponse POST /api/upload-file 响应
type UploadResponse struct {
	Message  string `json:"message"`
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// HealthResponse GET /health 响应
type HealthResponse struct {
	Status string `json:"status"`
}

// ChatRequest POST /api/chat 请求体
type ChatRequest struct {
	Question    string   `json:"question"`             // 用户问题
	DocumentIDs []string `json:"document_ids"`         // 作为上下文的文档 ID 列表
	SessionID   string   `json:"session_id,omitempty"` // 会话 ID，为空时后端隐式新建
}

// errorBody 后端错误响应体（FastAPI 风格）
type errorBody struct {
	Detail string `json:"detail"`
}

// Error 后端返回的非 2xx 响应
// 调用方把它当作不透明错误处理，不区分具体状态码
type Error struct {
	StatusCode int    // HTTP 状态码
	Detail     string // 后端错误描述
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}
