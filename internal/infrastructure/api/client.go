// Package api 基于 resty 封装的后端 HTTP 客户端
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/docchat/client/internal/domain/chat"
	"github.com/docchat/client/internal/domain/document"
	"github.com/docchat/client/internal/infrastructure/config"
	"github.com/docchat/client/internal/infrastructure/log"
)

// Client 后端 HTTP 客户端
type Client struct {
	client *resty.Client
	logger *slog.Logger
}

// NewClient 创建后端客户端
func NewClient(cfg *config.ServerConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		client: client,
		logger: log.NewModuleLogger("api", "client"),
	}
}

// newRequest 创建带请求 ID 的请求
// 每个请求携带独立的 X-Request-ID 便于与后端日志关联，
// 同一 ID 写入上下文供本地日志提取
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	requestID := uuid.New().String()
	ctx = log.WithRequestID(ctx, requestID)

	if log.IsDebugMode() {
		attrs := log.LogCtxFromContext(ctx)
		args := make([]any, 0, len(attrs)*2)
		for _, attr := range attrs {
			args = append(args, attr.Key, attr.Value)
		}
		c.logger.Debug("request started", args...)
	}

	return c.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID)
}

// checkError 把非 2xx 响应统一转换为 *Error
func checkError(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		apiErr := &Error{StatusCode: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			apiErr.Detail = body.Detail
		}
		return apiErr
	}
	return nil
}

// Health 探测后端可用性
func (c *Client) Health(ctx context.Context) error {
	var result HealthResponse
	resp, err := c.newRequest(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Get("/health")
	if err := checkError(resp, err); err != nil {
		return err
	}
	if result.Status != "healthy" {
		return fmt.Errorf("backend unhealthy: %s", result.Status)
	}
	return nil
}

// --- 会话管理 ---

// CreateSession 创建新会话，返回后端签发的会话 ID
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var result CreateSessionResponse
	resp, err := c.newRequest(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Post("/api/create-session")
	if err := checkError(resp, err); err != nil {
		return "", err
	}
	return result.SessionID, nil
}

// ListSessions 获取全部会话摘要
func (c *Client) ListSessions(ctx context.Context) ([]chat.SessionSummary, error) {
	var result []chat.SessionSummary
	resp, err := c.newRequest(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Get("/api/sessions")
	if err := checkError(resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// GetSessionHistory 获取指定会话的消息历史
func (c *Client) GetSessionHistory(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var result HistoryResponse
	resp, err := c.newRequest(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Get(fmt.Sprintf("/api/session/%s/history", sessionID))
	if err := checkError(resp, err); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// GetSessionInfo 获取会话元数据
func (c *Client) GetSessionInfo(ctx context.Context, sessionID string) (*chat.SessionInfo, error) {
	var result chat.SessionInfo
	resp, err := c.newRequest(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Get(fmt.Sprintf("/api/session/%s/info", sessionID))
	if err := checkError(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSession 删除会话
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	var result DeleteSessionResponse
	resp, err := c.newRequest(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Delete(fmt.Sprintf("/api/session/%s", sessionID))
	return checkError(resp, err)
}

// --- 对话 ---

// Chat 发送聊天消息
// sessionID 为空时后端隐式新建会话，响应中的 session_id 是权威归属
func (c *Client) Chat(ctx context.Context, question string, documentIDs []string, sessionID string) (*chat.ChatResult, error) {
	if documentIDs == nil {
		documentIDs = []string{}
	}
	var result chat.ChatResult
	resp, err := c.newRequest(ctx).
		SetBody(ChatRequest{
			Question:    question,
			DocumentIDs: documentIDs,
			SessionID:   sessionID,
		}).
		SetResult(&result).
		SetError(&errorBody{}).
		Post("/api/chat")
	if err := checkError(resp, err); err != nil {
		return nil, err
	}

	c.logger.Debug("chat completed",
		"session_id", result.SessionID,
		"sources", len(result.Sources),
	)

	return &result, nil
}

// --- 文档管理 ---

// ListFiles 获取全部已上传文档
func (c *Client) ListFiles(ctx context.Context) ([]document.Document, error) {
	var result []document.Document
	resp, err := c.newRequest(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Get("/api/files")
	if err := checkError(resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// UploadFile 上传文档，返回后端分配的文件 ID
// multipart 表单字段名 file 与后端约定一致
func (c *Client) UploadFile(ctx context.Context, filename string, reader io.Reader) (string, error) {
	var result UploadResponse
	resp, err := c.newRequest(ctx).
		SetFileReader("file", filename, reader).
		SetResult(&result).
		SetError(&errorBody{}).
		Post("/api/upload-file")
	if err := checkError(resp, err); err != nil {
		return "", err
	}

	c.logger.Info("file uploaded",
		"file_id", result.FileID,
		"filename", result.Filename,
	)

	return result.FileID, nil
}
