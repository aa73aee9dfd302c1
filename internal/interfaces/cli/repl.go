// Package cli 终端交互层
// 读取用户输入、调度两个状态存储并渲染结果。
// 跨存储的联动（文档选择变更后清空会话）由本层显式完成
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/docchat/client/internal/application/chat"
	"github.com/docchat/client/internal/application/document"
	domainChat "github.com/docchat/client/internal/domain/chat"
	domainDoc "github.com/docchat/client/internal/domain/document"
	"github.com/docchat/client/internal/infrastructure/api"
	"github.com/docchat/client/internal/infrastructure/log"
)

// Repl 交互式命令循环
type Repl struct {
	chatStore *chat.Store
	docStore  *document.Store
	logger    *slog.Logger

	in  io.Reader
	out io.Writer

	// 渲染样式
	prompt    *color.Color
	answer    *color.Color
	source    *color.Color
	notice    *color.Color
	problem   *color.Color
	highlight *color.Color
}

// NewRepl 创建命令循环
func NewRepl(chatStore *chat.Store, docStore *document.Store) *Repl {
	return &Repl{
		chatStore: chatStore,
		docStore:  docStore,
		logger:    log.NewModuleLogger("cli", "repl"),
		in:        os.Stdin,
		out:       color.Output,
		prompt:    color.New(color.FgCyan, color.Bold),
		answer:    color.New(color.FgGreen),
		source:    color.New(color.FgHiBlack),
		notice:    color.New(color.FgYellow),
		problem:   color.New(color.FgRed),
		highlight: color.New(color.FgMagenta),
	}
}

// Run 运行命令循环直到用户退出或输入流结束
func (r *Repl) Run(ctx context.Context) error {
	r.logger.Info("command loop started")
	r.printWelcome()

	scanner := bufio.NewScanner(r.in)
	for {
		r.prompt.Fprint(r.out, "docchat> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		if err := r.dispatch(ctx, line); err != nil {
			r.printError(err)
		}
	}
}

// dispatch 解析一行输入并执行
func (r *Repl) dispatch(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, "/") {
		return r.send(ctx, line)
	}

	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "/help":
		r.printHelp()
		return nil
	case "/sessions":
		return r.listSessions(ctx)
	case "/new":
		return r.newSession(ctx)
	case "/switch":
		return r.switchSession(ctx, args)
	case "/delete":
		return r.deleteSession(ctx, args)
	case "/info":
		return r.sessionInfo(ctx)
	case "/docs":
		return r.listDocuments(ctx)
	case "/select":
		return r.toggleSelection(args)
	case "/all":
		r.docStore.SelectAll()
		r.invalidateConversation()
		return nil
	case "/none":
		r.docStore.ClearSelection()
		r.invalidateConversation()
		return nil
	case "/upload":
		if len(args) != 1 {
			return errors.New("usage: /upload <path>")
		}
		return r.Upload(ctx, args[0])
	case "/clear":
		r.chatStore.ClearChat()
		r.notice.Fprintln(r.out, "conversation cleared")
		return nil
	default:
		return fmt.Errorf("unknown command %s, try /help", command)
	}
}

// send 把普通输入作为问题发送
// 发送前要求至少选中一个文档，检索范围必须是用户的明确选择
func (r *Repl) send(ctx context.Context, text string) error {
	selected := r.docStore.SelectedIDs()
	if len(selected) == 0 {
		r.notice.Fprintln(r.out, "no documents selected, use /docs then /select <n> (or /all)")
		return nil
	}

	fmt.Fprintln(r.out, "thinking...")
	if err := r.chatStore.SendMessage(ctx, text, selected); err != nil {
		return err
	}

	messages := r.chatStore.Messages()
	if len(messages) == 0 {
		// 响应在途中会话被清空，结果已按过期丢弃
		return nil
	}
	r.printMessage(messages[len(messages)-1])

	return nil
}

// listSessions 罗列会话摘要
func (r *Repl) listSessions(ctx context.Context) error {
	if err := r.chatStore.FetchSessions(ctx); err != nil {
		return err
	}

	sessions := r.chatStore.Sessions()
	if len(sessions) == 0 {
		r.notice.Fprintln(r.out, "no sessions yet, just ask a question to start one")
		return nil
	}

	active := r.chatStore.SessionID()
	for i, summary := range sessions {
		marker := " "
		if summary.SessionID == active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %2d. %s  messages=%d  ttl=%ds",
			marker, i+1, summary.SessionID, summary.MessageCount, summary.TTLRemaining)
		if created := summary.CreatedTime(); !created.IsZero() {
			line += "  created=" + created.Format("2006-01-02 15:04")
		}
		fmt.Fprintln(r.out, line)
		if summary.LastMessage != nil {
			r.source.Fprintf(r.out, "      last: %s\n", truncate(summary.LastMessage.Content, 60))
		}
	}

	return nil
}

// newSession 创建全新会话
func (r *Repl) newSession(ctx context.Context) error {
	if err := r.chatStore.NewSession(ctx); err != nil {
		return err
	}
	r.notice.Fprintf(r.out, "new session %s\n", r.chatStore.SessionID())
	return nil
}

// switchSession 按列表序号切换会话
func (r *Repl) switchSession(ctx context.Context, args []string) error {
	summary, err := r.resolveSession(args)
	if err != nil {
		return err
	}

	if err := r.chatStore.SwitchSession(ctx, summary.SessionID); err != nil {
		// 会话已切换，但历史暂不可得
		r.notice.Fprintf(r.out, "switched to %s (history unavailable: %v)\n", summary.SessionID, err)
		return nil
	}

	r.notice.Fprintf(r.out, "switched to %s\n", summary.SessionID)
	for _, message := range r.chatStore.Messages() {
		r.printMessage(message)
	}

	return nil
}

// deleteSession 按列表序号删除会话
func (r *Repl) deleteSession(ctx context.Context, args []string) error {
	summary, err := r.resolveSession(args)
	if err != nil {
		return err
	}

	if err := r.chatStore.DeleteSession(ctx, summary.SessionID); err != nil {
		return err
	}

	r.notice.Fprintf(r.out, "deleted %s\n", summary.SessionID)
	if r.chatStore.SessionID() == "" {
		r.notice.Fprintln(r.out, "active session removed, next question starts a new one")
	}

	return nil
}

// sessionInfo 显示活动会话的元数据
func (r *Repl) sessionInfo(ctx context.Context) error {
	info, err := r.chatStore.SessionInfo(ctx)
	if err != nil {
		if errors.Is(err, domainChat.ErrSessionNotFound) {
			r.notice.Fprintln(r.out, "no active session")
			return nil
		}
		return err
	}

	fmt.Fprintf(r.out, "session:  %s\n", info.SessionID)
	fmt.Fprintf(r.out, "messages: %d\n", info.MessageCount)
	fmt.Fprintf(r.out, "ttl:      %ds\n", info.TTLRemaining)
	if created := info.CreatedTime(); !created.IsZero() {
		fmt.Fprintf(r.out, "created:  %s\n", created.Format("2006-01-02 15:04:05"))
	}

	return nil
}

// listDocuments 罗列文档及选中状态
func (r *Repl) listDocuments(ctx context.Context) error {
	if err := r.docStore.LoadFiles(ctx); err != nil {
		return err
	}

	files := r.docStore.Files()
	if len(files) == 0 {
		r.notice.Fprintln(r.out, "no documents yet, use /upload <path> to add one")
		return nil
	}

	for i, file := range files {
		marker := "[ ]"
		if r.docStore.IsSelected(file.ID) {
			marker = "[x]"
		}
		fmt.Fprintf(r.out, "%s %2d. %s  %s  chunks=%d\n",
			marker, i+1, file.Filename, formatSize(file.FileSize), file.ChunkCount)
	}
	r.source.Fprintf(r.out, "%d selected\n", len(r.docStore.SelectedIDs()))

	return nil
}

// toggleSelection 按列表序号切换文档选中状态
func (r *Repl) toggleSelection(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: /select <n>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid document number %q", args[0])
	}

	files := r.docStore.Files()
	if index < 1 || index > len(files) {
		return fmt.Errorf("document number out of range, see /docs")
	}

	file := files[index-1]
	r.docStore.ToggleSelection(file.ID)
	if r.docStore.IsSelected(file.ID) {
		r.notice.Fprintf(r.out, "selected %s\n", file.Filename)
	} else {
		r.notice.Fprintf(r.out, "deselected %s\n", file.Filename)
	}
	r.invalidateConversation()

	return nil
}

// Upload 校验并上传本地文件
// 投放目录的自动上传也经由本方法，约束与手动上传一致
func (r *Repl) Upload(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if err := domainDoc.ValidateUpload(info.Name(), info.Size()); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	filename := filepath.Base(path)
	fmt.Fprintf(r.out, "uploading %s (%s)...\n", filename, formatSize(info.Size()))

	fileID, err := r.docStore.UploadFile(ctx, filename, file)
	if err != nil {
		return err
	}

	r.answer.Fprintf(r.out, "uploaded %s (id=%s)\n", filename, fileID)
	return nil
}

// invalidateConversation 选择变更后的跨存储联动
// 检索范围变了，既有会话的上下文不再成立
func (r *Repl) invalidateConversation() {
	if len(r.chatStore.Messages()) == 0 {
		return
	}
	r.chatStore.ClearChat()
	r.notice.Fprintln(r.out, "document selection changed, conversation cleared")
}

// printMessage 渲染单条消息
func (r *Repl) printMessage(message domainChat.Message) {
	switch message.Role {
	case domainChat.RoleUser:
		r.highlight.Fprintf(r.out, "you: %s\n", message.Content)
	case domainChat.RoleAssistant:
		r.answer.Fprintf(r.out, "%s\n", message.Content)
		if len(message.Sources) > 0 {
			r.source.Fprintf(r.out, "sources: %s\n", strings.Join(message.Sources, ", "))
		}
	}
}

// printError 渲染错误
// 后端返回的结构化错误展示 detail 字段而不是整个错误链
func (r *Repl) printError(err error) {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		r.problem.Fprintf(r.out, "server error: %s\n", apiErr.Detail)
	case errors.Is(err, domainChat.ErrSendInFlight):
		r.problem.Fprintln(r.out, "still waiting for the previous answer")
	case errors.Is(err, domainDoc.ErrUploadInFlight):
		r.problem.Fprintln(r.out, "another upload is still running")
	case errors.Is(err, domainDoc.ErrUnsupportedType):
		r.problem.Fprintln(r.out, "only PDF files can be uploaded")
	case errors.Is(err, domainDoc.ErrFileTooLarge):
		r.problem.Fprintf(r.out, "file exceeds the %s upload limit\n", formatSize(domainDoc.MaxFileSize))
	default:
		r.problem.Fprintf(r.out, "error: %v\n", err)
	}
}

// resolveSession 把列表序号解析成会话摘要
func (r *Repl) resolveSession(args []string) (domainChat.SessionSummary, error) {
	if len(args) != 1 {
		return domainChat.SessionSummary{}, errors.New("usage: /switch|/delete <n>, see /sessions")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return domainChat.SessionSummary{}, fmt.Errorf("invalid session number %q", args[0])
	}

	sessions := r.chatStore.Sessions()
	if index < 1 || index > len(sessions) {
		return domainChat.SessionSummary{}, errors.New("session number out of range, see /sessions")
	}
	return sessions[index-1], nil
}

func (r *Repl) printWelcome() {
	r.prompt.Fprintln(r.out, "docchat - chat with your documents")
	fmt.Fprintln(r.out, "type a question to ask, /help for commands")
}

func (r *Repl) printHelp() {
	fmt.Fprint(r.out, `commands:
  /sessions        list sessions
  /new             start a new session
  /switch <n>      switch to session n
  /delete <n>      delete session n
  /info            show active session info
  /docs            list documents
  /select <n>      toggle selection of document n
  /all             select all documents
  /none            clear selection
  /upload <path>   upload a PDF
  /clear           clear the conversation
  /quit            exit
anything else is sent as a question against the selected documents
`)
}

// truncate 截断过长的预览文本
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// formatSize 人类可读的文件大小
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMG"[exp])
}
