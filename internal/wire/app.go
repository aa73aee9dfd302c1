package wire

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	appChat "github.com/docchat/client/internal/application/chat"
	appDocument "github.com/docchat/client/internal/application/document"
	"github.com/docchat/client/internal/domain/events"
	"github.com/docchat/client/internal/infrastructure/api"
	applog "github.com/docchat/client/internal/infrastructure/log"
	"github.com/docchat/client/internal/infrastructure/watcher"
	"github.com/docchat/client/internal/interfaces/cli"
)

// App 应用主结构，组合所有服务
type App struct {
	repl          *cli.Repl
	chatStore     *appChat.Store
	docStore      *appDocument.Store
	apiClient     *api.Client
	uploadWatcher *watcher.UploadWatcher
	eventBus      events.EventBus
	logger        *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	repl *cli.Repl,
	chatStore *appChat.Store,
	docStore *appDocument.Store,
	apiClient *api.Client,
	uploadWatcher *watcher.UploadWatcher,
	eventBus events.EventBus,
) *App {
	return &App{
		repl:          repl,
		chatStore:     chatStore,
		docStore:      docStore,
		apiClient:     apiClient,
		uploadWatcher: uploadWatcher,
		eventBus:      eventBus,
		logger:        applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动应用
// 先探测后端可达性，再并行预热两份状态缓存；预热失败不阻止启动，
// 界面按"过期但可用"展示空列表
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("Starting docchat client")

	if err := a.apiClient.Health(ctx); err != nil {
		a.logger.Error("Backend health check failed", "error", err)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.docStore.LoadFiles(gctx); err != nil {
			a.logger.Warn("Initial file list load failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.chatStore.FetchSessions(gctx); err != nil {
			a.logger.Warn("Initial sessions load failed", "error", err)
		}
		return nil
	})
	_ = g.Wait()

	a.setupEventSubscribers(ctx)
	if err := a.uploadWatcher.Start(); err != nil {
		a.logger.Error("Failed to start upload watcher", "error", err)
	}

	a.logger.Info("docchat client started",
		"documents", len(a.docStore.Files()),
		"sessions", len(a.chatStore.Sessions()),
	)

	return nil
}

// Run 运行交互式命令循环，阻塞到用户退出
func (a *App) Run(ctx context.Context) error {
	return a.repl.Run(ctx)
}

// setupEventSubscribers 注册事件订阅者
func (a *App) setupEventSubscribers(ctx context.Context) {
	if !a.uploadWatcher.Enabled() {
		return
	}

	// 投放目录落地的文件走与手动上传相同的校验和入口
	a.eventBus.Subscribe(
		events.FileDropped,
		events.HandlerFunc(func(event events.Event) error {
			dropped, ok := event.(*events.FileDroppedEvent)
			if !ok {
				return nil
			}
			if err := a.repl.Upload(ctx, dropped.FilePath); err != nil {
				a.logger.Error("Auto upload failed",
					"path", dropped.FilePath,
					"error", err,
				)
				return err
			}
			return nil
		}),
	)
	a.logger.Info("Auto upload subscribed to drop directory events")
}

// Stop 停止应用
func (a *App) Stop() error {
	a.logger.Info("Stopping docchat client")

	a.uploadWatcher.Stop()
	a.eventBus.Close()

	a.logger.Info("docchat client stopped")

	return nil
}
