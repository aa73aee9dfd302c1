// Package watcher 监听投放目录，把新落地的 PDF 转成上传事件
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	domainDoc "github.com/docchat/client/internal/domain/document"
	"github.com/docchat/client/internal/domain/events"
	"github.com/docchat/client/internal/infrastructure/config"
	"github.com/docchat/client/internal/infrastructure/log"
)

// UploadWatcher 投放目录监听器
// 监听配置的目录，文件写入稳定（防抖窗口内无新事件）后发布
// FileDroppedEvent，由上层订阅者完成实际上传。
// 未配置监听目录时处于禁用状态，Start/Stop 均为空操作
type UploadWatcher struct {
	config   *config.UploadConfig
	eventBus events.EventBus
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// 防抖相关
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// 控制
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewUploadWatcher 创建投放目录监听器
func NewUploadWatcher(cfg *config.UploadConfig, eventBus events.EventBus) (*UploadWatcher, error) {
	uw := &UploadWatcher{
		config:         cfg,
		eventBus:       eventBus,
		logger:         log.NewModuleLogger("watcher", "upload_watcher"),
		debounceTimers: make(map[string]*time.Timer),
		stopCh:         make(chan struct{}),
	}

	if cfg.WatchDir == "" {
		return uw, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	uw.watcher = watcher

	return uw, nil
}

// Enabled 监听是否启用
func (uw *UploadWatcher) Enabled() bool {
	return uw.watcher != nil
}

// Start 启动监听
func (uw *UploadWatcher) Start() error {
	if !uw.Enabled() {
		uw.logger.Info("Upload watcher disabled, no watch directory configured")
		return nil
	}

	if err := os.MkdirAll(uw.config.WatchDir, 0o755); err != nil {
		return err
	}
	if err := uw.watcher.Add(uw.config.WatchDir); err != nil {
		return err
	}

	uw.logger.Info("Starting upload watcher",
		"watch_dir", uw.config.WatchDir,
		"debounce", uw.config.DebounceDelay,
	)

	uw.wg.Add(1)
	go uw.watchLoop()

	return nil
}

// Stop 停止监听
func (uw *UploadWatcher) Stop() {
	if !uw.Enabled() {
		return
	}

	uw.logger.Info("Stopping upload watcher")

	close(uw.stopCh)
	uw.watcher.Close()
	uw.wg.Wait()

	// 取消所有防抖定时器
	uw.debounceMu.Lock()
	for _, timer := range uw.debounceTimers {
		timer.Stop()
	}
	uw.debounceMu.Unlock()

	uw.logger.Info("Upload watcher stopped")
}

// watchLoop 事件监听循环
func (uw *UploadWatcher) watchLoop() {
	defer uw.wg.Done()

	for {
		select {
		case <-uw.stopCh:
			return

		case event, ok := <-uw.watcher.Events:
			if !ok {
				return
			}
			uw.handleFsEvent(event)

		case err, ok := <-uw.watcher.Errors:
			if !ok {
				return
			}
			uw.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 处理文件系统事件（带防抖）
// 大文件拷贝会产生一串 Write 事件，只有防抖窗口内无新事件才视为落地完成
func (uw *UploadWatcher) handleFsEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !uw.isCandidateFile(event.Name) {
		return
	}

	uw.debounceMu.Lock()
	defer uw.debounceMu.Unlock()

	if timer, exists := uw.debounceTimers[event.Name]; exists {
		timer.Stop()
	}

	path := event.Name
	uw.debounceTimers[path] = time.AfterFunc(uw.config.DebounceDelay, func() {
		uw.emitFileDropped(path)

		uw.debounceMu.Lock()
		delete(uw.debounceTimers, path)
		uw.debounceMu.Unlock()
	})
}

// isCandidateFile 判断是否为可上传的候选文件
func (uw *UploadWatcher) isCandidateFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), domainDoc.AllowedExtension)
}

// emitFileDropped 发布文件投放事件
func (uw *UploadWatcher) emitFileDropped(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	if info.Size() > domainDoc.MaxFileSize {
		uw.logger.Warn("Dropped file exceeds size limit, skipping",
			"path", path,
			"size", info.Size(),
		)
		return
	}

	uw.eventBus.Publish(&events.FileDroppedEvent{
		FilePath:  path,
		FileSize:  info.Size(),
		ModTime:   info.ModTime(),
		EventTime: time.Now(),
	})

	uw.logger.Debug("File dropped event emitted", "path", path)
}
