package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat/client/internal/domain/events"
	"github.com/docchat/client/internal/infrastructure/config"
	infraEvents "github.com/docchat/client/internal/infrastructure/events"
)

func TestUploadWatcher_IsCandidateFile(t *testing.T) {
	uw := &UploadWatcher{}

	tests := []struct {
		path     string
		expected bool
	}{
		{"/drop/report.pdf", true},
		{"/drop/REPORT.PDF", true},
		{"/drop/notes.txt", false},
		{"/drop/.hidden.pdf", false},
		{"/drop/archive.pdf.part", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, uw.isCandidateFile(tt.path))
		})
	}
}

func TestUploadWatcher_DisabledWithoutWatchDir(t *testing.T) {
	bus := infraEvents.NewEventBus()
	defer bus.Close()

	uw, err := NewUploadWatcher(&config.UploadConfig{WatchDir: ""}, bus)
	require.NoError(t, err)

	assert.False(t, uw.Enabled())
	// 禁用状态下启动与停止都是空操作
	require.NoError(t, uw.Start())
	uw.Stop()
}

func TestUploadWatcher_EmitsDroppedFile(t *testing.T) {
	tmpDir := t.TempDir()

	bus := infraEvents.NewEventBus()
	defer bus.Close()

	var dropped atomic.Int32
	var lastPath atomic.Value
	bus.Subscribe(events.FileDropped, events.HandlerFunc(func(event events.Event) error {
		if e, ok := event.(*events.FileDroppedEvent); ok {
			lastPath.Store(e.FilePath)
			dropped.Add(1)
		}
		return nil
	}))

	uw, err := NewUploadWatcher(&config.UploadConfig{
		WatchDir:      tmpDir,
		DebounceDelay: 100 * time.Millisecond,
	}, bus)
	require.NoError(t, err)
	require.True(t, uw.Enabled())

	require.NoError(t, uw.Start())
	defer uw.Stop()

	// 等待监听就绪
	time.Sleep(50 * time.Millisecond)

	// 模拟分段写入（应该被防抖合并成一个事件）
	testFile := filepath.Join(tmpDir, "report.pdf")
	require.NoError(t, os.WriteFile(testFile, []byte("%PDF-1.4"), 0644))
	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, os.WriteFile(testFile, []byte("%PDF-1.4 more"), 0644))
	}

	// 等待防抖窗口结束和事件分发
	time.Sleep(400 * time.Millisecond)

	assert.LessOrEqual(t, dropped.Load(), int32(2), "events should be debounced")
	assert.GreaterOrEqual(t, dropped.Load(), int32(1), "at least one event expected")
	assert.Equal(t, testFile, lastPath.Load())
}

func TestUploadWatcher_IgnoresNonPDF(t *testing.T) {
	tmpDir := t.TempDir()

	bus := infraEvents.NewEventBus()
	defer bus.Close()

	var dropped atomic.Int32
	bus.Subscribe(events.FileDropped, events.HandlerFunc(func(event events.Event) error {
		dropped.Add(1)
		return nil
	}))

	uw, err := NewUploadWatcher(&config.UploadConfig{
		WatchDir:      tmpDir,
		DebounceDelay: 50 * time.Millisecond,
	}, bus)
	require.NoError(t, err)
	require.NoError(t, uw.Start())
	defer uw.Stop()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("hello"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, dropped.Load())
}
