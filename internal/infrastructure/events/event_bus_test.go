package events

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/docchat/client/internal/domain/events"
)

func TestEventBus_Subscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	var received atomic.Bool

	unsub := bus.Subscribe(events.SessionSwitched, events.HandlerFunc(func(event events.Event) error {
		received.Store(true)
		return nil
	}))
	defer unsub()

	// 发布事件
	bus.Publish(events.NewChatEvent(events.SessionSwitched, "test-session"))

	// 等待异步处理
	time.Sleep(100 * time.Millisecond)

	assert.True(t, received.Load(), "handler should have received the event")
}

func TestEventBus_MultipleHandlers(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	var count atomic.Int32

	// 注册多个处理器
	for i := 0; i < 3; i++ {
		unsub := bus.Subscribe(events.MessageCommitted, events.HandlerFunc(func(event events.Event) error {
			count.Add(1)
			return nil
		}))
		defer unsub()
	}

	// 发布事件
	bus.Publish(events.NewChatEvent(events.MessageCommitted, "test-session"))

	// 等待异步处理
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(3), count.Load(), "all 3 handlers should have received the event")
}

func TestEventBus_SubscribeMultiple(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	var count atomic.Int32

	// 订阅多个事件类型
	unsub := bus.SubscribeMultiple(
		[]events.EventType{events.SessionCreated, events.SessionDeleted},
		events.HandlerFunc(func(event events.Event) error {
			count.Add(1)
			return nil
		}),
	)
	defer unsub()

	// 发布两种类型的事件
	bus.Publish(events.NewChatEvent(events.SessionCreated, "s1"))
	bus.Publish(events.NewChatEvent(events.SessionDeleted, "s1"))

	// 等待异步处理
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(2), count.Load(), "handler should have received both events")
}

func TestEventBus_ErrorIsolation(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	var okCount atomic.Int32

	// 一个返回错误的处理器不应影响其他处理器
	unsub1 := bus.Subscribe(events.DocumentUploaded, events.HandlerFunc(func(event events.Event) error {
		return errors.New("handler failure")
	}))
	defer unsub1()

	unsub2 := bus.Subscribe(events.DocumentUploaded, events.HandlerFunc(func(event events.Event) error {
		okCount.Add(1)
		return nil
	}))
	defer unsub2()

	bus.Publish(&events.DocumentEvent{
		EventType: events.DocumentUploaded,
		Filename:  "report.pdf",
		EventTime: time.Now(),
	})

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), okCount.Load())
}

func TestEventBus_PanicIsolation(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	var okCount atomic.Int32

	unsub1 := bus.Subscribe(events.ConversationCleared, events.HandlerFunc(func(event events.Event) error {
		panic("handler panic")
	}))
	defer unsub1()

	unsub2 := bus.Subscribe(events.ConversationCleared, events.HandlerFunc(func(event events.Event) error {
		okCount.Add(1)
		return nil
	}))
	defer unsub2()

	bus.Publish(events.NewChatEvent(events.ConversationCleared, "s1"))

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), okCount.Load())
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	bus := NewEventBus()

	var count atomic.Int32
	bus.Subscribe(events.SessionsRefreshed, events.HandlerFunc(func(event events.Event) error {
		count.Add(1)
		return nil
	}))

	bus.Close()

	// 关闭后发布的事件被丢弃
	bus.Publish(events.NewChatEvent(events.SessionsRefreshed, ""))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), count.Load())
}
