package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat/client/internal/application/chat"
	"github.com/docchat/client/internal/application/document"
	domainChat "github.com/docchat/client/internal/domain/chat"
	domainDoc "github.com/docchat/client/internal/domain/document"
	infraEvents "github.com/docchat/client/internal/infrastructure/events"
)

// fakeBackend 同时充当两个存储的后端替身
type fakeBackend struct {
	sessions []domainChat.SessionSummary
	history  map[string][]domainChat.Message
	chatRes  *domainChat.ChatResult
	files    []domainDoc.Document
	uploaded []string
}

func (f *fakeBackend) CreateSession(ctx context.Context) (string, error) {
	return "s-new", nil
}

func (f *fakeBackend) ListSessions(ctx context.Context) ([]domainChat.SessionSummary, error) {
	return f.sessions, nil
}

func (f *fakeBackend) GetSessionHistory(ctx context.Context, sessionID string) ([]domainChat.Message, error) {
	return f.history[sessionID], nil
}

func (f *fakeBackend) GetSessionInfo(ctx context.Context, sessionID string) (*domainChat.SessionInfo, error) {
	return &domainChat.SessionInfo{SessionID: sessionID, MessageCount: 2}, nil
}

func (f *fakeBackend) DeleteSession(ctx context.Context, sessionID string) error {
	return nil
}

func (f *fakeBackend) Chat(ctx context.Context, question string, documentIDs []string, sessionID string) (*domainChat.ChatResult, error) {
	if f.chatRes != nil {
		return f.chatRes, nil
	}
	return &domainChat.ChatResult{Answer: "an answer", SessionID: "s-new"}, nil
}

func (f *fakeBackend) ListFiles(ctx context.Context) ([]domainDoc.Document, error) {
	return f.files, nil
}

func (f *fakeBackend) UploadFile(ctx context.Context, filename string, reader io.Reader) (string, error) {
	f.uploaded = append(f.uploaded, filename)
	return "doc-new", nil
}

func newTestRepl(backend *fakeBackend) (*Repl, *bytes.Buffer) {
	bus := infraEvents.NewEventBus()
	repl := NewRepl(chat.NewStore(backend, bus), document.NewStore(backend, bus))
	out := &bytes.Buffer{}
	repl.out = out
	return repl, out
}

func TestDispatchSendRequiresSelection(t *testing.T) {
	backend := &fakeBackend{}
	repl, out := newTestRepl(backend)

	require.NoError(t, repl.dispatch(context.Background(), "what is X?"))

	assert.Contains(t, out.String(), "no documents selected")
	assert.Empty(t, repl.chatStore.Messages())
}

func TestDispatchSendRendersAnswer(t *testing.T) {
	backend := &fakeBackend{
		files: []domainDoc.Document{{ID: "doc1", Filename: "a.pdf"}},
		chatRes: &domainChat.ChatResult{
			Answer:    "X is Y",
			Sources:   []string{"a.pdf:p2"},
			SessionID: "abc",
		},
	}
	repl, out := newTestRepl(backend)
	require.NoError(t, repl.docStore.LoadFiles(context.Background()))
	repl.docStore.ToggleSelection("doc1")

	require.NoError(t, repl.dispatch(context.Background(), "what is X?"))

	assert.Contains(t, out.String(), "X is Y")
	assert.Contains(t, out.String(), "a.pdf:p2")
	assert.Equal(t, "abc", repl.chatStore.SessionID())
}

func TestSelectionChangeClearsConversation(t *testing.T) {
	backend := &fakeBackend{
		files: []domainDoc.Document{
			{ID: "doc1", Filename: "a.pdf"},
			{ID: "doc2", Filename: "b.pdf"},
		},
	}
	repl, out := newTestRepl(backend)
	require.NoError(t, repl.docStore.LoadFiles(context.Background()))
	repl.docStore.ToggleSelection("doc1")

	// 先产生一段会话
	require.NoError(t, repl.dispatch(context.Background(), "hello"))
	require.NotEmpty(t, repl.chatStore.Messages())

	// 选择变更后会话被清空
	require.NoError(t, repl.dispatch(context.Background(), "/select 2"))

	assert.Empty(t, repl.chatStore.Messages())
	assert.Contains(t, out.String(), "conversation cleared")
}

func TestSelectionChangeWithoutConversationIsQuiet(t *testing.T) {
	backend := &fakeBackend{
		files: []domainDoc.Document{{ID: "doc1", Filename: "a.pdf"}},
	}
	repl, out := newTestRepl(backend)
	require.NoError(t, repl.docStore.LoadFiles(context.Background()))

	require.NoError(t, repl.dispatch(context.Background(), "/select 1"))

	assert.True(t, repl.docStore.IsSelected("doc1"))
	assert.NotContains(t, out.String(), "conversation cleared")
}

func TestSelectOutOfRange(t *testing.T) {
	backend := &fakeBackend{
		files: []domainDoc.Document{{ID: "doc1", Filename: "a.pdf"}},
	}
	repl, _ := newTestRepl(backend)
	require.NoError(t, repl.docStore.LoadFiles(context.Background()))

	err := repl.dispatch(context.Background(), "/select 5")
	assert.Error(t, err)
}

func TestSwitchByIndex(t *testing.T) {
	backend := &fakeBackend{
		sessions: []domainChat.SessionSummary{
			{SessionID: "s1", CreatedAt: "1700000000000"},
			{SessionID: "s2", CreatedAt: "1700000100000"},
		},
		history: map[string][]domainChat.Message{
			"s2": {{Role: domainChat.RoleUser, Content: "earlier question"}},
		},
	}
	repl, out := newTestRepl(backend)
	require.NoError(t, repl.dispatch(context.Background(), "/sessions"))

	require.NoError(t, repl.dispatch(context.Background(), "/switch 2"))

	assert.Equal(t, "s2", repl.chatStore.SessionID())
	assert.Contains(t, out.String(), "earlier question")
}

func TestUploadRejectsNonPDF(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(tmp, []byte("hello"), 0644))

	repl, _ := newTestRepl(&fakeBackend{})

	err := repl.Upload(context.Background(), tmp)
	assert.ErrorIs(t, err, domainDoc.ErrUnsupportedType)
}

func TestUploadSendsFile(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(tmp, []byte("%PDF-1.4"), 0644))

	backend := &fakeBackend{}
	repl, out := newTestRepl(backend)

	require.NoError(t, repl.Upload(context.Background(), tmp))

	assert.Equal(t, []string{"report.pdf"}, backend.uploaded)
	assert.Contains(t, out.String(), "doc-new")
}

func TestUnknownCommand(t *testing.T) {
	repl, _ := newTestRepl(&fakeBackend{})
	err := repl.dispatch(context.Background(), "/bogus")
	assert.ErrorContains(t, err, "unknown command")
}
