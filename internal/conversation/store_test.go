package conversation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/imrajeevnayan/GeminiClone/internal/blob"
)

func newTestStore(t *testing.T) (*Store, blob.Store) {
	t.Helper()
	blobs, err := blob.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewStore(context.Background(), blobs, zerolog.Nop()), blobs
}

func userMsg(id, content string) Message {
	return Message{ID: id, Role: RoleUser, Content: content, Timestamp: time.Now()}
}

func TestCreate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := s.Create(ctx, "")
	second := s.Create(ctx, "")

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, second, list[0].ID, "newest conversation comes first")
	require.Equal(t, first, list[1].ID)
	require.Empty(t, list[0].Messages)
	require.Equal(t, "New Chat", list[0].Title)
	require.Equal(t, second, s.CurrentID(), "new conversation becomes current")

	titled := s.Create(ctx, "Scratchpad")
	conv, ok := s.Get(titled)
	require.True(t, ok)
	require.Equal(t, "Scratchpad", conv.Title)
}

func TestAddMessage_AppendOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	id := s.Create(ctx, "")

	for _, content := range []string{"one", "two", "three"} {
		s.AddMessage(ctx, id, userMsg(content, content))
	}

	conv, ok := s.Get(id)
	require.True(t, ok)
	require.Len(t, conv.Messages, 3)
	for i, want := range []string{"one", "two", "three"} {
		require.Equal(t, want, conv.Messages[i].Content)
	}
}

func TestAddMessage_UnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Create(ctx, "")

	s.AddMessage(ctx, "no-such-id", userMsg("1", "hello"))

	for _, c := range s.List() {
		require.Empty(t, c.Messages)
	}
}

func TestTitleDerivation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	short := s.Create(ctx, "")
	s.AddMessage(ctx, short, userMsg("1", "Hello there"))
	conv, _ := s.Get(short)
	require.Equal(t, "Hello there", conv.Title)

	long := s.Create(ctx, "")
	content := strings.Repeat("a", 60)
	s.AddMessage(ctx, long, userMsg("1", content))
	conv, _ = s.Get(long)
	require.Equal(t, strings.Repeat("a", 50)+"...", conv.Title)

	// only the first user message retitles
	s.AddMessage(ctx, short, userMsg("2", "Something else"))
	conv, _ = s.Get(short)
	require.Equal(t, "Hello there", conv.Title)

	// an assistant-first conversation keeps the default title
	assistantFirst := s.Create(ctx, "")
	s.AddMessage(ctx, assistantFirst, Message{ID: "1", Role: RoleAssistant, Content: "Hi", Timestamp: time.Now()})
	conv, _ = s.Get(assistantFirst)
	require.Equal(t, "New Chat", conv.Title)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := s.Create(ctx, "")
	b := s.Create(ctx, "")
	require.Equal(t, b, s.CurrentID())

	// deleting a non-current conversation leaves current unchanged
	s.Delete(ctx, a)
	require.Equal(t, b, s.CurrentID())
	require.Len(t, s.List(), 1)

	// deleting the current conversation clears the pointer
	s.Delete(ctx, b)
	require.Equal(t, "", s.CurrentID())
	_, ok := s.Current()
	require.False(t, ok)

	// deleting an unknown id is a no-op
	s.Delete(ctx, "gone")
	require.Empty(t, s.List())
}

func TestSetCurrentID_Permissive(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetCurrentID("dangling")
	require.Equal(t, "dangling", s.CurrentID())
	_, ok := s.Current()
	require.False(t, ok)
}

func TestPersistenceRoundTrip(t *testing.T) {
	blobs, err := blob.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	s1 := NewStore(ctx, blobs, zerolog.Nop())
	a := s1.Create(ctx, "")
	b := s1.Create(ctx, "")
	s1.AddMessage(ctx, a, userMsg("m1", "Hello there"))
	s1.AddMessage(ctx, a, Message{ID: "m2", Role: RoleAssistant, Content: "Hi!", Timestamp: time.Now()})

	want := s1.List()

	s2 := NewStore(ctx, blobs, zerolog.Nop())
	got := s2.List()
	require.Len(t, got, 2)
	require.Equal(t, b, got[0].ID)
	require.Equal(t, a, got[1].ID)
	require.Equal(t, "Hello there", got[1].Title)
	require.Len(t, got[1].Messages, 2)
	for i := range want {
		require.Equal(t, want[i].ID, got[i].ID)
		require.Equal(t, want[i].Title, got[i].Title)
		require.WithinDuration(t, want[i].CreatedAt, got[i].CreatedAt, time.Millisecond)
		require.WithinDuration(t, want[i].UpdatedAt, got[i].UpdatedAt, time.Millisecond)
		for j := range want[i].Messages {
			require.Equal(t, want[i].Messages[j].ID, got[i].Messages[j].ID)
			require.Equal(t, want[i].Messages[j].Role, got[i].Messages[j].Role)
			require.Equal(t, want[i].Messages[j].Content, got[i].Messages[j].Content)
			require.WithinDuration(t, want[i].Messages[j].Timestamp, got[i].Messages[j].Timestamp, time.Millisecond)
		}
	}

	// the current pointer is in-memory state, not persisted
	require.Equal(t, "", s2.CurrentID())
}

func TestCorruptDataTreatedAsEmpty(t *testing.T) {
	blobs, err := blob.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, blobs.Save(ctx, "gemini-clone-conversations", []byte("{{not json")))
	s := NewStore(ctx, blobs, zerolog.Nop())
	require.Empty(t, s.List())

	// the store stays usable
	id := s.Create(ctx, "")
	require.NotEmpty(t, id)
}
