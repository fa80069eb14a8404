// Package conversation owns the ordered conversation collection and its
// persistence. The whole collection is written back to storage after every
// mutation; it is read once when the store is constructed.
package conversation

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imrajeevnayan/GeminiClone/internal/blob"
)

const storageKey = "gemini-clone-conversations"

const (
	defaultTitle  = "New Chat"
	titleMaxRunes = 50
)

type Store struct {
	blobs  blob.Store
	logger zerolog.Logger

	mu            sync.Mutex
	conversations []*Conversation // newest first
	currentID     string
}

// NewStore loads the persisted collection. Malformed stored data is logged and
// treated as an empty collection.
func NewStore(ctx context.Context, blobs blob.Store, logger zerolog.Logger) *Store {
	s := &Store{blobs: blobs, logger: logger}

	data, err := blobs.Load(ctx, storageKey)
	if err != nil {
		if err != blob.ErrNoBlob {
			logger.Warn().Err(err).Str("key", storageKey).Msg("failed to load conversations")
		}
		return s
	}
	if err := json.Unmarshal(data, &s.conversations); err != nil {
		logger.Warn().Err(err).Str("key", storageKey).Msg("discarding corrupt conversation data")
		s.conversations = nil
	}
	return s
}

// Create inserts a new empty conversation at the front of the collection and
// makes it current. The returned id never collides with an existing one.
func (s *Store) Create(ctx context.Context, title string) string {
	if title == "" {
		title = defaultTitle
	}
	now := time.Now()
	conv := &Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append([]*Conversation{conv}, s.conversations...)
	s.currentID = conv.ID
	s.persist(ctx)
	return conv.ID
}

// AddMessage appends msg to the named conversation and bumps its updated
// timestamp. The first user message also sets the conversation title. Unknown
// ids are silently skipped: the caller may race a deletion.
func (s *Store) AddMessage(ctx context.Context, conversationID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(conversationID)
	if conv == nil {
		return
	}

	if len(conv.Messages) == 0 && msg.Role == RoleUser {
		conv.Title = deriveTitle(msg.Content)
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = time.Now()
	s.persist(ctx)
}

// Delete removes the conversation. Deleting the current conversation clears
// the current pointer; deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.conversations[:0]
	removed := false
	for _, c := range s.conversations {
		if c.ID == conversationID {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return
	}
	s.conversations = kept
	if s.currentID == conversationID {
		s.currentID = ""
	}
	s.persist(ctx)
}

// SetCurrentID moves the current pointer. The id is not checked against the
// collection; callers handle a dangling pointer.
func (s *Store) SetCurrentID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID = id
}

func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Current returns the conversation the current pointer refers to, if any.
func (s *Store) Current() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.find(s.currentID)
	if conv == nil {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// Get returns a copy of the named conversation.
func (s *Store) Get(conversationID string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.find(conversationID)
	if conv == nil {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// List returns copies of all conversations, newest-created first.
func (s *Store) List() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c.clone())
	}
	return out
}

func (s *Store) find(id string) *Conversation {
	if id == "" {
		return nil
	}
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// persist is called with s.mu held. Storage failures are logged, not
// propagated: mutations themselves never fail.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.conversations)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode conversations")
		return
	}
	if err := s.blobs.Save(ctx, storageKey, data); err != nil {
		s.logger.Error().Err(err).Str("key", storageKey).Msg("failed to persist conversations")
	}
}

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxRunes {
		return content
	}
	return string(runes[:titleMaxRunes]) + "..."
}
