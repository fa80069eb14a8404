// Package chat wires user intent to the conversation store and the response
// generator and derives the view state the client renders.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/imrajeevnayan/GeminiClone/internal/ai"
	"github.com/imrajeevnayan/GeminiClone/internal/common"
	"github.com/imrajeevnayan/GeminiClone/internal/conversation"
)

// ErrConversationBusy is returned when a second message is sent to a
// conversation whose generation call is still outstanding.
var ErrConversationBusy = errors.New("a response is already being generated for this conversation")

const missingKeyMessage = "API key not configured. Please add your Gemini API key to the environment as GEMINI_API_KEY."

type Service struct {
	conversations *conversation.Store
	provider      ai.Provider
	keyConfigured bool
	logger        zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(conversations *conversation.Store, provider ai.Provider, keyConfigured bool, logger zerolog.Logger) *Service {
	return &Service{
		conversations: conversations,
		provider:      provider,
		keyConfigured: keyConfigured,
		logger:        logger,
		inFlight:      make(map[string]struct{}),
	}
}

// SendMessage appends the user's message to the current conversation (creating
// one if none is current) and appends the generated reply, or a visible
// assistant-role error message if generation fails. Generation failures are
// never returned to the caller; the conversation log always shows why a turn
// failed. The reply targets the conversation captured at send time, even if
// the current pointer moves while the call is in flight.
func (s *Service) SendMessage(ctx context.Context, content string) (string, error) {
	conversationID := s.conversations.CurrentID()
	if conversationID == "" {
		conversationID = s.conversations.Create(ctx, "")
	}

	if !s.keyConfigured {
		s.append(ctx, conversationID, conversation.RoleAssistant, missingKeyMessage)
		return conversationID, nil
	}

	if err := s.acquire(conversationID); err != nil {
		return conversationID, err
	}
	defer s.release(conversationID)

	if err := s.append(ctx, conversationID, conversation.RoleUser, content); err != nil {
		return conversationID, err
	}

	conv, ok := s.conversations.Get(conversationID)
	var history []ai.Message
	if ok {
		history = make([]ai.Message, 0, len(conv.Messages))
		for _, m := range conv.Messages {
			history = append(history, ai.Message{Role: string(m.Role), Content: m.Content})
		}
	} else {
		// current pointer was dangling; the provider still needs the prompt
		history = []ai.Message{{Role: string(conversation.RoleUser), Content: content}}
	}

	reply, err := s.provider.Chat(ctx, history)
	if err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("generation failed")
		reply = "Sorry, I encountered an error: " + err.Error()
	}
	if err := s.append(ctx, conversationID, conversation.RoleAssistant, reply); err != nil {
		return conversationID, err
	}
	return conversationID, nil
}

// NewChat creates a fresh conversation and makes it current.
func (s *Service) NewChat(ctx context.Context) string {
	return s.conversations.Create(ctx, "")
}

func (s *Service) SelectConversation(id string) {
	s.conversations.SetCurrentID(id)
}

func (s *Service) DeleteConversation(ctx context.Context, id string) {
	s.conversations.Delete(ctx, id)
}

// ViewState is the derived state the client renders.
type ViewState struct {
	Conversations    []conversation.Conversation `json:"conversations"`
	CurrentID        string                      `json:"currentConversationId,omitempty"`
	Current          *conversation.Conversation  `json:"currentConversation,omitempty"`
	Loading          bool                        `json:"isLoading"`
	LastError        string                      `json:"error,omitempty"`
	APIKeyConfigured bool                        `json:"apiKeyConfigured"`
}

func (s *Service) State() ViewState {
	state := ViewState{
		Conversations:    s.conversations.List(),
		CurrentID:        s.conversations.CurrentID(),
		APIKeyConfigured: s.keyConfigured,
	}
	if current, ok := s.conversations.Current(); ok {
		state.Current = &current
	}
	if sr, ok := s.provider.(ai.StatusReporter); ok {
		state.Loading = sr.Loading()
		state.LastError = sr.LastError()
	}
	return state
}

func (s *Service) acquire(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[conversationID]; busy {
		return ErrConversationBusy
	}
	s.inFlight[conversationID] = struct{}{}
	return nil
}

func (s *Service) release(conversationID string) {
	s.mu.Lock()
	delete(s.inFlight, conversationID)
	s.mu.Unlock()
}

func (s *Service) append(ctx context.Context, conversationID string, role conversation.Role, content string) error {
	id, err := common.NewULID()
	if err != nil {
		return err
	}
	s.conversations.AddMessage(ctx, conversationID, conversation.Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return nil
}
