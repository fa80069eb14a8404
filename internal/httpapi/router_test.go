package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/imrajeevnayan/GeminiClone/internal/ai"
	"github.com/imrajeevnayan/GeminiClone/internal/auth"
	"github.com/imrajeevnayan/GeminiClone/internal/blob"
	"github.com/imrajeevnayan/GeminiClone/internal/chat"
	"github.com/imrajeevnayan/GeminiClone/internal/config"
	"github.com/imrajeevnayan/GeminiClone/internal/conversation"
)

type staticProvider struct{ reply string }

func (p *staticProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	_ = messages
	return p.reply, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		JWTSecret:      "test-secret",
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	blobs, err := blob.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := zerolog.Nop()
	authStore := auth.NewStore(context.Background(), blobs, logger)
	convs := conversation.NewStore(context.Background(), blobs, logger)
	chatSvc := chat.NewService(convs, &staticProvider{reply: "Hello back"}, true, logger)

	return NewRouter(cfg, authStore, convs, chatSvc)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestSignupLoginAndChatFlow(t *testing.T) {
	r := newTestRouter(t)

	// unauthenticated chat is rejected
	status, _ := doJSON(t, r, http.MethodPost, "/chat/messages", "", `{"message":"hi"}`)
	require.Equal(t, http.StatusUnauthorized, status)

	// signup
	status, env := doJSON(t, r, http.MethodPost, "/signup", "",
		`{"email":"a@example.com","name":"Alice","password":"abcdef","confirmPassword":"abcdef"}`)
	require.Equal(t, http.StatusOK, status)

	var signupData struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &signupData))
	require.NotEmpty(t, signupData.Token)
	require.Equal(t, "a@example.com", signupData.User.Email)

	// duplicate signup conflicts
	status, _ = doJSON(t, r, http.MethodPost, "/signup", "",
		`{"email":"a@example.com","name":"Alice","password":"abcdef","confirmPassword":"abcdef"}`)
	require.Equal(t, http.StatusConflict, status)

	// send a message
	status, env = doJSON(t, r, http.MethodPost, "/chat/messages", signupData.Token, `{"message":"Hello"}`)
	require.Equal(t, http.StatusOK, status)

	var sendData struct {
		ConversationID string `json:"conversation_id"`
		Conversation   struct {
			Title    string `json:"title"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		} `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sendData))
	require.NotEmpty(t, sendData.ConversationID)
	require.Equal(t, "Hello", sendData.Conversation.Title)
	require.Len(t, sendData.Conversation.Messages, 2)
	require.Equal(t, "assistant", sendData.Conversation.Messages[1].Role)
	require.Equal(t, "Hello back", sendData.Conversation.Messages[1].Content)

	// state reflects the conversation
	status, env = doJSON(t, r, http.MethodGet, "/state", signupData.Token, "")
	require.Equal(t, http.StatusOK, status)
	var state struct {
		Conversations []struct {
			ID string `json:"id"`
		} `json:"conversations"`
		CurrentConversationID string `json:"currentConversationId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Len(t, state.Conversations, 1)
	require.Equal(t, sendData.ConversationID, state.CurrentConversationID)

	// delete the conversation
	status, _ = doJSON(t, r, http.MethodDelete, "/conversations/"+sendData.ConversationID, signupData.Token, "")
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, r, http.MethodGet, "/state", signupData.Token, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Empty(t, state.Conversations)
	require.Empty(t, state.CurrentConversationID)
}

func TestLoginErrors(t *testing.T) {
	r := newTestRouter(t)

	status, env := doJSON(t, r, http.MethodPost, "/login", "", `{"email":"nobody@example.com","password":"x"}`)
	require.Equal(t, http.StatusNotFound, status)
	require.Contains(t, env.Message, "User not found")

	status, _ = doJSON(t, r, http.MethodPost, "/signup", "",
		`{"email":"a@example.com","name":"Alice","password":"abcdef","confirmPassword":"abcdef"}`)
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, r, http.MethodPost, "/login", "", `{"email":"a@example.com","password":""}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, env.Message, "password")

	status, _ = doJSON(t, r, http.MethodPost, "/login", "", `{"email":"a@example.com","password":"anything"}`)
	require.Equal(t, http.StatusOK, status)
}
