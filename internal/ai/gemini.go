package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/imrajeevnayan/GeminiClone/internal/common"
)

// GeminiProvider issues one generateContent call per turn. The prompt is the
// most recent user message of the history; no multi-turn context is sent.
type GeminiProvider struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client

	mu      sync.Mutex
	loading bool
	lastErr string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiGenerateReq struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerateResp struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResp struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewGeminiProvider(baseURL, model, apiKey string) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1"
	}
	if model == "" {
		model = "gemini-1.5-pro-002"
	}
	return &GeminiProvider{
		BaseURL: baseURL,
		Model:   model,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *GeminiProvider) Chat(ctx context.Context, messages []Message) (reply string, err error) {
	if strings.TrimSpace(p.APIKey) == "" {
		return "", common.Configurationf("Gemini API key is not configured. Set GEMINI_API_KEY in the environment.")
	}

	p.setLoading(true)
	defer func() {
		p.setDone(err)
	}()

	var prompt string
	found := false
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			prompt = messages[i].Content
			found = true
			break
		}
	}
	if !found {
		return "", common.Validationf("No user message found")
	}

	reqBody := geminiGenerateReq{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(p.BaseURL, "/"), p.Model, url.QueryEscape(p.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var decoded geminiErrorResp
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil && decoded.Error.Message != "" {
			return "", common.Remotef("%s", decoded.Error.Message)
		}
		return "", common.Remotef("HTTP error! status: %d", resp.StatusCode)
	}

	var decoded geminiGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", common.Protocolf("Invalid response format from Gemini API")
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", common.Protocolf("Invalid response format from Gemini API")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// Loading reports whether a call is in flight.
func (p *GeminiProvider) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// LastError returns the message of the most recent failed call, or "".
func (p *GeminiProvider) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *GeminiProvider) setLoading(v bool) {
	p.mu.Lock()
	p.loading = v
	p.lastErr = ""
	p.mu.Unlock()
}

func (p *GeminiProvider) setDone(err error) {
	p.mu.Lock()
	p.loading = false
	if err != nil {
		p.lastErr = err.Error()
	}
	p.mu.Unlock()
}
