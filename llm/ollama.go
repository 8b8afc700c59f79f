package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message roles accepted by the chat endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a conversation. Ordered slices of
// messages form the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaClient talks to an Ollama-compatible chat endpoint. It is stateless
// across calls; one client can serve any number of conversations.
type OllamaClient struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	return NewOllamaClientWithTimeout(baseURL, model, 180*time.Second)
}

func NewOllamaClientWithTimeout(baseURL, model string, timeout time.Duration) *OllamaClient {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if u == "" {
		u = "http://localhost:11434"
	}
	m := strings.TrimSpace(model)
	if m == "" {
		m = "llama3.3"
	}
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return &OllamaClient{
		BaseURL: u,
		Model:   m,
		Client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Error   string  `json:"error,omitempty"`
}

// Chat posts the conversation and returns the assistant text. Failures come
// back as *TransportError with the kind set; nothing is retried.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("chat: no messages")
	}

	b, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		kind := KindConnect
		if isTimeout(err) {
			kind = KindTimeout
		}
		return "", &TransportError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := KindConnect
		if isTimeout(err) {
			kind = KindTimeout
		}
		return "", &TransportError{Kind: kind, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("chat http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &TransportError{Kind: KindDecode, Err: fmt.Errorf("parse response: %w", err)}
	}
	if out.Error != "" {
		return "", &TransportError{Kind: KindDecode, Err: fmt.Errorf("chat error: %s", out.Error)}
	}
	if out.Message.Content == "" {
		return "", &TransportError{Kind: KindDecode, Err: fmt.Errorf("response missing message content")}
	}
	return out.Message.Content, nil
}
