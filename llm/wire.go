package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OpenAI-compatible chat completions wire format.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// buildRequestBody serializes a Request into the chat completions format.
func buildRequestBody(req Request) ([]byte, error) {
	apiMessages := make([]chatMessage, len(req.Messages))
	for i, msg := range req.Messages {
		apiMessages[i] = chatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	wire := chatRequest{
		Model:       req.Model,
		Messages:    apiMessages,
		Temperature: req.Temperature, // nil = use endpoint default
		TopP:        req.TopP,
	}

	// Only set max_tokens if explicitly provided
	if req.MaxTokens > 0 {
		wire.MaxTokens = &req.MaxTokens
	}

	return json.Marshal(wire)
}

// parseResponse extracts the completion text from a chat completions body.
// A body that decodes but carries no usable text indicates silent API drift,
// so it is classified fatal rather than retried.
func parseResponse(body []byte) (*Response, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewFatalError(fmt.Errorf("parse completion response: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, NewFatalError(fmt.Errorf("no choices in response"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, NewFatalError(fmt.Errorf("empty completion content"))
	}

	return &Response{
		Content:      content,
		Model:        resp.Model,
		FinishReason: resp.Choices[0].FinishReason,
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// completionsURL appends the chat completions path to a base URL unless it
// is already present.
func completionsURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}
