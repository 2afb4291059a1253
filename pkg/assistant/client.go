package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to an OpenRouter-compatible chat completions API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	referer string
	title   string
	client  *http.Client
}

func NewClient(apiKey, baseURL, model, referer, title string) *Client {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		referer: referer,
		title:   title,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Configured reports whether an API key is present; handlers refuse chat
// requests rather than forwarding unauthenticated calls.
func (c *Client) Configured() bool { return c.apiKey != "" }

type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type completionReq struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

type completionResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}
	return req, nil
}

// Complete runs one non-streaming completion over messages (system prompt
// included by the caller) and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages provided")
	}
	body, _ := json.Marshal(completionReq{Model: c.model, Messages: messages})
	req, err := c.newRequest(ctx, body)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant completion: %d %s", resp.StatusCode, string(respBody))
	}
	var out completionResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", fmt.Errorf("assistant completion: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("assistant completion: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

// Stream runs a streaming completion and invokes onDelta for each content
// chunk. Returning an error from onDelta aborts the stream.
func (c *Client) Stream(ctx context.Context, messages []Message, onDelta func(delta string) error) error {
	if len(messages) == 0 {
		return errors.New("no messages provided")
	}
	body, _ := json.Marshal(completionReq{Model: c.model, Messages: messages, Stream: true})
	req, err := c.newRequest(ctx, body)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("assistant stream: %d %s", resp.StatusCode, string(respBody))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var chunk completionResp
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue // keep-alive or comment frame
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onDelta(delta); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
