package gigachat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/logger"

	"go.uber.org/zap"
)

const (
	chatPath       = "/chat/completions"
	embeddingsPath = "/embeddings"

	defaultMaxTokens = 1024
	logPreviewLen    = 200
)

type chatRequest struct {
	Model       string       `json:"model"`
	Messages    []ai.Message `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a chat completion request and returns the assistant's text.
// A single attempt is made per call: the caller decides what a missing reply
// means for its own flow.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("gigachat auth: %w", err)
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	payload := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   maxTokens,
	}

	var response chatResponse
	if err := c.postJSON(ctx, c.cfg.APIURL+chatPath, token, payload, &response); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}

	content := response.Choices[0].Message.Content
	c.logger.Debug("gigachat completion",
		zap.Int("messages", len(messages)),
		zap.String("response_preview", logger.TruncateForLog(content, logPreviewLen)),
	)

	return content, nil
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed converts texts into embedding vectors, preserving input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("gigachat auth: %w", err)
	}

	payload := embeddingsRequest{
		Model: c.cfg.EmbeddingModel,
		Input: texts,
	}

	var response embeddingsResponse
	if err := c.postJSON(ctx, c.cfg.APIURL+embeddingsPath, token, payload, &response); err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}

	if len(response.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(response.Data), len(texts))
	}

	sort.Slice(response.Data, func(i, j int) bool {
		return response.Data[i].Index < response.Data[j].Index
	})

	vectors := make([][]float64, len(response.Data))
	for i, item := range response.Data {
		vectors[i] = item.Embedding
	}

	return vectors, nil
}

func (c *Client) postJSON(ctx context.Context, url, token string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	c.logger.Debug("make request", zap.String("url", url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
