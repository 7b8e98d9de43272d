// Package gemini provides the Gemini-backed chat provider. It is selected
// with the ai.provider configuration key and satisfies the same completion
// and embedding contracts as the default GigaChat backend.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/logger"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
	defaultMaxRetries     = 2

	retryBackoff = 2 * time.Second
	// maxQuotaDelay caps how long a quota-advertised retry delay may be
	// before the attempt is abandoned instead of waited out.
	maxQuotaDelay = 30 * time.Second

	logPreviewLen = 200
)

var waitFor = utils.WaitFor

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	client *genai.Client
}

func (g *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return g.client.Chats.Create(ctx, model, config, history)
}

type embedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type genaiModels struct {
	client *genai.Client
}

func (g *genaiModels) EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	return g.client.Models.EmbedContent(ctx, model, contents, config)
}

// Client implements ai.Completer and ai.Embedder against the Gemini API.
type Client struct {
	chats      chatCreator
	models     embedder
	model      string
	embedModel string
	maxRetries int
	logger     *zap.Logger
}

// New creates a Gemini client for the given API key and model.
func New(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		chats:      &genaiChats{client: client},
		models:     &genaiModels{client: client},
		model:      model,
		embedModel: defaultEmbeddingModel,
		maxRetries: maxRetries,
		logger:     log,
	}, nil
}

// Model returns the configured chat model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the messages as a single-turn chat. The first system message
// becomes the system instruction; earlier turns become chat history and the
// final message is sent as the prompt.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	system, history, prompt, err := splitMessages(messages)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		chat, err := c.chats.Create(ctx, c.model, config, history)
		if err != nil {
			return "", fmt.Errorf("create chat: %w", err)
		}

		resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
		if err == nil {
			output := collectText(resp)
			if output == "" {
				return "", errors.New("gemini api returned empty response")
			}

			c.logger.Debug("gemini completion",
				zap.Int("attempt", attempt),
				zap.String("response_preview", logger.TruncateForLog(output, logPreviewLen)),
			)

			return output, nil
		}

		lastErr = err

		delay, retryable := retryDelay(err)
		if !retryable || attempt == c.maxRetries {
			break
		}

		c.logger.Warn("temporary gemini error, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if waitErr := waitFor(ctx, delay); waitErr != nil {
			return "", waitErr
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// Embed converts texts into embedding vectors, preserving input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}

	resp, err := c.models.EmbedContent(ctx, c.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed content: got %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, embedding := range resp.Embeddings {
		if embedding == nil {
			return nil, fmt.Errorf("embed content: empty vector at index %d", i)
		}
		vector := make([]float64, len(embedding.Values))
		for j, v := range embedding.Values {
			vector[j] = float64(v)
		}
		vectors[i] = vector
	}

	return vectors, nil
}

func splitMessages(messages []ai.Message) (system string, history []*genai.Content, prompt string, err error) {
	var turns []ai.Message
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			if system == "" {
				system = message.Content
			}
			continue
		}
		turns = append(turns, message)
	}

	if len(turns) == 0 {
		return "", nil, "", errors.New("at least one non-system message is required")
	}

	for _, turn := range turns[:len(turns)-1] {
		role := genai.RoleUser
		if turn.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}

	return system, history, turns[len(turns)-1].Content, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

var quotaDelayPattern = regexp.MustCompile(`retry after (\d+) second`)

// retryDelay reports whether the error is worth retrying and after how long.
// Server-side errors get a fixed backoff; quota errors are retried only when
// the advertised delay is short enough to wait out.
func retryDelay(err error) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	if apiErr.Code >= http.StatusInternalServerError {
		return retryBackoff, true
	}

	if apiErr.Code == http.StatusTooManyRequests {
		match := quotaDelayPattern.FindStringSubmatch(apiErr.Message)
		if match == nil {
			return retryBackoff, true
		}
		seconds, convErr := strconv.Atoi(match[1])
		if convErr != nil {
			return retryBackoff, true
		}
		delay := time.Duration(seconds) * time.Second
		if delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	}

	return 0, false
}
