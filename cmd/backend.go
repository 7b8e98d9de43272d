package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai/gemini"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/gigachat"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/logger"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/secrets"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/voice"

	"go.uber.org/zap"
)

// chatBackend bundles the capabilities of the selected chat provider. The
// token source is set only for GigaChat, whose OAuth credential is shared
// with the speech synthesis endpoint.
type chatBackend struct {
	completer ai.Completer
	embedder  ai.Embedder
	tokens    voice.TokenSource
}

func newChatBackend(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*chatBackend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ai configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "gigachat":
		return newGigaChatBackend(cfg.GigaChat, log)
	case "gemini":
		return newGeminiBackend(ctx, cfg.Gemini, log)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newGigaChatBackend(cfg *GigaChatConfig, log *zap.Logger) (*chatBackend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gigachat configuration is required")
	}

	secret, err := secrets.Load(secrets.Source{
		Name: "gigachat client secret",
		File: cfg.ClientSecretFile,
		Env:  "GIGACHAT_CLIENT_SECRET",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gigachat.client-secret-file or GIGACHAT_CLIENT_SECRET)", err)
	}

	client := gigachat.New(gigachat.Config{
		ClientID:       cfg.ClientID,
		ClientSecret:   secret,
		Scope:          cfg.Scope,
		AuthURL:        cfg.AuthURL,
		APIURL:         cfg.APIURL,
		Model:          cfg.Model,
		EmbeddingModel: cfg.EmbeddingModel,
		TokenCacheFile: cfg.TokenCacheFile,
		Insecure:       cfg.Insecure,
	}, logger.WithCommonFields(log, "gigachat", cfg.Model))

	return &chatBackend{completer: client, embedder: client, tokens: client}, nil
}

func newGeminiBackend(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (*chatBackend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gemini configuration is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	client, err := gemini.New(ctx, apiKey, cfg.Model, cfg.MaxRetries,
		logger.WithCommonFields(log, "gemini", cfg.Model))
	if err != nil {
		return nil, err
	}

	return &chatBackend{completer: client, embedder: client}, nil
}
