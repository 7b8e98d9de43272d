// Package gigachat implements a client for the GigaChat API: OAuth token
// acquisition with a file-backed cache, chat completions and embeddings.
package gigachat

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAuthURL        = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	defaultAPIURL         = "https://gigachat.devices.sberbank.ru/api/v1"
	defaultScope          = "GIGACHAT_API_PERS"
	defaultModel          = "GigaChat"
	defaultEmbeddingModel = "Embeddings"
	defaultTokenCacheFile = "gigachat_token.json"

	requestTimeout = 60 * time.Second
)

// Config holds GigaChat connection settings.
type Config struct {
	ClientID       string
	ClientSecret   string
	Scope          string
	AuthURL        string
	APIURL         string
	Model          string
	EmbeddingModel string
	TokenCacheFile string
	// Insecure disables TLS certificate verification. The GigaChat endpoints
	// are signed by a national CA that is absent from most system trust
	// stores, matching the original deployment environment.
	Insecure bool
}

// Client talks to the GigaChat API. All calls are synchronous and make a
// single attempt; transport and status failures surface as errors so callers
// can apply their own degraded behavior.
type Client struct {
	cfg        Config
	logger     *zap.Logger
	HTTPClient *http.Client

	tokens *tokenCache
}

// New creates a GigaChat client, filling unset config fields with defaults.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Scope == "" {
		cfg.Scope = defaultScope
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = defaultEmbeddingModel
	}
	if cfg.TokenCacheFile == "" {
		cfg.TokenCacheFile = defaultTokenCacheFile
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport
	if cfg.Insecure {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}
	}

	httpClient := &http.Client{
		Timeout:   requestTimeout,
		Transport: transport,
	}

	c := &Client{
		cfg:        cfg,
		logger:     logger,
		HTTPClient: httpClient,
	}
	c.tokens = newTokenCache(c)

	return c
}

// Model returns the configured chat model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Token exposes the cached bearer credential so sibling services sharing the
// same OAuth realm (speech synthesis) can reuse it.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Token(ctx)
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

