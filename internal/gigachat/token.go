package gigachat

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// tokenSafetyMargin is subtracted from the advertised token lifetime so a
// credential is refreshed before the provider actually rejects it.
const tokenSafetyMargin = 5 * time.Minute

// tokenCache holds the current bearer credential and persists it to a file.
// The file is overwritten whole on every refresh: concurrent processes racing
// on a refresh cost at most a redundant token request, never a corrupt record.
type tokenCache struct {
	client *Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

type cachedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	// ExpiresAt in the GigaChat OAuth response is a unix timestamp in
	// milliseconds; ExpiresIn is kept for compatibility with the generic
	// form of the endpoint.
	ExpiresAt int64 `json:"expires_at"`
	ExpiresIn int64 `json:"expires_in"`
}

func newTokenCache(client *Client) *tokenCache {
	return &tokenCache{client: client}
}

// Token returns a valid bearer credential, refreshing it when the in-memory
// and file-backed copies are absent, expired or unreadable.
func (t *tokenCache) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()

	if t.token != "" && now.Before(t.expiresAt) {
		return t.token, nil
	}

	if cached, err := t.load(); err == nil && now.Before(cached.ExpiresAt) {
		t.token = cached.AccessToken
		t.expiresAt = cached.ExpiresAt
		return t.token, nil
	}

	return t.refresh(ctx)
}

func (t *tokenCache) load() (*cachedToken, error) {
	data, err := os.ReadFile(t.client.cfg.TokenCacheFile)
	if err != nil {
		return nil, err
	}

	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("parse token cache: %w", err)
	}

	if strings.TrimSpace(cached.AccessToken) == "" {
		return nil, fmt.Errorf("token cache %q has no access token", t.client.cfg.TokenCacheFile)
	}

	return &cached, nil
}

func (t *tokenCache) refresh(ctx context.Context) (string, error) {
	cfg := t.client.cfg

	form := url.Values{}
	form.Set("scope", cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.ClientID + ":" + cfg.ClientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("RqUID", cfg.ClientID)

	resp, err := t.client.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request: bad status: %s", resp.Status)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	if strings.TrimSpace(tr.AccessToken) == "" {
		return "", fmt.Errorf("token response has no access token")
	}

	expiresIn := tr.ExpiresIn
	if expiresIn == 0 && tr.ExpiresAt > 0 {
		expiresIn = tr.ExpiresAt/1000 - time.Now().Unix()
	}
	if expiresIn <= 0 {
		expiresIn = 1800
	}

	t.token = tr.AccessToken
	t.expiresAt = time.Now().Add(time.Duration(expiresIn)*time.Second - tokenSafetyMargin)

	if err := t.save(); err != nil {
		t.client.logger.Warn("saving token cache", zap.Error(err),
			zap.String("file", cfg.TokenCacheFile))
	}

	t.client.logger.Debug("refreshed gigachat token",
		zap.Time("expires_at", t.expiresAt))

	return t.token, nil
}

func (t *tokenCache) save() error {
	data, err := json.Marshal(cachedToken{
		AccessToken: t.token,
		ExpiresAt:   t.expiresAt,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(t.client.cfg.TokenCacheFile, data, 0o600)
}
