package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// VoskRecognizer sends captured audio to a locally running vosk-server for
// offline recognition. It is the first recognizer in the chain so speech
// stays on the machine when the local model is available.
type VoskRecognizer struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewVosk creates a recognizer for the vosk-server HTTP endpoint at url.
func NewVosk(url string, logger *zap.Logger) *VoskRecognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoskRecognizer{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (v *VoskRecognizer) Name() string { return "vosk" }

// Recognize posts raw WAV audio and returns the recognized text.
func (v *VoskRecognizer) Recognize(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vosk request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vosk request: bad status: %s", resp.Status)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode vosk response: %w", err)
	}

	return result.Text, nil
}
