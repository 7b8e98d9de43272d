package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultSynthesizeURL = "https://smartspeech.sber.ru/rest/v1/text:synthesize"
	defaultTTSVoice      = "Nec_24000"
)

// TokenSource supplies a bearer credential for the speech synthesis endpoint.
// The GigaChat client satisfies this: both services share one OAuth realm.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SpeakerConfig holds text-to-speech settings.
type SpeakerConfig struct {
	SynthesizeURL string
	Voice         string
	// Player is the command the synthesized audio is piped into. When
	// empty, synthesized audio is dropped and speaking becomes a no-op.
	Player []string
}

// Speaker voices assistant messages through the SaluteSpeech REST endpoint.
type Speaker struct {
	cfg        SpeakerConfig
	tokens     TokenSource
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSpeaker creates a speaker.
func NewSpeaker(cfg SpeakerConfig, tokens TokenSource, logger *zap.Logger) *Speaker {
	if cfg.SynthesizeURL == "" {
		cfg.SynthesizeURL = defaultSynthesizeURL
	}
	if cfg.Voice == "" {
		cfg.Voice = defaultTTSVoice
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Speaker{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Synthesize converts text to audio bytes.
func (s *Speaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("tts auth: %w", err)
	}

	endpoint := s.cfg.SynthesizeURL + "?" + url.Values{
		"format": {"wav16"},
		"voice":  {s.cfg.Voice},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/text")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request: bad status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// Say voices the text through the configured player. Failures are logged and
// swallowed: losing audio output must not interrupt the interview.
func (s *Speaker) Say(ctx context.Context, text string) {
	if len(s.cfg.Player) == 0 {
		s.logger.Debug("no audio player configured, skipping speech output")
		return
	}

	audio, err := s.Synthesize(ctx, text)
	if err != nil {
		s.logger.Warn("speech synthesis failed", zap.Error(err))
		return
	}

	cmd := exec.CommandContext(ctx, s.cfg.Player[0], s.cfg.Player[1:]...)
	cmd.Stdin = bytes.NewReader(audio)
	if err := cmd.Run(); err != nil {
		s.logger.Warn("audio playback failed",
			zap.String("player", s.cfg.Player[0]),
			zap.Error(err),
		)
	}
}
