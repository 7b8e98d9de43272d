// Package voice provides the optional speech loop: fixed-duration audio
// capture, an ordered chain of speech recognizers and text-to-speech. Every
// failure in this package degrades to silence or an empty transcript; voice
// problems never abort an interview.
package voice

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Recognizer converts captured audio into text. An empty transcript with a
// nil error means the recognizer understood nothing.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, audio []byte) (string, error)
}

// Chain tries recognizers strictly in sequence and returns the first
// non-empty transcript. Recognizer failures are logged and skipped.
type Chain struct {
	recognizers []Recognizer
	logger      *zap.Logger
}

// NewChain creates a recognizer chain.
func NewChain(recognizers []Recognizer, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{recognizers: recognizers, logger: logger}
}

// Empty reports whether the chain has no recognizers at all.
func (c *Chain) Empty() bool {
	return len(c.recognizers) == 0
}

// Recognize returns the first non-empty transcript produced by the chain, or
// an empty string when every recognizer fails or hears nothing.
func (c *Chain) Recognize(ctx context.Context, audio []byte) string {
	for _, recognizer := range c.recognizers {
		text, err := recognizer.Recognize(ctx, audio)
		if err != nil {
			c.logger.Warn("speech recognition failed",
				zap.String("recognizer", recognizer.Name()),
				zap.Error(err),
			)
			continue
		}

		if text = strings.TrimSpace(text); text != "" {
			c.logger.Debug("speech recognized",
				zap.String("recognizer", recognizer.Name()),
			)
			return text
		}
	}

	return ""
}
