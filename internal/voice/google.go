package voice

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
)

const captureSampleRate = 16000

// GoogleRecognizer performs cloud speech recognition via Google Cloud
// Speech-to-Text. Credentials come from GOOGLE_APPLICATION_CREDENTIALS.
type GoogleRecognizer struct {
	client   *speech.Client
	language string
	logger   *zap.Logger
}

// NewGoogle creates a Google Cloud recognizer for the given language code.
func NewGoogle(ctx context.Context, language string, logger *zap.Logger) (*GoogleRecognizer, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}

	if language = strings.TrimSpace(language); language == "" {
		language = "ru-RU"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GoogleRecognizer{client: client, language: language, logger: logger}, nil
}

func (g *GoogleRecognizer) Name() string { return "google" }

// Recognize runs a synchronous recognition request over the captured audio.
func (g *GoogleRecognizer) Recognize(ctx context.Context, audio []byte) (string, error) {
	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: captureSampleRate,
			LanguageCode:    g.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}

// Close releases the underlying gRPC connection.
func (g *GoogleRecognizer) Close() error {
	return g.client.Close()
}
