package cmd

import (
	"context"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/voice"

	"go.uber.org/zap"
)

// voiceSession bundles the pieces of the voice interview mode. A nil session
// means the interview runs in text mode.
type voiceSession struct {
	recorder *voice.Recorder
	chain    *voice.Chain
	speaker  *voice.Speaker
	logger   *zap.Logger
}

// setupVoice assembles the voice pipeline. Any missing piece, the recorder
// binary or all recognizers, disables voice mode instead of failing the run.
func setupVoice(ctx context.Context, cfg *VoiceConfig, tokens voice.TokenSource, log *zap.Logger) *voiceSession {
	if cfg == nil {
		cfg = &VoiceConfig{}
	}

	recorder := voice.NewRecorder(cfg.Recorder, cfg.RecordSeconds, log)
	if !recorder.Available() {
		log.Warn("audio recorder not found, falling back to text mode")
		return nil
	}

	var recognizers []voice.Recognizer
	if cfg.VoskURL != "" {
		recognizers = append(recognizers, voice.NewVosk(cfg.VoskURL, log))
	}
	if cfg.Google != nil && cfg.Google.Enabled {
		google, err := voice.NewGoogle(ctx, cfg.Google.Language, log)
		if err != nil {
			log.Warn("google speech recognizer unavailable", zap.Error(err))
		} else {
			recognizers = append(recognizers, google)
		}
	}

	chain := voice.NewChain(recognizers, log)
	if chain.Empty() {
		log.Warn("no speech recognizers available, falling back to text mode")
		return nil
	}

	var speaker *voice.Speaker
	if tokens != nil {
		speaker = voice.NewSpeaker(voice.SpeakerConfig{
			Voice:  cfg.TTSVoice,
			Player: cfg.Player,
		}, tokens, log)
	}

	return &voiceSession{recorder: recorder, chain: chain, speaker: speaker, logger: log}
}

// say voices a message when a speaker is present.
func (v *voiceSession) say(ctx context.Context, text string) {
	if v == nil || v.speaker == nil {
		return
	}
	v.speaker.Say(ctx, text)
}

// listen captures one fixed-duration answer and recognizes it. An empty
// string means nothing was understood and the caller should ask again.
func (v *voiceSession) listen(ctx context.Context) string {
	audio, err := v.recorder.Capture(ctx)
	if err != nil {
		v.logger.Warn("audio capture failed", zap.Error(err))
		return ""
	}
	return v.chain.Recognize(ctx, audio)
}
