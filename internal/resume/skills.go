package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/llmjson"

	"go.uber.org/zap"
)

// maxSkillTextRunes bounds how much resume text is embedded in the prompt.
const maxSkillTextRunes = 2000

// fallbackVocabulary is scanned when the model gives no parseable answer.
var fallbackVocabulary = []string{
	"Python", "Java", "SQL", "JavaScript", "Linux", "Docker",
	"Kubernetes", "AWS", "Git", "React", "PostgreSQL", "MongoDB",
}

const skillSystemPrompt = "You are an expert resume analyst. Reply with JSON only."

// LLMSkillExtractor pulls skill labels out of free text through the chat
// backend, whichever provider is configured.
type LLMSkillExtractor struct {
	completer ai.Completer
	logger    *zap.Logger
}

// NewLLMSkillExtractor creates an extractor over the given chat backend.
func NewLLMSkillExtractor(completer ai.Completer, logger *zap.Logger) *LLMSkillExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMSkillExtractor{completer: completer, logger: logger}
}

// ExtractSkills pulls technical skill labels out of free resume text. It never
// fails: when the model is unavailable or returns no parseable JSON, it falls
// back to a case-insensitive scan over a fixed skill vocabulary.
func (e *LLMSkillExtractor) ExtractSkills(ctx context.Context, text string) []string {
	excerpt := text
	if runes := []rune(excerpt); len(runes) > maxSkillTextRunes {
		excerpt = string(runes[:maxSkillTextRunes])
	}

	prompt := fmt.Sprintf(
		"Extract the technical skills from the text. Return ONLY JSON: {\"skills\": [\"skill1\", \"skill2\"]}\n\nText: %s",
		excerpt,
	)

	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: skillSystemPrompt},
		{Role: ai.RoleUser, Content: prompt},
	}

	response, err := e.completer.Complete(ctx, messages, ai.Options{Temperature: 0.3})
	if err != nil {
		e.logger.Warn("skill extraction via model failed, using fallback vocabulary", zap.Error(err))
		return fallbackSkills(text)
	}

	object, ok := llmjson.ExtractObject(response)
	if !ok {
		return fallbackSkills(text)
	}

	var parsed struct {
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal([]byte(object), &parsed); err != nil {
		e.logger.Debug("unparseable skills response", zap.Error(err))
		return fallbackSkills(text)
	}

	skills := make([]string, 0, len(parsed.Skills))
	for _, skill := range parsed.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func fallbackSkills(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0, len(fallbackVocabulary))
	for _, skill := range fallbackVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}
