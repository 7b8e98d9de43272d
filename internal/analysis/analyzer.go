// Package analysis scores a finished interview transcript into a structured
// verdict for HR consumption.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/llmjson"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// maxTranscriptRunes bounds the formatted transcript embedded in the prompt.
const maxTranscriptRunes = 3000

const analysisSystemPrompt = "You are a senior HR analyst and technical recruiter. You analyze interviews and give expert assessments."

// Analyzer produces an interview verdict from a transcript.
type Analyzer struct {
	completer ai.Completer
	logger    *zap.Logger
}

// New creates an analyzer.
func New(completer ai.Completer, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{completer: completer, logger: logger}
}

// Analyze asks the chat model for a structured verdict over the transcript.
// Any failure, from transport to malformed JSON, yields the deterministic
// fallback verdict; the call is never retried. A consumer therefore cannot
// distinguish a broken backend from a mediocre candidate by shape alone.
func (a *Analyzer) Analyze(ctx context.Context, transcript ai.Transcript, required []string, role string) *ai.Verdict {
	conversation := formatTranscript(transcript)

	raw, err := a.completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: analysisSystemPrompt},
		{Role: ai.RoleUser, Content: buildPrompt(conversation, required, role)},
	}, ai.Options{Temperature: 0.3})
	if err != nil {
		a.logger.Warn("interview analysis via model failed, using fallback verdict", zap.Error(err))
		return fallbackVerdict()
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		a.logger.Warn("unparseable analysis response, using fallback verdict", zap.Error(err))
		return fallbackVerdict()
	}

	return verdict
}

func buildPrompt(conversation string, required []string, role string) string {
	return fmt.Sprintf(`Analyze the technical interview below and produce a detailed report for HR.

VACANCY REQUIREMENTS:
Position: %s
Key skills: %s

INTERVIEW TRANSCRIPT:
%s

GENERATE THE REPORT AS A SINGLE JSON OBJECT:
{
    "overall_score": 85,
    "strengths": ["skill1", "skill2", "skill3"],
    "weaknesses": ["gap1", "gap2"],
    "skill_assessment": {
        "Python": "confirmed",
        "Django": "partial",
        "PostgreSQL": "missing"
    },
    "recommendation": "hire",
    "feedback": "Detailed feedback for the candidate"
}

overall_score is 0-100; recommendation is one of hire, reject, additional_interview.
Be objective and professional. Consider technical skills, soft skills and the coherence of the answers.`,
		role,
		strings.Join(required, ", "),
		conversation,
	)
}

// formatTranscript renders the dialogue as INTERVIEWER:/CANDIDATE: lines,
// truncated to keep the prompt bounded.
func formatTranscript(transcript ai.Transcript) string {
	lines := make([]string, 0, len(transcript))
	for _, message := range transcript {
		switch message.Role {
		case ai.RoleAssistant:
			lines = append(lines, "INTERVIEWER: "+message.Content)
		case ai.RoleUser:
			lines = append(lines, "CANDIDATE: "+message.Content)
		}
	}

	formatted := strings.Join(lines, "\n")
	if runes := []rune(formatted); len(runes) > maxTranscriptRunes {
		formatted = string(runes[:maxTranscriptRunes])
	}

	return formatted
}

func parseVerdict(raw string) (*ai.Verdict, error) {
	object, ok := llmjson.ExtractObject(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(object), &data); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}

	// Models are sloppy about value types (scores as strings, statuses in
	// mixed case), so decode weakly instead of failing the whole verdict.
	var verdict ai.Verdict
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &verdict,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}

	if strings.TrimSpace(verdict.Recommendation) == "" {
		verdict.Recommendation = ai.RecommendationMoreInterview
	}

	return &verdict, nil
}

// fallbackVerdict is the deterministic mid-range verdict returned whenever
// the model path fails.
func fallbackVerdict() *ai.Verdict {
	return &ai.Verdict{
		OverallScore:    65,
		Strengths:       []string{"Communication skills", "Technical literacy"},
		Weaknesses:      []string{"Insufficient hands-on experience", "Needs additional assessment"},
		SkillAssessment: map[string]string{},
		Recommendation:  ai.RecommendationMoreInterview,
		Feedback:        "The candidate demonstrates baseline knowledge, but an additional technical assessment of their skills is required.",
	}
}
