package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
)

type stubCompleter struct {
	response string
	err      error
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, messages []ai.Message, _ ai.Options) (string, error) {
	for _, message := range messages {
		if message.Role == ai.RoleUser {
			s.prompts = append(s.prompts, message.Content)
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubCompleter) Model() string { return "stub" }

func sampleTranscript() ai.Transcript {
	return ai.Transcript{
		{Role: ai.RoleAssistant, Content: "Tell me about your last project."},
		{Role: ai.RoleUser, Content: "I built a Django service with PostgreSQL."},
	}
}

func TestAnalyzeParsesVerdict(t *testing.T) {
	completer := &stubCompleter{response: "```json\n" + `{
		"overall_score": 85,
		"strengths": ["Python", "Django"],
		"weaknesses": ["Docker"],
		"skill_assessment": {"Python": "confirmed", "Docker": "missing"},
		"recommendation": "hire",
		"feedback": "Strong backend candidate."
	}` + "\n```"}

	verdict := New(completer, nil).Analyze(context.Background(), sampleTranscript(),
		[]string{"Python", "Django", "Docker"}, "Python Developer")

	if verdict.OverallScore != 85 {
		t.Fatalf("expected score 85, got %d", verdict.OverallScore)
	}
	if verdict.Recommendation != ai.RecommendationHire {
		t.Fatalf("expected hire, got %q", verdict.Recommendation)
	}
	if verdict.SkillAssessment["Docker"] != ai.SkillMissing {
		t.Fatalf("unexpected skill assessment: %+v", verdict.SkillAssessment)
	}

	prompt := completer.prompts[0]
	if !strings.Contains(prompt, "Python Developer") || !strings.Contains(prompt, "CANDIDATE: I built a Django service with PostgreSQL.") {
		t.Fatalf("prompt missing role or transcript:\n%s", prompt)
	}
}

func TestAnalyzeDecodesWeaklyTypedVerdict(t *testing.T) {
	// Models return scores as strings often enough that strict decoding
	// would throw away otherwise usable verdicts.
	completer := &stubCompleter{response: `{"overall_score": "72", "recommendation": "reject"}`}

	verdict := New(completer, nil).Analyze(context.Background(), sampleTranscript(), nil, "Data Scientist")
	if verdict.OverallScore != 72 {
		t.Fatalf("expected score 72, got %d", verdict.OverallScore)
	}
	if verdict.Recommendation != ai.RecommendationReject {
		t.Fatalf("expected reject, got %q", verdict.Recommendation)
	}
}

func TestAnalyzeDefaultsEmptyRecommendation(t *testing.T) {
	completer := &stubCompleter{response: `{"overall_score": 50}`}

	verdict := New(completer, nil).Analyze(context.Background(), sampleTranscript(), nil, "Data Scientist")
	if verdict.Recommendation != ai.RecommendationMoreInterview {
		t.Fatalf("expected additional_interview default, got %q", verdict.Recommendation)
	}
}

func TestAnalyzeFallbackOnModelError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("backend down")}

	verdict := New(completer, nil).Analyze(context.Background(), sampleTranscript(), nil, "Python Developer")
	if verdict.OverallScore != 65 {
		t.Fatalf("expected fallback score 65, got %d", verdict.OverallScore)
	}
	if verdict.Recommendation != ai.RecommendationMoreInterview {
		t.Fatalf("expected additional_interview, got %q", verdict.Recommendation)
	}
	if len(verdict.Strengths) == 0 || len(verdict.Weaknesses) == 0 {
		t.Fatal("fallback verdict must carry strengths and weaknesses")
	}
}

func TestAnalyzeFallbackOnGarbageResponse(t *testing.T) {
	completer := &stubCompleter{response: "I am unable to produce a report."}

	verdict := New(completer, nil).Analyze(context.Background(), sampleTranscript(), nil, "Python Developer")
	if verdict.OverallScore != 65 || verdict.Recommendation != ai.RecommendationMoreInterview {
		t.Fatalf("expected fallback verdict, got %+v", verdict)
	}
}

func TestFormatTranscriptTruncation(t *testing.T) {
	long := strings.Repeat("a", 2*maxTranscriptRunes)
	transcript := ai.Transcript{
		{Role: ai.RoleUser, Content: long},
		{Role: ai.RoleSystem, Content: "hidden"},
	}

	formatted := formatTranscript(transcript)
	if got := len([]rune(formatted)); got != maxTranscriptRunes {
		t.Fatalf("expected %d runes, got %d", maxTranscriptRunes, got)
	}
	if strings.Contains(formatted, "hidden") {
		t.Fatal("system messages must not appear in the formatted transcript")
	}
}
