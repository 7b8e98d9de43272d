package ai

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn. Messages are immutable once appended to a transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is an append-only ordered sequence of messages. It is owned by the
// interview agent for the duration of a session and handed out only as copies.
type Transcript []Message

// Copy returns an independent copy of the transcript.
func (t Transcript) Copy() Transcript {
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Last returns up to n trailing messages of the transcript.
func (t Transcript) Last(n int) Transcript {
	if n <= 0 || len(t) <= n {
		return t
	}
	return t[len(t)-n:]
}

// Options control sampling for a single completion request.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Completer produces a single assistant reply for the given messages.
// Implementations return an error on any transport, auth or empty-response
// failure; callers own their fallback behavior.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
	Model() string
}

// Embedder converts texts into fixed-length vectors using one embedding model.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Recommendation labels produced by the transcript analysis.
const (
	RecommendationHire          = "hire"
	RecommendationReject        = "reject"
	RecommendationMoreInterview = "additional_interview"
)

// Per-skill assessment statuses.
const (
	SkillConfirmed = "confirmed"
	SkillPartial   = "partial"
	SkillMissing   = "missing"
)

// Verdict is the structured outcome of a completed interview.
type Verdict struct {
	OverallScore    int               `json:"overall_score"`
	Strengths       []string          `json:"strengths"`
	Weaknesses      []string          `json:"weaknesses"`
	SkillAssessment map[string]string `json:"skill_assessment"`
	Recommendation  string            `json:"recommendation"`
	Feedback        string            `json:"feedback"`
}

// FitResult is the outcome of screening a resume against a role.
type FitResult struct {
	Skills         []string `json:"skills"`
	MatchScore     float64  `json:"match_score"`
	Recommendation string   `json:"recommendation"`
}
