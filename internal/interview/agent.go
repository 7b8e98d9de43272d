// Package interview drives a scripted-then-adaptive interview dialogue and
// owns the session transcript.
package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"

	"go.uber.org/zap"
)

// State of an interview session.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateExhausted
)

// Outcome of processing a candidate answer.
type Outcome int

const (
	// OutcomeReprompt signals that the answer was too short and the last
	// question stands; the transcript and question counter are unchanged.
	OutcomeReprompt Outcome = iota
	// OutcomeQuestion signals that the answer was accepted and a follow-up
	// question was appended to the transcript.
	OutcomeQuestion
	// OutcomeExhausted signals that the question budget is spent.
	OutcomeExhausted
)

const (
	// DefaultMaxQuestions is the question budget applied when the
	// configuration leaves it unset. The original tool drifted between 8,
	// 10 and 15 across entry points; 8 is the one it documented as a
	// setting, so it is the single authoritative default here.
	DefaultMaxQuestions = 8

	// scriptedQuestions is how many questions come from the fixed bank
	// before the agent switches to generated follow-ups.
	scriptedQuestions = 3

	// adaptiveContextTurns is how many trailing transcript entries are fed
	// to the model when generating a follow-up question.
	adaptiveContextTurns = 6

	fallbackQuestion = "Tell us more about your work experience."

	repromptMessage = "Please give a more detailed answer."

	adaptiveSystemPrompt = "You are an expert IT recruiter with a deep understanding of technical skills."
)

const welcomeTemplate = `Welcome to the interview for the %s position!

I am an HR avatar and will be asking you questions about your technical and professional competencies.
Please answer as thoroughly and honestly as you can.

Let's begin!`

const closingMessage = `Thank you for your answers! This concludes the interview.

Your results will be analyzed and we will contact you shortly with feedback.

Have a great day!`

// Config holds interview session settings.
type Config struct {
	Role           string
	RequiredSkills []string
	MaxQuestions   int
}

// Deps holds collaborators for the agent.
type Deps struct {
	Completer ai.Completer
	Logger    *zap.Logger
}

// Agent conducts a single interview session. It is not safe for concurrent
// use; one session is one goroutine's flow.
type Agent struct {
	cfg       Config
	completer ai.Completer
	logger    *zap.Logger

	state      State
	transcript ai.Transcript
	asked      int
}

// New creates an agent in the NotStarted state.
func New(cfg Config, deps Deps) *Agent {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultMaxQuestions
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		cfg:       cfg,
		completer: deps.Completer,
		logger:    logger,
	}
}

// State returns the current session state.
func (a *Agent) State() State {
	return a.state
}

// Progress returns the number of accepted answers so far.
func (a *Agent) Progress() int {
	return a.asked
}

// Transcript returns a copy of the session transcript.
func (a *Agent) Transcript() ai.Transcript {
	return a.transcript.Copy()
}

// Start opens the session: it appends the welcome message and one opening
// question drawn from the role's question bank (generic bank for unknown
// roles) and returns both messages. Calling Start on an already started
// session returns nil.
func (a *Agent) Start() []ai.Message {
	if a.state != StateNotStarted {
		return nil
	}
	a.state = StateInProgress

	welcome := ai.Message{
		Role:    ai.RoleAssistant,
		Content: fmt.Sprintf(welcomeTemplate, a.cfg.Role),
	}
	opening := ai.Message{
		Role:    ai.RoleAssistant,
		Content: randomQuestion(bankFor(a.cfg.Role)),
	}

	a.transcript = append(a.transcript, welcome, opening)

	a.logger.Info("interview started",
		zap.String("role", a.cfg.Role),
		zap.Int("max_questions", a.cfg.MaxQuestions),
	)

	return []ai.Message{welcome, opening}
}

// ProcessAnswer handles one candidate answer. Too-short answers are rejected
// without touching the counter; accepted answers are appended and followed by
// the next question until the budget is exhausted. Once exhausted, further
// calls are no-ops reporting OutcomeExhausted.
func (a *Agent) ProcessAnswer(ctx context.Context, answer string) (Outcome, string) {
	if a.state != StateInProgress {
		return OutcomeExhausted, ""
	}

	answer = strings.TrimSpace(answer)
	if len([]rune(strings.Join(strings.Fields(answer), ""))) < 3 {
		return OutcomeReprompt, repromptMessage
	}

	a.transcript = append(a.transcript, ai.Message{Role: ai.RoleUser, Content: answer})
	a.asked++

	if a.asked >= a.cfg.MaxQuestions {
		a.state = StateExhausted
		a.logger.Info("question budget exhausted", zap.Int("asked", a.asked))
		return OutcomeExhausted, ""
	}

	question := a.nextQuestion(ctx)
	a.transcript = append(a.transcript, ai.Message{Role: ai.RoleAssistant, Content: question})

	return OutcomeQuestion, question
}

// End closes the session with the fixed closing message and returns the full
// transcript. It may be called from any state.
func (a *Agent) End() ai.Transcript {
	a.transcript = append(a.transcript, ai.Message{Role: ai.RoleAssistant, Content: closingMessage})
	a.state = StateExhausted
	return a.transcript.Copy()
}

func (a *Agent) nextQuestion(ctx context.Context) string {
	if a.asked < scriptedQuestions {
		return randomQuestion(bankFor(a.cfg.Role))
	}

	question, err := a.generateQuestion(ctx)
	if err != nil {
		a.logger.Warn("generating follow-up question", zap.Error(err))
		return fallbackQuestion
	}

	return question
}

func (a *Agent) generateQuestion(ctx context.Context) (string, error) {
	if a.completer == nil {
		return "", fmt.Errorf("no chat backend configured")
	}

	prompt := a.buildAdaptivePrompt()

	raw, err := a.completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: adaptiveSystemPrompt},
		{Role: ai.RoleUser, Content: prompt},
	}, ai.Options{Temperature: 0.7})
	if err != nil {
		return "", err
	}

	question := cleanQuestion(raw)
	if question == "" {
		return "", fmt.Errorf("model returned empty question")
	}

	return question, nil
}

func (a *Agent) buildAdaptivePrompt() string {
	var history strings.Builder
	for _, message := range a.transcript.Last(adaptiveContextTurns) {
		speaker := "Candidate"
		if message.Role == ai.RoleAssistant {
			speaker = "Interviewer"
		}
		fmt.Fprintf(&history, "%s: %s\n", speaker, message.Content)
	}

	return fmt.Sprintf(`You are an experienced technical recruiter conducting an interview for the %s position.

REQUIRED SKILLS: %s

DIALOGUE HISTORY:
%s
Generate the next question. It must:
1. Be relevant to the candidate's previous answers
2. Concern technical skills or work experience
3. Help assess the fit against the requirements
4. Be specific and professional

Return ONLY the question text with no extra explanation.`,
		a.cfg.Role,
		strings.Join(a.cfg.RequiredSkills, ", "),
		history.String(),
	)
}

// cleanQuestion strips surrounding quotes and literal emphasis markers that
// models add around generated questions.
func cleanQuestion(raw string) string {
	question := strings.TrimSpace(raw)
	if strings.HasPrefix(question, `"`) && strings.HasSuffix(question, `"`) && len(question) > 1 {
		question = question[1 : len(question)-1]
	}
	question = strings.ReplaceAll(question, "**", "")
	question = strings.ReplaceAll(question, "*", "")
	return strings.TrimSpace(question)
}
