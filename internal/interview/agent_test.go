package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, messages []ai.Message, _ ai.Options) (string, error) {
	s.calls++
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

func containsQuestion(bank []string, question string) bool {
	for _, q := range bank {
		if q == question {
			return true
		}
	}
	return false
}

func TestStartOpensWithWelcomeAndBankQuestion(t *testing.T) {
	agent := New(Config{Role: "Python Developer"}, Deps{})

	messages := agent.Start()
	if len(messages) != 2 {
		t.Fatalf("expected 2 opening messages, got %d", len(messages))
	}

	if !strings.Contains(messages[0].Content, "Python Developer") {
		t.Fatalf("welcome does not mention the role: %q", messages[0].Content)
	}
	if !containsQuestion(bankFor("Python Developer"), messages[1].Content) {
		t.Fatalf("opening question not from the role bank: %q", messages[1].Content)
	}

	if agent.State() != StateInProgress {
		t.Fatalf("expected StateInProgress, got %v", agent.State())
	}

	if again := agent.Start(); again != nil {
		t.Fatalf("expected nil on second Start, got %v", again)
	}
}

func TestStartUnknownRoleUsesGenericBank(t *testing.T) {
	agent := New(Config{Role: "Underwater Basket Weaver"}, Deps{})

	messages := agent.Start()
	if len(messages) != 2 {
		t.Fatalf("expected 2 opening messages, got %d", len(messages))
	}
	if !containsQuestion(banks.Generic, messages[1].Content) {
		t.Fatalf("expected a generic bank question, got %q", messages[1].Content)
	}
}

func TestProcessAnswerRepromptsOnShortAnswer(t *testing.T) {
	agent := New(Config{Role: "Python Developer"}, Deps{})
	agent.Start()

	before := len(agent.Transcript())

	for _, answer := range []string{"", "  ", "ok", "a  b"} {
		outcome, message := agent.ProcessAnswer(context.Background(), answer)
		if outcome != OutcomeReprompt {
			t.Fatalf("answer %q: expected reprompt, got %v", answer, outcome)
		}
		if message != repromptMessage {
			t.Fatalf("unexpected reprompt message: %q", message)
		}
	}

	if agent.Progress() != 0 {
		t.Fatalf("reprompt must not advance progress, got %d", agent.Progress())
	}
	if got := len(agent.Transcript()); got != before {
		t.Fatalf("reprompt must not touch the transcript: %d != %d", got, before)
	}
}

func TestProcessAnswerScriptedThenAdaptive(t *testing.T) {
	completer := &stubCompleter{response: "What Go testing practices do you follow?"}
	agent := New(Config{
		Role:           "Python Developer",
		RequiredSkills: []string{"Python", "Django"},
		MaxQuestions:   8,
	}, Deps{Completer: completer})
	agent.Start()

	// The first three accepted answers get scripted bank questions.
	for i := 0; i < 3; i++ {
		outcome, question := agent.ProcessAnswer(context.Background(), fmt.Sprintf("detailed answer %d", i))
		if outcome != OutcomeQuestion {
			t.Fatalf("answer %d: expected a question, got %v", i, outcome)
		}
		if question == "" {
			t.Fatalf("answer %d: empty question", i)
		}
		if i < 2 && !containsQuestion(bankFor("Python Developer"), question) {
			t.Fatalf("answer %d: expected a bank question, got %q", i, question)
		}
	}

	if completer.calls != 1 {
		t.Fatalf("expected the model to be consulted once after the scripted phase, got %d", completer.calls)
	}

	outcome, question := agent.ProcessAnswer(context.Background(), "another detailed answer")
	if outcome != OutcomeQuestion {
		t.Fatalf("expected a question, got %v", outcome)
	}
	if question != "What Go testing practices do you follow?" {
		t.Fatalf("unexpected generated question: %q", question)
	}

	if len(completer.prompts) == 0 || !strings.Contains(completer.prompts[len(completer.prompts)-1], "Python Developer") {
		t.Fatalf("adaptive prompt does not mention the role")
	}
}

func TestProcessAnswerFallsBackWhenGenerationFails(t *testing.T) {
	completer := &stubCompleter{err: errors.New("backend down")}
	agent := New(Config{Role: "Python Developer", MaxQuestions: 8}, Deps{Completer: completer})
	agent.Start()

	var question string
	for i := 0; i < 4; i++ {
		_, question = agent.ProcessAnswer(context.Background(), "a reasonably detailed answer")
	}

	if question != fallbackQuestion {
		t.Fatalf("expected fallback question, got %q", question)
	}
}

func TestQuestionBudgetExhaustion(t *testing.T) {
	agent := New(Config{Role: "Python Developer", MaxQuestions: 2}, Deps{})
	agent.Start()

	outcome, _ := agent.ProcessAnswer(context.Background(), "first detailed answer")
	if outcome != OutcomeQuestion {
		t.Fatalf("expected a question, got %v", outcome)
	}

	outcome, message := agent.ProcessAnswer(context.Background(), "second detailed answer")
	if outcome != OutcomeExhausted {
		t.Fatalf("expected exhaustion, got %v", outcome)
	}
	if message != "" {
		t.Fatalf("expected empty message on exhaustion, got %q", message)
	}
	if agent.State() != StateExhausted {
		t.Fatalf("expected StateExhausted, got %v", agent.State())
	}

	// Further answers are no-ops.
	before := len(agent.Transcript())
	outcome, _ = agent.ProcessAnswer(context.Background(), "third detailed answer")
	if outcome != OutcomeExhausted {
		t.Fatalf("expected exhaustion to be sticky, got %v", outcome)
	}
	if got := len(agent.Transcript()); got != before {
		t.Fatalf("exhausted session must not grow the transcript: %d != %d", got, before)
	}
}

func TestEndAppendsClosingFromAnyState(t *testing.T) {
	agent := New(Config{Role: "Data Scientist"}, Deps{})
	agent.Start()
	agent.ProcessAnswer(context.Background(), "a detailed answer about models")

	transcript := agent.End()
	last := transcript[len(transcript)-1]
	if last.Role != ai.RoleAssistant || last.Content != closingMessage {
		t.Fatalf("expected closing message, got %+v", last)
	}
	if agent.State() != StateExhausted {
		t.Fatalf("expected StateExhausted after End, got %v", agent.State())
	}

	// The returned transcript is a copy.
	transcript[0].Content = "mutated"
	if agent.Transcript()[0].Content == "mutated" {
		t.Fatal("End must return an independent copy of the transcript")
	}
}

func TestDefaultMaxQuestionsApplied(t *testing.T) {
	agent := New(Config{Role: "Python Developer"}, Deps{})
	if agent.cfg.MaxQuestions != DefaultMaxQuestions {
		t.Fatalf("expected default budget %d, got %d", DefaultMaxQuestions, agent.cfg.MaxQuestions)
	}
}

func TestCleanQuestion(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"How do you test Go code?"`, "How do you test Go code?"},
		{"**How do you test Go code?**", "How do you test Go code?"},
		{"  How do you test Go code?  ", "How do you test Go code?"},
		{"*emphasized* question", "emphasized question"},
	}

	for _, tc := range cases {
		if got := cleanQuestion(tc.raw); got != tc.want {
			t.Fatalf("cleanQuestion(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
