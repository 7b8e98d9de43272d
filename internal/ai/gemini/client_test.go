package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue []fakeChatResponse
}

type chatCallRecord struct {
	model   string
	config  *genai.GenerateContentConfig
	history []*genai.Content
	chat    *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func (f *fakeChatCreator) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, history: history, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func stubWaitFor(t *testing.T) {
	t.Helper()
	original := waitFor
	waitFor = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { waitFor = original })
}

func testClient(chats chatCreator, maxRetries int) *Client {
	return &Client{
		chats:      chats,
		model:      "gemini-2.5-flash",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
	}
}

func TestCompleteSplitsMessages(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("next question"), nil)

	client := testClient(chats, 1)
	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: "you are a recruiter"},
		{Role: ai.RoleAssistant, Content: "first question"},
		{Role: ai.RoleUser, Content: "first answer"},
		{Role: ai.RoleUser, Content: "generate the next question"},
	}

	output, err := client.Complete(context.Background(), messages, ai.Options{Temperature: 0.7})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "next question" {
		t.Fatalf("unexpected output: %q", output)
	}

	call := chats.calls[0]
	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatal("expected system instruction to be set")
	}
	if got := call.config.SystemInstruction.Parts[0].Text; got != "you are a recruiter" {
		t.Fatalf("unexpected system instruction: %q", got)
	}
	if call.config.Temperature == nil || *call.config.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", call.config.Temperature)
	}

	if len(call.history) != 2 {
		t.Fatalf("expected 2 history turns, got %d", len(call.history))
	}
	if call.history[0].Role != genai.RoleModel || call.history[1].Role != genai.RoleUser {
		t.Fatalf("unexpected history roles: %s, %s", call.history[0].Role, call.history[1].Role)
	}

	if len(call.chat.messages) != 1 || call.chat.messages[0] != "generate the next question" {
		t.Fatalf("unexpected prompt: %+v", call.chat.messages)
	}
}

func TestCompleteRequiresNonSystemMessage(t *testing.T) {
	client := testClient(&fakeChatCreator{}, 1)

	_, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleSystem, Content: "system only"},
	}, ai.Options{})
	if err == nil {
		t.Fatal("expected error for system-only messages")
	}
}

func TestCompleteRetriesOnTemporaryError(t *testing.T) {
	stubWaitFor(t)

	chats := &fakeChatCreator{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue(nil, tempErr)
	chats.enqueue(textResponse("retry ok"), nil)

	client := testClient(chats, 2)
	output, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "hello"},
	}, ai.Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestCompleteStopsAfterRetriesExhausted(t *testing.T) {
	stubWaitFor(t)

	chats := &fakeChatCreator{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue(nil, tempErr)
	chats.enqueue(nil, tempErr)

	client := testClient(chats, 2)
	_, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "hello"},
	}, ai.Options{})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestCompleteDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	chats := &fakeChatCreator{}
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	chats.enqueue(nil, quotaErr)

	client := testClient(chats, 3)
	_, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "hello"},
	}, ai.Options{})
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestCompleteDoesNotRetryOnClientError(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	client := testClient(chats, 3)
	_, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "hello"},
	}, ai.Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestRetryDelayParsesAdvertisedQuotaDelay(t *testing.T) {
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 7 seconds",
	}

	delay, retryable := retryDelay(quotaErr)
	if !retryable {
		t.Fatal("expected quota error with short delay to be retryable")
	}
	if delay != 7*time.Second {
		t.Fatalf("unexpected delay: %v", delay)
	}
}
