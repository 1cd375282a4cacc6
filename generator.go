package studypartner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Generation parameters for the chat-completion call.
const (
	generationModel       = openai.GPT4oMini
	generationTemperature = 0.5
	generationMaxTokens   = 2000
	requestTimeout        = 30 * time.Second
)

// QuizGenerator turns study text into a shuffled multiple-choice quiz with a
// single blocking chat-completion call.
type QuizGenerator struct {
	client *openai.Client
	trace  *TraceLog
}

// NewQuizGenerator creates a generator using the default OpenAI endpoint.
func NewQuizGenerator(apiKey string) *QuizGenerator {
	return &QuizGenerator{client: openai.NewClient(apiKey)}
}

// NewQuizGeneratorWithBaseURL creates a generator against a compatible
// endpoint; tests point this at a local server.
func NewQuizGeneratorWithBaseURL(apiKey, baseURL string) *QuizGenerator {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &QuizGenerator{client: openai.NewClientWithConfig(cfg)}
}

// SetTraceLog attaches a trace log that captures the prompt and the raw
// model response for each generation. A nil trace disables capture.
func (qg *QuizGenerator) SetTraceLog(trace *TraceLog) {
	qg.trace = trace
}

// GenerateQuiz runs prompt building, the API call, response parsing, and
// option shuffling. The call is bounded by a fixed 30-second timeout and is
// never retried here; recovery is always a fresh user-initiated attempt.
func (qg *QuizGenerator) GenerateQuiz(ctx context.Context, text string, numQuestions int) ([]QuizQuestion, error) {
	prompt, err := BuildQuizPrompt(text, numQuestions)
	if err != nil {
		return nil, err
	}

	VerboseLog("Requesting %d questions from %s (%d characters of source text)",
		numQuestions, generationModel, len(text))
	if qg.trace != nil {
		qg.trace.LogRequest(prompt)
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := qg.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: generationModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return nil, mapAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoQuestions
	}
	content := resp.Choices[0].Message.Content

	if qg.trace != nil {
		qg.trace.LogResponse(content)
	}

	quiz, err := ParseQuizResponse(content)
	if err != nil {
		return nil, err
	}
	if len(quiz) < numQuestions {
		VerboseLog("Model under-delivered: asked for %d questions, got %d", numQuestions, len(quiz))
	}

	ShuffleQuiz(quiz)
	return quiz, nil
}

// mapAPIError converts transport and API failures into the pipeline's error
// taxonomy: 401 and 429 get dedicated messages, other HTTP failures keep
// their status code, deadline expiry becomes a timeout, and everything else
// is a network error.
func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return mapStatusCode(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return mapStatusCode(reqErr.HTTPStatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("network error: %w", err)
}

func mapStatusCode(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrInvalidAPIKey
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("API error %d", code)
	}
}
