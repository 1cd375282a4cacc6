package studypartner

import "errors"

// Failures from the generation pipeline. None of these are fatal; callers
// surface the message and leave session state as it was.
var (
	// ErrEmptyText is returned when the supplied study text is empty or
	// whitespace-only.
	ErrEmptyText = errors.New("please provide text to generate questions from")

	// ErrInvalidAPIKey maps a 401 from the API.
	ErrInvalidAPIKey = errors.New("invalid API key, please check your OpenAI API key")

	// ErrRateLimited maps a 429 from the API.
	ErrRateLimited = errors.New("rate limit exceeded, please try again in a moment")

	// ErrTimeout is returned when the API call exceeds the request timeout.
	ErrTimeout = errors.New("request timed out, please try again")

	// ErrParseFailed is returned when the model output cannot be parsed as
	// a quiz, even after code-fence stripping and brace-span extraction.
	ErrParseFailed = errors.New("failed to parse quiz response")

	// ErrNoQuestions is returned when the parsed payload has no questions.
	ErrNoQuestions = errors.New("no questions were generated, try with more text")

	// ErrBadQuestionFormat is returned when a question entry is missing its
	// question text, options, or answer.
	ErrBadQuestionFormat = errors.New("invalid question format received")
)
