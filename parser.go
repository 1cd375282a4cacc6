package studypartner

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models frequently wrap their JSON in markdown fences despite being told
// not to; strip them before parsing. The brace pattern is greedy and spans
// newlines so it captures the outermost object when the JSON is embedded in
// surrounding prose.
var (
	openFenceRe  = regexp.MustCompile("^```(?:json)?\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```$")
	braceSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseQuizResponse extracts a quiz from raw model output. It tries a strict
// parse of the fence-stripped text first and falls back to parsing the first
// {...} span; both failing is ErrParseFailed. A payload with no questions is
// ErrNoQuestions, and a question missing its text, options, or answer is
// ErrBadQuestionFormat.
func ParseQuizResponse(raw string) ([]QuizQuestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = openFenceRe.ReplaceAllString(cleaned, "")
	cleaned = closeFenceRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	var payload quizPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		span := braceSpanRe.FindString(cleaned)
		if span == "" {
			return nil, ErrParseFailed
		}
		payload = quizPayload{}
		if err := json.Unmarshal([]byte(span), &payload); err != nil {
			return nil, ErrParseFailed
		}
	}

	if len(payload.Quiz) == 0 {
		return nil, ErrNoQuestions
	}

	for _, q := range payload.Quiz {
		if q.Question == "" || len(q.Options) == 0 || q.Answer == "" {
			return nil, ErrBadQuestionFormat
		}
	}

	return payload.Quiz, nil
}
