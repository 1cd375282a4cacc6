package studypartner

import (
	"fmt"
	"strings"
)

// Question-count bounds enforced by the interactive surfaces.
const (
	MinQuestions     = 1
	MaxQuestions     = 20
	DefaultQuestions = 5
)

// BuildQuizPrompt assembles the generation prompt for the given study text.
// It fails when the text is empty or whitespace-only; the question count is
// validated by the caller (see ClampQuestions).
func BuildQuizPrompt(text string, numQuestions int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate exactly %d multiple-choice questions from the text below.\n", numQuestions))
	sb.WriteString("Return ONLY valid JSON in this exact format (no markdown, no extra text):\n\n")
	sb.WriteString(`{
  "quiz": [
    {
      "question": "Question text here",
      "options": ["a) First option", "b) Second option", "c) Third option", "d) Fourth option"],
      "answer": "b) Second option",
      "explanation": "Brief explanation of why this is correct"
    }
  ]
}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- Create clear, unambiguous questions\n")
	sb.WriteString("- Ensure only one correct answer per question\n")
	sb.WriteString("- Include brief explanations for correct answers\n")
	sb.WriteString("- Base all questions strictly on the provided text\n")
	sb.WriteString("- Make distractors plausible but incorrect\n")
	sb.WriteString("\nText:\n")
	sb.WriteString(text)

	return sb.String(), nil
}

// ClampQuestions forces a requested question count into the allowed range,
// falling back to the default for nonsense input.
func ClampQuestions(n int) int {
	if n < MinQuestions {
		return DefaultQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}
