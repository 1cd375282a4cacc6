package studypartner

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildQuizPromptRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		if _, err := BuildQuizPrompt(text, 5); !errors.Is(err, ErrEmptyText) {
			t.Errorf("BuildQuizPrompt(%q) = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestBuildQuizPromptContents(t *testing.T) {
	text := "The mitochondria is the powerhouse of the cell."
	prompt, err := BuildQuizPrompt(text, 7)
	if err != nil {
		t.Fatalf("BuildQuizPrompt: %v", err)
	}

	for _, want := range []string{
		"Generate exactly 7 multiple-choice questions",
		`"quiz"`,
		`"options"`,
		`"answer"`,
		`"explanation"`,
		"only one correct answer",
		"plausible but incorrect",
		"strictly on the provided text",
		text,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestClampQuestions(t *testing.T) {
	cases := []struct{ in, want int }{
		{-3, DefaultQuestions},
		{0, DefaultQuestions},
		{1, 1},
		{5, 5},
		{20, 20},
		{21, MaxQuestions},
		{1000, MaxQuestions},
	}
	for _, c := range cases {
		if got := ClampQuestions(c.in); got != c.want {
			t.Errorf("ClampQuestions(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
