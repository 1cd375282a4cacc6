package studypartner

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator produces a shuffled quiz from study text. *QuizGenerator is the
// production implementation; tests substitute fakes.
type Generator interface {
	GenerateQuiz(ctx context.Context, text string, numQuestions int) ([]QuizQuestion, error)
}

// Session errors surfaced as user-visible warnings rather than failures of
// the session itself.
var (
	ErrQuizIncomplete  = errors.New("answer every question before submitting")
	ErrHistoryEmpty    = errors.New("complete a quiz first to see your history")
	ErrNoSuchParagraph = errors.New("no such paragraph")
)

// Session holds all mutable state for one user's interactive session: the
// current page, stored paragraphs, the active quiz and its answers, the
// result ledger, and display preferences. Each session owns exactly one
// instance and all transitions run on the session's single thread.
type Session struct {
	Page         Page
	Paragraphs   []string
	Quiz         []QuizQuestion
	Answers      map[int]string
	QuizReady    bool
	ShowResults  bool
	History      *History
	DarkMode     bool
	NumQuestions int
}

// NewSession returns a session with the interactive defaults: the main page,
// dark mode on, five questions per quiz, empty history.
func NewSession() *Session {
	return &Session{
		Page:         PageMain,
		Answers:      make(map[int]string),
		History:      NewHistory(),
		DarkMode:     true,
		NumQuestions: DefaultQuestions,
	}
}

// AddParagraph stores a block of study text. Empty or whitespace-only input
// is rejected and nothing changes.
func (s *Session) AddParagraph(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyText
	}
	s.Paragraphs = append(s.Paragraphs, trimmed)
	return nil
}

// ClearAll removes every stored paragraph along with the active quiz and the
// quiz-ready flag, so no quiz can outlive the paragraph it came from.
func (s *Session) ClearAll() {
	s.Paragraphs = nil
	s.Quiz = nil
	s.QuizReady = false
}

// GenerateQuiz runs the full pipeline for the paragraph at the given index
// and, on success, installs the quiz and moves to the quiz page with a clean
// answer map. On any failure the session is left exactly as it was and the
// error is returned for display.
func (s *Session) GenerateQuiz(ctx context.Context, gen Generator, index int) error {
	if index < 0 || index >= len(s.Paragraphs) {
		return ErrNoSuchParagraph
	}

	quiz, err := gen.GenerateQuiz(ctx, s.Paragraphs[index], s.NumQuestions)
	if err != nil {
		return err
	}

	s.Quiz = quiz
	s.Answers = make(map[int]string)
	s.QuizReady = true
	s.ShowResults = false
	s.Page = PageQuiz
	return nil
}

// StoreQuiz installs an already-generated quiz (for example one loaded from
// the archive) through the same transition as GenerateQuiz.
func (s *Session) StoreQuiz(quiz []QuizQuestion) {
	s.Quiz = quiz
	s.Answers = make(map[int]string)
	s.QuizReady = true
	s.ShowResults = false
	s.Page = PageQuiz
}

// SelectAnswer records the chosen option for a question. Re-selecting
// overwrites the previous choice.
func (s *Session) SelectAnswer(index int, option string) error {
	if index < 0 || index >= len(s.Quiz) {
		return fmt.Errorf("question %d out of range", index)
	}
	s.Answers[index] = option
	return nil
}

// AnsweredCount reports how many questions have a recorded answer.
func (s *Session) AnsweredCount() int {
	count := 0
	for i := range s.Quiz {
		if s.Answers[i] != "" {
			count++
		}
	}
	return count
}

// Submit moves the quiz into its results phase. The transition is guarded:
// every question must be answered. Grading happens here and the result is
// recorded in the history ledger (subject to its de-duplication rule).
func (s *Session) Submit() (Score, error) {
	if len(s.Quiz) == 0 || s.AnsweredCount() < len(s.Quiz) {
		return Score{}, ErrQuizIncomplete
	}
	s.ShowResults = true
	score := s.Grade()
	s.History.Record(score.Percentage, score.Correct, score.Total)
	return score, nil
}

// Grade scores the current answers against the quiz. Correctness is exact,
// case-sensitive string equality with the stored answer text, letter prefix
// included; after shuffling, index comparison would be meaningless.
func (s *Session) Grade() Score {
	correct := 0
	for i, q := range s.Quiz {
		if s.Answers[i] == q.Answer {
			correct++
		}
	}
	total := len(s.Quiz)
	score := Score{Correct: correct, Total: total}
	if total > 0 {
		score.Percentage = 100 * float64(correct) / float64(total)
	}
	return score
}

// ResetQuiz clears the answers and returns from results to answering.
func (s *Session) ResetQuiz() {
	s.Answers = make(map[int]string)
	s.ShowResults = false
}

// GoHome returns to the main page. The quiz itself survives so the user can
// come back to it from the sidebar.
func (s *Session) GoHome() {
	s.Page = PageMain
	s.ShowResults = false
}

// FinishQuiz is the results-page "back home" action: it also drops the
// quiz-ready flag so the finished quiz no longer shows as resumable.
func (s *Session) FinishQuiz() {
	s.GoHome()
	s.QuizReady = false
}

// ViewHistory switches to the history page, which only exists once there is
// at least one recorded result.
func (s *Session) ViewHistory() error {
	if s.History.Count() == 0 {
		return ErrHistoryEmpty
	}
	s.Page = PageHistory
	return nil
}

// SetNumQuestions updates the questions-per-quiz preference, clamped to the
// allowed range.
func (s *Session) SetNumQuestions(n int) {
	s.NumQuestions = ClampQuestions(n)
}

// ToggleTheme flips between dark and light mode.
func (s *Session) ToggleTheme() {
	s.DarkMode = !s.DarkMode
}

// Band returns the feedback message for a percentage score.
func Band(percentage float64) string {
	switch {
	case percentage >= 80:
		return "Excellent work!"
	case percentage >= 60:
		return "Good job!"
	default:
		return "Keep studying!"
	}
}
