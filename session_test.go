package studypartner

import (
	"context"
	"errors"
	"testing"
)

// fakeGenerator satisfies Generator without any network.
type fakeGenerator struct {
	quiz  []QuizQuestion
	err   error
	calls int
}

func (f *fakeGenerator) GenerateQuiz(ctx context.Context, text string, numQuestions int) ([]QuizQuestion, error) {
	f.calls++
	return f.quiz, f.err
}

func twoQuestionQuiz() []QuizQuestion {
	return []QuizQuestion{
		{
			Question: "First?",
			Options:  []string{"a) Y", "b) X", "c) Z", "d) W"},
			Answer:   "b) X",
		},
		{
			Question: "Second?",
			Options:  []string{"a) Y", "b) Y2", "c) Y3", "d) Y4"},
			Answer:   "a) Y",
		},
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession()
	if s.Page != PageMain {
		t.Errorf("Page = %q, want main", s.Page)
	}
	if s.NumQuestions != DefaultQuestions {
		t.Errorf("NumQuestions = %d, want %d", s.NumQuestions, DefaultQuestions)
	}
	if !s.DarkMode {
		t.Error("DarkMode should default to true")
	}
	if s.History.Count() != 0 {
		t.Error("history should start empty")
	}
}

func TestAddParagraph(t *testing.T) {
	s := NewSession()
	if err := s.AddParagraph("  some study text  "); err != nil {
		t.Fatalf("AddParagraph: %v", err)
	}
	if len(s.Paragraphs) != 1 || s.Paragraphs[0] != "some study text" {
		t.Errorf("Paragraphs = %v", s.Paragraphs)
	}

	if err := s.AddParagraph("   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("AddParagraph(blank) = %v, want ErrEmptyText", err)
	}
	if len(s.Paragraphs) != 1 {
		t.Errorf("blank paragraph was stored")
	}
}

func TestGenerateQuizSuccessTransition(t *testing.T) {
	s := NewSession()
	s.AddParagraph("text")
	s.Answers[0] = "stale"
	s.ShowResults = true

	gen := &fakeGenerator{quiz: twoQuestionQuiz()}
	if err := s.GenerateQuiz(context.Background(), gen, 0); err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}

	if s.Page != PageQuiz {
		t.Errorf("Page = %q, want quiz", s.Page)
	}
	if !s.QuizReady {
		t.Error("QuizReady not set")
	}
	if s.ShowResults {
		t.Error("ShowResults not cleared")
	}
	if len(s.Answers) != 0 {
		t.Errorf("Answers not reset: %v", s.Answers)
	}
	if len(s.Quiz) != 2 {
		t.Errorf("Quiz length = %d, want 2", len(s.Quiz))
	}
}

func TestGenerateQuizFailureLeavesStateUnchanged(t *testing.T) {
	s := NewSession()
	s.AddParagraph("text")
	s.Quiz = twoQuestionQuiz()
	s.Answers[1] = "a) Y"
	s.QuizReady = true

	gen := &fakeGenerator{err: ErrRateLimited}
	err := s.GenerateQuiz(context.Background(), gen, 0)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("GenerateQuiz = %v, want ErrRateLimited", err)
	}

	if s.Page != PageMain {
		t.Errorf("Page changed to %q", s.Page)
	}
	if len(s.Quiz) != 2 || s.Answers[1] != "a) Y" || !s.QuizReady {
		t.Error("session state mutated on pipeline failure")
	}
}

func TestGenerateQuizBadIndex(t *testing.T) {
	s := NewSession()
	gen := &fakeGenerator{quiz: twoQuestionQuiz()}
	if err := s.GenerateQuiz(context.Background(), gen, 0); !errors.Is(err, ErrNoSuchParagraph) {
		t.Errorf("GenerateQuiz with no paragraphs = %v, want ErrNoSuchParagraph", err)
	}
	if gen.calls != 0 {
		t.Error("generator called for missing paragraph")
	}
}

func TestSelectAnswerOverwrite(t *testing.T) {
	s := NewSession()
	s.StoreQuiz(twoQuestionQuiz())

	if err := s.SelectAnswer(0, "a) Y"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := s.SelectAnswer(0, "b) X"); err != nil {
		t.Fatalf("SelectAnswer overwrite: %v", err)
	}
	if s.Answers[0] != "b) X" {
		t.Errorf("Answers[0] = %q, want overwritten value", s.Answers[0])
	}

	if err := s.SelectAnswer(5, "a) Y"); err == nil {
		t.Error("SelectAnswer out of range should fail")
	}
}

func TestSubmitGuard(t *testing.T) {
	s := NewSession()
	s.StoreQuiz(twoQuestionQuiz())

	if _, err := s.Submit(); !errors.Is(err, ErrQuizIncomplete) {
		t.Fatalf("Submit with 0/2 answered = %v, want ErrQuizIncomplete", err)
	}
	s.SelectAnswer(0, "b) X")
	if _, err := s.Submit(); !errors.Is(err, ErrQuizIncomplete) {
		t.Fatalf("Submit with 1/2 answered = %v, want ErrQuizIncomplete", err)
	}
	if s.ShowResults {
		t.Error("ShowResults set despite guard failure")
	}

	s.SelectAnswer(1, "b) Y2")
	score, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit with all answered: %v", err)
	}
	if !s.ShowResults {
		t.Error("ShowResults not set after submit")
	}
	if score.Total != 2 {
		t.Errorf("Total = %d, want 2", score.Total)
	}
}

func TestGradingByStringEquality(t *testing.T) {
	s := NewSession()
	s.StoreQuiz(twoQuestionQuiz())
	s.SelectAnswer(0, "b) X")  // correct
	s.SelectAnswer(1, "b) Y2") // wrong, the answer is "a) Y"

	score, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if score.Correct != 1 {
		t.Errorf("Correct = %d, want 1", score.Correct)
	}
	if score.Percentage != 50.0 {
		t.Errorf("Percentage = %v, want 50.0", score.Percentage)
	}
	if band := Band(score.Percentage); band != "Keep studying!" {
		t.Errorf("Band(50) = %q, want \"Keep studying!\"", band)
	}
}

func TestSubmitRecordsHistory(t *testing.T) {
	s := NewSession()
	s.StoreQuiz(twoQuestionQuiz())
	s.SelectAnswer(0, "b) X")
	s.SelectAnswer(1, "a) Y")

	if _, err := s.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if s.History.Count() != 1 {
		t.Fatalf("History.Count = %d, want 1", s.History.Count())
	}
	rec := s.History.Records()[0]
	if rec.Correct != 2 || rec.Total != 2 || rec.Score != 100.0 {
		t.Errorf("record = %+v", rec)
	}
}

func TestResetQuiz(t *testing.T) {
	s := NewSession()
	s.StoreQuiz(twoQuestionQuiz())
	s.SelectAnswer(0, "b) X")
	s.SelectAnswer(1, "a) Y")
	s.Submit()

	s.ResetQuiz()
	if len(s.Answers) != 0 {
		t.Error("Answers not cleared by reset")
	}
	if s.ShowResults {
		t.Error("ShowResults not cleared by reset")
	}
	if len(s.Quiz) != 2 {
		t.Error("reset should keep the quiz itself")
	}
}

func TestHomeTransitions(t *testing.T) {
	s := NewSession()
	s.StoreQuiz(twoQuestionQuiz())
	s.ShowResults = true

	s.GoHome()
	if s.Page != PageMain || s.ShowResults {
		t.Error("GoHome should land on main with results hidden")
	}
	if !s.QuizReady {
		t.Error("GoHome should keep the quiz resumable")
	}

	s.FinishQuiz()
	if s.QuizReady {
		t.Error("FinishQuiz should drop the quiz-ready flag")
	}
}

func TestClearAllDropsQuizToo(t *testing.T) {
	s := NewSession()
	s.AddParagraph("text")
	s.StoreQuiz(twoQuestionQuiz())

	s.ClearAll()
	if len(s.Paragraphs) != 0 {
		t.Error("paragraphs not cleared")
	}
	if len(s.Quiz) != 0 {
		t.Error("active quiz must not outlive its paragraph")
	}
	if s.QuizReady {
		t.Error("quiz-ready flag not cleared")
	}
}

func TestViewHistoryGuard(t *testing.T) {
	s := NewSession()
	if err := s.ViewHistory(); !errors.Is(err, ErrHistoryEmpty) {
		t.Fatalf("ViewHistory on empty ledger = %v, want ErrHistoryEmpty", err)
	}
	if s.Page != PageMain {
		t.Error("page changed despite guard")
	}

	s.History.Record(100, 2, 2)
	if err := s.ViewHistory(); err != nil {
		t.Fatalf("ViewHistory: %v", err)
	}
	if s.Page != PageHistory {
		t.Errorf("Page = %q, want history", s.Page)
	}
}

func TestBandThresholds(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{100, "Excellent work!"},
		{80, "Excellent work!"},
		{79.9, "Good job!"},
		{60, "Good job!"},
		{59.9, "Keep studying!"},
		{0, "Keep studying!"},
	}
	for _, c := range cases {
		if got := Band(c.pct); got != c.want {
			t.Errorf("Band(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func TestSetNumQuestionsClamps(t *testing.T) {
	s := NewSession()
	s.SetNumQuestions(50)
	if s.NumQuestions != MaxQuestions {
		t.Errorf("NumQuestions = %d, want %d", s.NumQuestions, MaxQuestions)
	}
	s.SetNumQuestions(3)
	if s.NumQuestions != 3 {
		t.Errorf("NumQuestions = %d, want 3", s.NumQuestions)
	}
}
