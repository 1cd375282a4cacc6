package studypartner

// QuizQuestion is a single multiple-choice question. Options carry their
// letter prefix ("a) ...") and Answer holds the full text of the correct
// option, so correctness checks compare whole strings rather than indices.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// quizPayload is the JSON envelope the model is instructed to return.
type quizPayload struct {
	Quiz []QuizQuestion `json:"quiz"`
}

// HistoryRecord is one completed quiz outcome. Date is minute-resolution
// ("2006-01-02 15:04") and doubles as the ledger's de-duplication key.
type HistoryRecord struct {
	Date    string  `json:"date"`
	Score   float64 `json:"score"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
}

// Score is the graded result of a submitted quiz.
type Score struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Page identifies which view a session is on.
type Page string

const (
	PageMain    Page = "main"
	PageQuiz    Page = "quiz"
	PageHistory Page = "history"
)
