package studypartner

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Archive is a durable sqlite store of generated quizzes, so a quiz can be
// retaken later without another API call. Session history never lives here;
// the ledger is in-memory by design.
type Archive struct {
	db *sql.DB
}

// ArchivedQuiz is the stored metadata for one generated quiz.
type ArchivedQuiz struct {
	ID           string    `json:"id"`
	SourceText   string    `json:"source_text"`
	NumQuestions int       `json:"num_questions"`
	CreatedAt    time.Time `json:"created_at"`
}

// OpenArchive opens (and if needed creates) the archive database.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive: %w", err)
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			source_text TEXT NOT NULL,
			num_questions INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			quiz_id TEXT NOT NULL,
			question_num INTEGER NOT NULL,
			question TEXT NOT NULL,
			options TEXT NOT NULL,
			answer TEXT NOT NULL,
			explanation TEXT,
			PRIMARY KEY (quiz_id, question_num),
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id)
		)`,
	}

	for _, query := range queries {
		if _, err := a.db.Exec(query); err != nil {
			return fmt.Errorf("failed to init archive schema: %w", err)
		}
	}
	return nil
}

// SaveQuiz stores a generated quiz with its source text and returns the new
// quiz ID. Options are stored as a JSON array column.
func (a *Archive) SaveQuiz(sourceText string, questions []QuizQuestion) (string, error) {
	id := generateID(12)

	tx, err := a.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO quizzes (id, source_text, num_questions, created_at) VALUES (?, ?, ?, ?)",
		id, sourceText, len(questions), time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save quiz: %w", err)
	}

	for i, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return "", fmt.Errorf("failed to marshal options: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO questions (quiz_id, question_num, question, options, answer, explanation) VALUES (?, ?, ?, ?, ?, ?)",
			id, i+1, q.Question, string(options), q.Answer, q.Explanation,
		)
		if err != nil {
			return "", fmt.Errorf("failed to save question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit quiz: %w", err)
	}
	return id, nil
}

// GetQuiz loads an archived quiz's questions in their stored order.
func (a *Archive) GetQuiz(id string) ([]QuizQuestion, error) {
	rows, err := a.db.Query(
		"SELECT question, options, answer, explanation FROM questions WHERE quiz_id = ? ORDER BY question_num",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	defer rows.Close()

	var questions []QuizQuestion
	for rows.Next() {
		var q QuizQuestion
		var options string
		if err := rows.Scan(&q.Question, &options, &q.Answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal options: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz not found: %s", id)
	}
	return questions, nil
}

// ListQuizzes returns archived quiz metadata, newest first, optionally
// limited by count.
func (a *Archive) ListQuizzes(limit int) ([]ArchivedQuiz, error) {
	query := "SELECT id, source_text, num_questions, created_at FROM quizzes ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := a.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []ArchivedQuiz
	for rows.Next() {
		var quiz ArchivedQuiz
		if err := rows.Scan(&quiz.ID, &quiz.SourceText, &quiz.NumQuestions, &quiz.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quizzes: %w", err)
	}
	return quizzes, nil
}

// DeleteQuiz removes an archived quiz and its questions.
func (a *Archive) DeleteQuiz(id string) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM questions WHERE quiz_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM quizzes WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	return tx.Commit()
}
