package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"studypartner"

	"github.com/gorilla/sessions"
)

const sessionCookie = "study-session"

type Server struct {
	generator studypartner.Generator
	archive   *studypartner.Archive
	store     *sessions.CookieStore
	templates map[string]*template.Template

	// The browser cookie carries only a session ID; session state lives
	// here because a whole quiz does not fit in a cookie.
	mu       sync.Mutex
	sessions map[string]*studypartner.Session
}

func main() {
	studypartner.SetVerbose(os.Getenv("VERBOSE") != "")

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required.\n" +
			"Set it to your OpenAI API key before starting the server, e.g.:\n" +
			"  export OPENAI_API_KEY=sk-...")
	}

	archivePath := os.Getenv("ARCHIVE_DB")
	if archivePath == "" {
		archivePath = "./study.db"
	}
	archive, err := studypartner.OpenArchive(archivePath)
	if err != nil {
		log.Fatalf("Failed to open quiz archive: %v", err)
	}
	defer archive.Close()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "study-partner-dev-secret"
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"pct": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
		"band": studypartner.Band,
		"truncate": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n] + "..."
		},
	}

	templates := make(map[string]*template.Template)
	templateFiles := []struct {
		name string
		file string
	}{
		{"home", "templates/home.html"},
		{"quiz", "templates/quiz.html"},
		{"history", "templates/history.html"},
	}
	for _, tmpl := range templateFiles {
		templates[tmpl.name] = template.Must(template.New(tmpl.name).Funcs(funcMap).ParseFiles("templates/base.html", tmpl.file))
	}

	server := &Server{
		generator: studypartner.NewQuizGenerator(apiKey),
		archive:   archive,
		store:     sessions.NewCookieStore([]byte(secret)),
		templates: templates,
		sessions:  make(map[string]*studypartner.Session),
	}

	http.HandleFunc("/", server.handleHome)
	http.HandleFunc("/paragraphs", server.handleAddParagraph)
	http.HandleFunc("/paragraphs/clear", server.handleClearAll)
	http.HandleFunc("/generate", server.handleGenerate)
	http.HandleFunc("/quiz", server.handleQuiz)
	http.HandleFunc("/quiz/answer", server.handleAnswer)
	http.HandleFunc("/quiz/submit", server.handleSubmit)
	http.HandleFunc("/quiz/reset", server.handleReset)
	http.HandleFunc("/quiz/home", server.handleQuizHome)
	http.HandleFunc("/quiz/finish", server.handleQuizFinish)
	http.HandleFunc("/history", server.handleHistory)
	http.HandleFunc("/history/clear", server.handleClearHistory)
	http.HandleFunc("/settings", server.handleSettings)
	http.HandleFunc("/theme", server.handleTheme)
	http.HandleFunc("/archive/retake", server.handleRetake)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8180"
	}

	log.Printf("Starting server on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// session returns the state for this browser, creating it on first visit.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *studypartner.Session {
	cookie, _ := s.store.Get(r, sessionCookie)

	id, _ := cookie.Values["id"].(string)
	if id == "" {
		id = newSessionID()
		cookie.Values["id"] = id
		if err := cookie.Save(r, w); err != nil {
			log.Printf("Session save error: %v", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = studypartner.NewSession()
		s.sessions[id] = sess
	}
	return sess
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("Failed to generate session ID: %v", err)
	}
	return hex.EncodeToString(b)
}

// redirectFlash redirects with a message shown as a banner on the target page.
func redirectFlash(w http.ResponseWriter, r *http.Request, target, flash string) {
	if flash != "" {
		target += "?flash=" + url.QueryEscape(flash)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// baseData holds the fields every page shares with base.html.
func (s *Server) baseData(sess *studypartner.Session, r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"DarkMode":     sess.DarkMode,
		"NumQuestions": sess.NumQuestions,
		"QuizReady":    sess.QuizReady,
		"HistoryCount": sess.History.Count(),
		"Flash":        r.URL.Query().Get("flash"),
		"Back":         r.URL.Path,
	}
	if avg, err := sess.History.Average(); err == nil {
		data["AverageScore"] = avg
	}
	return data
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]interface{}) {
	if err := s.templates[name].ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Template error in %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess := s.session(w, r)
	sess.GoHome()

	archived, err := s.archive.ListQuizzes(10)
	if err != nil {
		log.Printf("Failed to list archived quizzes: %v", err)
	}

	data := s.baseData(sess, r)
	data["Back"] = "/"
	data["Paragraphs"] = sess.Paragraphs
	data["Archived"] = archived
	s.render(w, "home", data)
}

func (s *Server) handleAddParagraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)

	if err := sess.AddParagraph(r.FormValue("text")); err != nil {
		redirectFlash(w, r, "/", err.Error())
		return
	}
	redirectFlash(w, r, "/", "Paragraph added!")
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	sess.ClearAll()
	redirectFlash(w, r, "/", "All cleared!")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)

	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		http.Error(w, "Invalid paragraph index", http.StatusBadRequest)
		return
	}

	// Blocking call with its own 30s timeout; on failure the session stays
	// on the home page untouched.
	if err := sess.GenerateQuiz(r.Context(), s.generator, index); err != nil {
		log.Printf("Quiz generation failed: %v", err)
		redirectFlash(w, r, "/", err.Error())
		return
	}

	if _, err := s.archive.SaveQuiz(sess.Paragraphs[index], sess.Quiz); err != nil {
		log.Printf("Failed to archive quiz: %v", err)
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// questionView is what the quiz template renders per question, in both the
// answering and results phases.
type questionView struct {
	Num         int
	Question    string
	Options     []string
	Selected    string
	Correct     bool
	Answer      string
	Explanation string
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if len(sess.Quiz) == 0 {
		redirectFlash(w, r, "/", "No quiz available. Generate one from a paragraph first.")
		return
	}
	sess.Page = studypartner.PageQuiz

	views := make([]questionView, len(sess.Quiz))
	for i, q := range sess.Quiz {
		views[i] = questionView{
			Num:         i + 1,
			Question:    q.Question,
			Options:     q.Options,
			Selected:    sess.Answers[i],
			Correct:     sess.Answers[i] == q.Answer,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	}

	data := s.baseData(sess, r)
	data["Back"] = "/quiz"
	data["Questions"] = views
	data["Answered"] = sess.AnsweredCount()
	data["Total"] = len(sess.Quiz)
	data["ShowResults"] = sess.ShowResults
	if sess.ShowResults {
		score := sess.Grade()
		data["Score"] = score
		data["Band"] = studypartner.Band(score.Percentage)
	}
	s.render(w, "quiz", data)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)

	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		http.Error(w, "Invalid question index", http.StatusBadRequest)
		return
	}
	if err := sess.SelectAnswer(index, r.FormValue("option")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)

	if _, err := sess.Submit(); err != nil {
		redirectFlash(w, r, "/quiz", err.Error())
		return
	}
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	sess.ResetQuiz()
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

func (s *Server) handleQuizHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	sess.GoHome()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleQuizFinish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	sess.FinishQuiz()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := sess.ViewHistory(); err != nil {
		redirectFlash(w, r, "/", err.Error())
		return
	}

	avg, _ := sess.History.Average()
	best, _ := sess.History.Best()

	// Newest first for display.
	records := sess.History.Records()
	reversed := make([]studypartner.HistoryRecord, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}

	data := s.baseData(sess, r)
	data["Back"] = "/history"
	data["Records"] = reversed
	data["Average"] = avg
	data["Best"] = best
	s.render(w, "history", data)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	sess.History.Clear()
	redirectFlash(w, r, "/", "History cleared!")
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)

	if n, err := strconv.Atoi(r.FormValue("num_questions")); err == nil {
		sess.SetNumQuestions(n)
	}
	http.Redirect(w, r, backTarget(r), http.StatusSeeOther)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)
	sess.ToggleTheme()
	http.Redirect(w, r, backTarget(r), http.StatusSeeOther)
}

// backTarget returns the page a sidebar action should land back on,
// restricted to known pages so the redirect cannot be pointed elsewhere.
func backTarget(r *http.Request) string {
	switch r.FormValue("back") {
	case "/quiz":
		return "/quiz"
	case "/history":
		return "/history"
	default:
		return "/"
	}
}

func (s *Server) handleRetake(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.session(w, r)

	quiz, err := s.archive.GetQuiz(r.FormValue("id"))
	if err != nil {
		log.Printf("Failed to load archived quiz: %v", err)
		redirectFlash(w, r, "/", "Quiz not found in archive.")
		return
	}

	// Reshuffle so a retake is not answerable from remembered positions.
	studypartner.ShuffleQuiz(quiz)
	sess.StoreQuiz(quiz)
	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}
