package studypartner

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TraceLog captures the prompt and raw model response of quiz generations
// to a file under log/, for debugging parser failures after the fact.
type TraceLog struct {
	file *os.File
	mu   sync.Mutex
}

// NewTraceLog creates a trace log file named after a fresh generation ID.
func NewTraceLog() (*TraceLog, error) {
	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join("log", fmt.Sprintf("%s.log", generateID(12)))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}

	trace := &TraceLog{file: file}
	trace.logf("=== Quiz Generation Trace ===\n")
	trace.logf("Started: %s\n\n", time.Now().Format(time.RFC3339))
	return trace, nil
}

func (t *TraceLog) logf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(t.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	t.file.Sync()
}

// LogRequest records the prompt sent to the model.
func (t *TraceLog) LogRequest(prompt string) {
	t.logf("=== REQUEST ===\n%s\n===============\n\n", prompt)
}

// LogResponse records the raw content returned by the model, before any
// fence stripping or JSON repair.
func (t *TraceLog) LogResponse(response string) {
	t.logf("=== RESPONSE ===\n%s\n================\n\n", response)
}

// Close finishes and closes the trace file.
func (t *TraceLog) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(t.file, "[%s] === Trace Complete ===\n", timestamp)
	err := t.file.Close()
	t.file = nil
	return err
}

// generateID returns a random lowercase alphanumeric identifier.
func generateID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
