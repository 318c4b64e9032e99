// Package decisions records anonymized user decisions after a
// reflective pause. Entries carry hashed identifiers and coarse
// timestamps only; message content never touches the log.
package decisions

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DecisionType is the outcome of one reflective pause.
type DecisionType string

const (
	// ContinuedSending means the user dismissed the prompt and sent.
	ContinuedSending DecisionType = "continued_sending"
	// EditedMessage means the user went back and changed the message.
	EditedMessage DecisionType = "edited_message"
	// CancelledMessage means the user abandoned the message.
	CancelledMessage DecisionType = "cancelled_message"
	// PromptViewed means the prompt was shown, outcome unknown yet.
	PromptViewed DecisionType = "prompt_viewed"
	// PromptIgnored means the prompt timed out without interaction.
	PromptIgnored DecisionType = "prompt_ignored"
)

func (d DecisionType) valid() bool {
	switch d {
	case ContinuedSending, EditedMessage, CancelledMessage, PromptViewed, PromptIgnored:
		return true
	}
	return false
}

// Entry is one anonymized decision record.
type Entry struct {
	ID        string       `json:"id"`
	Decision  DecisionType `json:"decision"`
	Locale    string       `json:"locale,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Date      string       `json:"date"`
	Hour      int          `json:"hour"`
}

// Logger appends decision entries to a JSONL file. Safe for concurrent
// use within one process.
type Logger struct {
	mu   sync.Mutex
	path string
}

// NewLogger creates a decision logger writing to path. An empty path
// defaults to ~/.reflectpause/decisions.jsonl. The parent directory is
// created if needed.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".reflectpause", "decisions.jsonl")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	return &Logger{path: path}, nil
}

// Log appends one decision entry. locale may be empty.
func (l *Logger) Log(decision DecisionType, localeCode string) error {
	if !decision.valid() {
		return fmt.Errorf("invalid decision type %q", decision)
	}

	now := time.Now().UTC()
	entry := Entry{
		ID:        uuid.NewString(),
		Decision:  decision,
		Locale:    localeCode,
		Timestamp: now,
		Date:      now.Format("2006-01-02"),
		Hour:      now.Hour(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding decision entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing decision entry: %w", err)
	}
	return nil
}

// Summary aggregates decision counts.
type Summary struct {
	Total     int                  `json:"total"`
	ByType    map[DecisionType]int `json:"by_type"`
	ByDate    map[string]int       `json:"by_date"`
	FirstSeen time.Time            `json:"first_seen"`
	LastSeen  time.Time            `json:"last_seen"`
}

// Summarize reads the log back and aggregates it. Malformed lines are
// skipped; a missing file yields an empty summary.
func (l *Logger) Summarize() (*Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return &Summary{ByType: map[DecisionType]int{}, ByDate: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	sum := &Summary{ByType: map[DecisionType]int{}, ByDate: map[string]int{}}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		sum.Total++
		sum.ByType[entry.Decision]++
		sum.ByDate[entry.Date]++
		if sum.FirstSeen.IsZero() || entry.Timestamp.Before(sum.FirstSeen) {
			sum.FirstSeen = entry.Timestamp
		}
		if entry.Timestamp.After(sum.LastSeen) {
			sum.LastSeen = entry.Timestamp
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading decision log: %w", err)
	}
	return sum, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}
