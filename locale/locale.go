// Package locale loads and caches per-language reflective prompt data.
//
// Each supported language ships as one embedded JSON definition file
// holding a title, ten rotating reflective questions, and the UI
// strings a host needs to render a pause dialog. Definitions are
// parsed on first access and cached for the process lifetime.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"
)

//go:embed locales/*.json
var localeFS embed.FS

// QuestionCount is the fixed number of rotating questions per locale.
const QuestionCount = 10

// SupportedCodes lists every locale code the catalog knows about,
// whether or not its definition file has been loaded yet.
var SupportedCodes = []string{
	"ar", "de", "en", "es", "fr", "hi", "it",
	"ja", "ko", "nl", "pt", "ru", "vi", "zh",
}

var supportedSet = func() map[string]bool {
	m := make(map[string]bool, len(SupportedCodes))
	for _, c := range SupportedCodes {
		m[c] = true
	}
	return m
}()

// IsSupported reports whether code is in the pre-registered catalog.
func IsSupported(code string) bool {
	return supportedSet[code]
}

// Record is the immutable prompt data for one locale.
type Record struct {
	Code             string   `json:"-"`
	Title            string   `json:"title"`
	Questions        []string `json:"cbt_questions"`
	ReflectionPrompt string   `json:"reflection_prompt"`
	ContinueText     string   `json:"continue_text"`
	CancelText       string   `json:"cancel_text"`
}

// DataError is a malformed or missing locale definition. It is scoped
// to a single code; other catalog entries are unaffected.
type DataError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("locale %q: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("locale %q: %s", e.Code, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Cause
}

// NotFoundError is a request for a code outside the catalog.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("locale %q: not in catalog", e.Code)
}

// Catalog lazily loads Records by code. Concurrent first accesses to
// the same code share a single load; a failed load is not cached, so
// the code can be retried and other codes are never poisoned.
type Catalog struct {
	mu      sync.RWMutex
	records map[string]*Record
	group   singleflight.Group
}

// NewCatalog creates an empty catalog over the embedded definitions.
func NewCatalog() *Catalog {
	return &Catalog{
		records: make(map[string]*Record),
	}
}

// Get returns the Record for code, loading it on first access.
func (c *Catalog) Get(code string) (*Record, error) {
	if !supportedSet[code] {
		return nil, &NotFoundError{Code: code}
	}

	c.mu.RLock()
	rec, ok := c.records[code]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	v, err, _ := c.group.Do(code, func() (interface{}, error) {
		// Re-check under the flight: a previous flight may have
		// populated the cache between the RLock and Do.
		c.mu.RLock()
		rec, ok := c.records[code]
		c.mu.RUnlock()
		if ok {
			return rec, nil
		}

		loaded, err := loadRecord(code)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.records[code] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Loaded reports whether code has already been loaded into the cache.
func (c *Catalog) Loaded(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.records[code]
	return ok
}

// ListAvailable returns the sorted set of supported codes.
func (c *Catalog) ListAvailable() []string {
	out := make([]string, len(SupportedCodes))
	copy(out, SupportedCodes)
	sort.Strings(out)
	return out
}

func loadRecord(code string) (*Record, error) {
	data, err := localeFS.ReadFile("locales/" + code + ".json")
	if err != nil {
		return nil, &DataError{Code: code, Message: "definition file missing", Cause: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &DataError{Code: code, Message: "malformed definition", Cause: err}
	}
	rec.Code = code

	if err := validate(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func validate(rec *Record) error {
	if rec.Title == "" {
		return &DataError{Code: rec.Code, Message: "missing title"}
	}
	if len(rec.Questions) != QuestionCount {
		return &DataError{
			Code:    rec.Code,
			Message: fmt.Sprintf("expected %d questions, found %d", QuestionCount, len(rec.Questions)),
		}
	}
	for i, q := range rec.Questions {
		if q == "" || !utf8.ValidString(q) {
			return &DataError{
				Code:    rec.Code,
				Message: fmt.Sprintf("question %d is empty or not valid UTF-8", i),
			}
		}
	}
	if rec.ReflectionPrompt == "" || rec.ContinueText == "" || rec.CancelText == "" {
		return &DataError{Code: rec.Code, Message: "missing UI strings"}
	}
	return nil
}
