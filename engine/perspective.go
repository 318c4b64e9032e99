package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZaguanLabs/reflectpause"
)

const defaultPerspectiveURL = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

// maxResponseBytes caps how much of a scoring response is read.
const maxResponseBytes = 1 << 20

// PerspectiveEngine is the remote scoring variant. It calls a
// Perspective-style comment analysis service and enforces its timeout
// client-side regardless of server behavior.
type PerspectiveEngine struct {
	apiKey    string
	baseURL   string
	attribute string
	client    *http.Client
}

// PerspectiveConfig holds configuration for the Perspective engine.
type PerspectiveConfig struct {
	APIKey    string        // Scoring service API key
	BaseURL   string        // Custom endpoint (optional, for self-hosted scorers)
	Attribute string        // Attribute to score on (default: "TOXICITY")
	Timeout   time.Duration // Hard client-side timeout (default: 5s)
}

// NewPerspectiveEngine creates a new remote scoring engine.
func NewPerspectiveEngine(cfg PerspectiveConfig) *PerspectiveEngine {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultPerspectiveURL
	}
	attribute := cfg.Attribute
	if attribute == "" {
		attribute = "TOXICITY"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &PerspectiveEngine{
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		attribute: attribute,
		client:    &http.Client{Timeout: timeout},
	}
}

// Kind identifies the backend variant.
func (e *PerspectiveEngine) Kind() reflectpause.EngineKind {
	return reflectpause.EnginePerspective
}

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
	DoNotStore          bool                `json:"doNotStore"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Score returns the service's toxicity score in [0, 1].
func (e *PerspectiveEngine) Score(ctx context.Context, text string) (float64, error) {
	var reqBody analyzeRequest
	reqBody.Comment.Text = text
	reqBody.RequestedAttributes = map[string]struct{}{e.attribute: {}}
	reqBody.DoNotStore = true

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, &EngineError{
			Kind:    reflectpause.ErrUnreachable,
			Engine:  e.Kind(),
			Message: "encoding request",
			Cause:   err,
		}
	}

	url := e.baseURL + "?key=" + e.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, &EngineError{
			Kind:    reflectpause.ErrUnreachable,
			Engine:  e.Kind(),
			Message: "building request",
			Cause:   err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			return 0, &EngineError{
				Kind:      reflectpause.ErrTimeout,
				Engine:    e.Kind(),
				Message:   "scoring request timed out",
				Cause:     err,
				Retryable: true,
			}
		}
		return 0, &EngineError{
			Kind:    reflectpause.ErrUnreachable,
			Engine:  e.Kind(),
			Message: "scoring service unreachable",
			Cause:   err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, &EngineError{
			Kind:    reflectpause.ErrUnreachable,
			Engine:  e.Kind(),
			Message: "reading response",
			Cause:   err,
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return 0, &EngineError{
			Kind:    reflectpause.ErrQuotaExceeded,
			Engine:  e.Kind(),
			Message: "scoring quota exhausted",
		}
	case resp.StatusCode >= 500:
		return 0, &EngineError{
			Kind:      reflectpause.ErrUnreachable,
			Engine:    e.Kind(),
			Message:   fmt.Sprintf("scoring service returned %d", resp.StatusCode),
			Retryable: true,
		}
	case resp.StatusCode != http.StatusOK:
		return 0, &EngineError{
			Kind:    reflectpause.ErrUnreachable,
			Engine:  e.Kind(),
			Message: fmt.Sprintf("scoring service returned %d", resp.StatusCode),
		}
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, &EngineError{
			Kind:    reflectpause.ErrUnreachable,
			Engine:  e.Kind(),
			Message: "malformed scoring response",
			Cause:   err,
		}
	}

	attr, ok := parsed.AttributeScores[e.attribute]
	if !ok {
		return 0, &EngineError{
			Kind:    reflectpause.ErrUnreachable,
			Engine:  e.Kind(),
			Message: "response missing " + e.attribute + " score",
		}
	}

	score := attr.SummaryScore.Value
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	return score, nil
}

// isClientTimeout detects the http.Client's own deadline firing, which
// surfaces as a url.Error with Timeout() true rather than a context
// error.
func isClientTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

var _ ToxicityEngine = (*PerspectiveEngine)(nil)
