package matching

import (
	"context"
	"fmt"

	"chairhop/models"
)

// MatchError is a typed embedding/matching failure.
type MatchError struct {
	Code    string
	Message string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrEmbeddingUnavailable: the provider could not embed the query.
	// Matching falls back to recency and flags the result as degraded.
	ErrEmbeddingUnavailable = &MatchError{Code: "embedding_unavailable", Message: "embedding provider unavailable"}
	// ErrRateLimited: the provider rejected the call for quota reasons.
	ErrRateLimited = &MatchError{Code: "rate_limited", Message: "embedding provider rate limited"}
)

// Embedder turns free text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Shortlist is the outcome of a match. Degraded means the semantic path
// failed and Slots were picked by recency instead of similarity.
type Shortlist struct {
	Slots    []models.Appointment
	Degraded bool
}

// Matcher finds open slots relevant to a customer's request.
type Matcher interface {
	Match(ctx context.Context, query string, limit int) (*Shortlist, error)
}
