package matching

import (
	"context"
	"math"
	"sort"

	appointmentRepo "chairhop/database/repository/appointment"
	"chairhop/models"
	"chairhop/utils"

	"go.uber.org/zap"
)

// DefaultShortlistSize is how many slots a match surfaces when the caller
// does not say otherwise.
const DefaultShortlistSize = 2

// SlotSource is the slice of the appointment repository matching reads from.
type SlotSource interface {
	ListOpen(ctx context.Context, filter appointmentRepo.OpenSlotFilter) ([]models.Appointment, error)
	ListRecentOpen(ctx context.Context, limit int) ([]models.Appointment, error)
}

// DefaultMatcher ranks open slots by euclidean distance between the query
// embedding and each slot's stored embedding.
type DefaultMatcher struct {
	Repo     SlotSource
	Embedder Embedder
}

func NewDefaultMatcher(repo SlotSource, embedder Embedder) *DefaultMatcher {
	return &DefaultMatcher{Repo: repo, Embedder: embedder}
}

func (m *DefaultMatcher) Match(ctx context.Context, query string, limit int) (*Shortlist, error) {
	if limit <= 0 {
		limit = DefaultShortlistSize
	}

	queryVec, err := m.Embedder.Embed(ctx, query)
	if err != nil {
		utils.GetLogger().Warn("query embedding failed, falling back to recency",
			zap.Error(err))
		return m.recencyFallback(ctx, limit)
	}

	open, err := m.Repo.ListOpen(ctx, appointmentRepo.OpenSlotFilter{})
	if err != nil {
		return nil, err
	}

	type scored struct {
		apt  models.Appointment
		dist float64
	}
	candidates := make([]scored, 0, len(open))
	for _, apt := range open {
		if len(apt.Embedding) != len(queryVec) {
			continue // not yet embedded, or embedded under a different model
		}
		candidates = append(candidates, scored{apt: apt, dist: euclidean(queryVec, apt.Embedding)})
	}

	if len(candidates) == 0 {
		return m.recencyFallback(ctx, limit)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].apt.Time.Before(candidates[j].apt.Time)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	slots := make([]models.Appointment, len(candidates))
	for i, c := range candidates {
		slots[i] = c.apt
	}
	return &Shortlist{Slots: slots}, nil
}

func (m *DefaultMatcher) recencyFallback(ctx context.Context, limit int) (*Shortlist, error) {
	recent, err := m.Repo.ListRecentOpen(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &Shortlist{Slots: recent, Degraded: true}, nil
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
