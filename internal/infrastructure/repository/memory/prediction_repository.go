package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/prode/internal/domain/prediction"
	"github.com/riskibarqy/prode/internal/platform/id"
)

type predictionKey struct {
	groupID   string
	userID    string
	fixtureID string
}

// PredictionRepository keeps predictions in insertion order per group.
type PredictionRepository struct {
	mu      sync.RWMutex
	ids     id.Generator
	byGroup map[string][]prediction.Prediction
	index   map[predictionKey]int
}

func NewPredictionRepository(ids id.Generator, seed []prediction.Prediction) *PredictionRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	r := &PredictionRepository{
		ids:     ids,
		byGroup: make(map[string][]prediction.Prediction),
		index:   make(map[predictionKey]int),
	}
	for _, item := range seed {
		r.put(item)
	}
	return r
}

func (r *PredictionRepository) ListByGroup(_ context.Context, groupID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byGroup[groupID]
	out := make([]prediction.Prediction, 0, len(items))
	for _, item := range items {
		out = append(out, clonePrediction(item))
	}
	return out, nil
}

func (r *PredictionRepository) ListByGroupAndUser(_ context.Context, groupID, userID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.byGroup[groupID] {
		if item.UserID == userID {
			out = append(out, clonePrediction(item))
		}
	}
	return out, nil
}

// Upsert keeps the original id and submission time when the slot already exists.
func (r *PredictionRepository) Upsert(_ context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	if err := item.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("invalid prediction: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := predictionKey{groupID: item.GroupID, userID: item.UserID, fixtureID: item.FixtureID}
	if pos, ok := r.index[key]; ok {
		existing := r.byGroup[item.GroupID][pos]
		item.ID = existing.ID
		if !existing.SubmittedAt.IsZero() {
			item.SubmittedAt = existing.SubmittedAt
		}
		r.byGroup[item.GroupID][pos] = clonePrediction(item)
		return clonePrediction(item), nil
	}

	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return prediction.Prediction{}, err
		}
		item.ID = newID
	}
	r.put(item)
	return clonePrediction(item), nil
}

func (r *PredictionRepository) put(item prediction.Prediction) {
	key := predictionKey{groupID: item.GroupID, userID: item.UserID, fixtureID: item.FixtureID}
	if pos, ok := r.index[key]; ok {
		r.byGroup[item.GroupID][pos] = clonePrediction(item)
		return
	}
	r.index[key] = len(r.byGroup[item.GroupID])
	r.byGroup[item.GroupID] = append(r.byGroup[item.GroupID], clonePrediction(item))
}

func clonePrediction(item prediction.Prediction) prediction.Prediction {
	if item.Home != nil {
		v := *item.Home
		item.Home = &v
	}
	if item.Away != nil {
		v := *item.Away
		item.Away = &v
	}
	return item
}
