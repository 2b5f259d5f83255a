package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/prode/external/recordstore"
	"github.com/riskibarqy/prode/internal/domain/prediction"
	"github.com/riskibarqy/prode/internal/platform/querybuilder"
)

var _ prediction.Repository = (*PredictionRepository)(nil)

type PredictionRepository struct {
	client *recordstore.Client
}

func NewPredictionRepository(client *recordstore.Client) *PredictionRepository {
	return &PredictionRepository{client: client}
}

func (r *PredictionRepository) ListByGroup(ctx context.Context, groupID string) ([]prediction.Prediction, error) {
	return r.list(ctx, querybuilder.Filter(querybuilder.Eq("group_id", strings.TrimSpace(groupID))))
}

func (r *PredictionRepository) ListByGroupAndUser(ctx context.Context, groupID, userID string) ([]prediction.Prediction, error) {
	return r.list(ctx, querybuilder.Filter(
		querybuilder.Eq("group_id", strings.TrimSpace(groupID)),
		querybuilder.Eq("user_id", strings.TrimSpace(userID)),
	))
}

// Upsert looks the (group, user, fixture) slot up first; the record store has no native upsert.
// The original submission time is kept on update.
func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	if err := item.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("invalid prediction: %w", err)
	}

	existing, err := r.list(ctx, querybuilder.Filter(
		querybuilder.Eq("group_id", item.GroupID),
		querybuilder.Eq("user_id", item.UserID),
		querybuilder.Eq("fixture_id", item.FixtureID),
	))
	if err != nil {
		return prediction.Prediction{}, err
	}

	body := predictionRecordFromDomain(item)
	var stored predictionRecord
	if len(existing) == 0 {
		if err := r.client.Create(ctx, collectionPredictions, body, &stored); err != nil {
			return prediction.Prediction{}, fmt.Errorf("create prediction: %w", err)
		}
		return stored.toDomain(), nil
	}

	current := existing[0]
	if !current.SubmittedAt.IsZero() {
		body.SubmittedAt = formatRecordTime(current.SubmittedAt)
	}
	if err := r.client.Update(ctx, collectionPredictions, current.ID, body, &stored); err != nil {
		return prediction.Prediction{}, fmt.Errorf("update prediction: %w", err)
	}
	return stored.toDomain(), nil
}

func (r *PredictionRepository) list(ctx context.Context, filter string) ([]prediction.Prediction, error) {
	rows, err := recordstore.ListAll[predictionRecord](ctx, r.client, collectionPredictions, recordstore.ListQuery{
		Filter: filter,
		Sort:   "submitted_at,created",
	})
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
