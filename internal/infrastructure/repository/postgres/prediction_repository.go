package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prode/internal/domain/prediction"
	"github.com/riskibarqy/prode/internal/platform/id"
	qb "github.com/riskibarqy/prode/internal/platform/querybuilder"
)

var _ prediction.Repository = (*PredictionRepository)(nil)

// predictionSlot is the upsert key; submitted_at is kept from the first write.
var (
	predictionSlot    = []string{"group_id", "user_id", "fixture_id"}
	predictionUpdates = []string{"period", "home_pred", "away_pred", "updated_at"}
)

type PredictionRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewPredictionRepository(db *sqlx.DB, ids id.Generator) *PredictionRepository {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &PredictionRepository{db: db, ids: ids}
}

func (r *PredictionRepository) ListByGroup(ctx context.Context, groupID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("group_id", groupID))
}

func (r *PredictionRepository) ListByGroupAndUser(ctx context.Context, groupID, userID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("group_id", groupID), qb.Eq("user_id", userID))
}

func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	if err := item.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("invalid prediction: %w", err)
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return prediction.Prediction{}, err
		}
		item.ID = newID
	}

	model := predictionModelFromDomain(item)
	cols := qb.Columns(model)
	query, args, err := qb.InsertInto(tablePredictions).
		Columns(cols...).
		Values(model.ID, model.GroupID, model.UserID, model.FixtureID, model.Period, model.HomePred, model.AwayPred, model.SubmittedAt, model.UpdatedAt).
		OnConflictUpdate(predictionSlot, predictionUpdates...).
		Suffix("RETURNING " + strings.Join(cols, ", ")).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var stored predictionTableModel
	if err := r.db.GetContext(ctx, &stored, query, args...); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return stored.toDomain(), nil
}

func (r *PredictionRepository) list(ctx context.Context, where ...qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(qb.Columns(predictionTableModel{})...).From(tablePredictions).
		Where(where...).
		OrderBy("submitted_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
