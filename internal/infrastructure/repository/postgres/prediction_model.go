package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/prode/internal/domain/prediction"
)

type predictionTableModel struct {
	ID          string        `db:"id"`
	GroupID     string        `db:"group_id"`
	UserID      string        `db:"user_id"`
	FixtureID   string        `db:"fixture_id"`
	Period      string        `db:"period"`
	HomePred    sql.NullInt64 `db:"home_pred"`
	AwayPred    sql.NullInt64 `db:"away_pred"`
	SubmittedAt time.Time     `db:"submitted_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:          m.ID,
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		FixtureID:   m.FixtureID,
		Period:      m.Period,
		Home:        nullInt64ToIntPtr(m.HomePred),
		Away:        nullInt64ToIntPtr(m.AwayPred),
		SubmittedAt: m.SubmittedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func predictionModelFromDomain(item prediction.Prediction) predictionTableModel {
	return predictionTableModel{
		ID:          item.ID,
		GroupID:     item.GroupID,
		UserID:      item.UserID,
		FixtureID:   item.FixtureID,
		Period:      item.Period,
		HomePred:    intPtrToNullInt64(item.Home),
		AwayPred:    intPtrToNullInt64(item.Away),
		SubmittedAt: item.SubmittedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}
