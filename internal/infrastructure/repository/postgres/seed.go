package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prode/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo groups and predictions into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM `+tableGroups); err != nil {
		return fmt.Errorf("count groups for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	groups := NewGroupRepository(db)
	for _, item := range memory.SeedGroups() {
		if err := groups.UpsertGroup(ctx, item); err != nil {
			return fmt.Errorf("seed group %s: %w", item.ID, err)
		}
	}
	for _, item := range memory.SeedMembers() {
		if err := groups.UpsertMember(ctx, item); err != nil {
			return fmt.Errorf("seed member %s/%s: %w", item.GroupID, item.UserID, err)
		}
	}

	predictions := NewPredictionRepository(db, nil)
	for _, item := range memory.SeedPredictions(now) {
		if _, err := predictions.Upsert(ctx, item); err != nil {
			return fmt.Errorf("seed prediction %s: %w", item.ID, err)
		}
	}
	return nil
}
