package prediction

import "context"

// Repository persists predictions. Upsert is keyed by (group, user, fixture).
type Repository interface {
	ListByGroup(ctx context.Context, groupID string) ([]Prediction, error)
	ListByGroupAndUser(ctx context.Context, groupID, userID string) ([]Prediction, error)
	Upsert(ctx context.Context, item Prediction) (Prediction, error)
}
