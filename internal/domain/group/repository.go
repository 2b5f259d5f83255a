package group

import "context"

// Repository describes read access to groups and memberships. Group lifecycle
// is owned by the record store; this service only consumes it.
type Repository interface {
	GetByID(ctx context.Context, groupID string) (Group, bool, error)
	ListByIDs(ctx context.Context, groupIDs []string) ([]Group, error)
	ListMembers(ctx context.Context, groupID string) ([]Member, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]Member, error)
	GetMember(ctx context.Context, groupID, userID string) (Member, bool, error)
}
