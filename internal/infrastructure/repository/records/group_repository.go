package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/prode/external/recordstore"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/platform/querybuilder"
)

var _ group.Repository = (*GroupRepository)(nil)

// GroupRepository reads groups and memberships owned by the record store.
type GroupRepository struct {
	client *recordstore.Client
}

func NewGroupRepository(client *recordstore.Client) *GroupRepository {
	return &GroupRepository{client: client}
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	items, err := r.listGroups(ctx, querybuilder.Filter(querybuilder.Eq("id", strings.TrimSpace(groupID))))
	if err != nil {
		return group.Group{}, false, err
	}
	if len(items) == 0 {
		return group.Group{}, false, nil
	}
	return items[0], true, nil
}

func (r *GroupRepository) ListByIDs(ctx context.Context, groupIDs []string) ([]group.Group, error) {
	ids := make([]string, 0, len(groupIDs))
	for _, id := range groupIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []group.Group{}, nil
	}
	return r.listGroups(ctx, querybuilder.Filter(querybuilder.In("id", ids)))
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]group.Member, error) {
	return r.listMembers(ctx, querybuilder.Filter(querybuilder.Eq("group_id", strings.TrimSpace(groupID))))
}

func (r *GroupRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]group.Member, error) {
	return r.listMembers(ctx, querybuilder.Filter(querybuilder.Eq("user_id", strings.TrimSpace(userID))))
}

func (r *GroupRepository) GetMember(ctx context.Context, groupID, userID string) (group.Member, bool, error) {
	items, err := r.listMembers(ctx, querybuilder.Filter(
		querybuilder.Eq("group_id", strings.TrimSpace(groupID)),
		querybuilder.Eq("user_id", strings.TrimSpace(userID)),
	))
	if err != nil {
		return group.Member{}, false, err
	}
	if len(items) == 0 {
		return group.Member{}, false, nil
	}
	return items[0], true, nil
}

func (r *GroupRepository) listGroups(ctx context.Context, filter string) ([]group.Group, error) {
	rows, err := recordstore.ListAll[groupRecord](ctx, r.client, collectionGroups, recordstore.ListQuery{Filter: filter, Sort: "created"})
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	out := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GroupRepository) listMembers(ctx context.Context, filter string) ([]group.Member, error) {
	rows, err := recordstore.ListAll[memberRecord](ctx, r.client, collectionMembers, recordstore.ListQuery{
		Filter: filter,
		Expand: "user_id",
		Sort:   "joined_at,created",
	})
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}

	out := make([]group.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
