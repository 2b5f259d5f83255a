package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prode/internal/domain/group"
	qb "github.com/riskibarqy/prode/internal/platform/querybuilder"
)

var _ group.Repository = (*GroupRepository)(nil)

type GroupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	query, args, err := qb.Select(qb.Columns(groupTableModel{})...).From(tableGroups).
		Where(qb.Eq("id", groupID)).
		ToSQL()
	if err != nil {
		return group.Group{}, false, fmt.Errorf("build get group query: %w", err)
	}

	var row groupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return group.Group{}, false, nil
		}
		return group.Group{}, false, fmt.Errorf("get group: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GroupRepository) ListByIDs(ctx context.Context, groupIDs []string) ([]group.Group, error) {
	if len(groupIDs) == 0 {
		return []group.Group{}, nil
	}

	query, args, err := qb.Select(qb.Columns(groupTableModel{})...).From(tableGroups).
		Where(qb.In("id", groupIDs)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list groups query: %w", err)
	}

	var rows []groupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	out := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]group.Member, error) {
	return r.listMembers(ctx, qb.Eq("group_id", groupID))
}

func (r *GroupRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]group.Member, error) {
	return r.listMembers(ctx, qb.Eq("user_id", userID))
}

func (r *GroupRepository) GetMember(ctx context.Context, groupID, userID string) (group.Member, bool, error) {
	query, args, err := qb.Select(qb.Columns(memberTableModel{})...).From(tableMembers).
		Where(qb.Eq("group_id", groupID), qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return group.Member{}, false, fmt.Errorf("build get group member query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return group.Member{}, false, nil
		}
		return group.Member{}, false, fmt.Errorf("get group member: %w", err)
	}
	return row.toDomain(), true, nil
}

// UpsertGroup and UpsertMember exist for seeding; group lifecycle is otherwise managed outside this service.
func (r *GroupRepository) UpsertGroup(ctx context.Context, item group.Group) error {
	query, args, err := qb.UpsertModel(tableGroups, groupModelFromDomain(item), []string{"id"}, "")
	if err != nil {
		return fmt.Errorf("build upsert group query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert group: %w", err)
	}
	return nil
}

func (r *GroupRepository) UpsertMember(ctx context.Context, item group.Member) error {
	query, args, err := qb.UpsertModel(tableMembers, memberModelFromDomain(item), []string{"group_id", "user_id"}, "")
	if err != nil {
		return fmt.Errorf("build upsert group member query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert group member: %w", err)
	}
	return nil
}

func (r *GroupRepository) listMembers(ctx context.Context, where qb.Condition) ([]group.Member, error) {
	query, args, err := qb.Select(qb.Columns(memberTableModel{})...).From(tableMembers).
		Where(where).
		OrderBy("joined_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list group members query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}

	out := make([]group.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
