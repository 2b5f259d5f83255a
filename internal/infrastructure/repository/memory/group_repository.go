package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prode/internal/domain/group"
)

type GroupRepository struct {
	mu            sync.RWMutex
	groups        map[string]group.Group
	members       map[string][]group.Member
	userGroupKeys map[string][]string
}

func NewGroupRepository(groups []group.Group, members []group.Member) *GroupRepository {
	r := &GroupRepository{
		groups:        make(map[string]group.Group, len(groups)),
		members:       make(map[string][]group.Member),
		userGroupKeys: make(map[string][]string),
	}
	for _, item := range groups {
		r.groups[item.ID] = item
	}
	for _, m := range members {
		r.members[m.GroupID] = append(r.members[m.GroupID], m)
		r.userGroupKeys[m.UserID] = append(r.userGroupKeys[m.UserID], m.GroupID)
	}
	return r
}

func (r *GroupRepository) GetByID(_ context.Context, groupID string) (group.Group, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.groups[groupID]
	return item, ok, nil
}

func (r *GroupRepository) ListByIDs(_ context.Context, groupIDs []string) ([]group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]group.Group, 0, len(groupIDs))
	for _, id := range groupIDs {
		if item, ok := r.groups[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *GroupRepository) ListMembers(_ context.Context, groupID string) ([]group.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.members[groupID]
	out := make([]group.Member, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *GroupRepository) ListMembershipsByUser(_ context.Context, userID string) ([]group.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]group.Member, 0)
	for _, groupID := range r.userGroupKeys[userID] {
		for _, m := range r.members[groupID] {
			if m.UserID == userID {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (r *GroupRepository) GetMember(_ context.Context, groupID, userID string) (group.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members[groupID] {
		if m.UserID == userID {
			return m, true, nil
		}
	}
	return group.Member{}, false, nil
}
