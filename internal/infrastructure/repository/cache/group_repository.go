package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/prode/internal/domain/group"
	basecache "github.com/riskibarqy/prode/internal/platform/cache"
)

var _ group.Repository = (*GroupRepository)(nil)

// GroupRepository memoises group and membership reads. Groups are owned by the
// record store, so entries simply expire with the store TTL.
type GroupRepository struct {
	next  group.Repository
	cache *basecache.Store
}

func NewGroupRepository(next group.Repository, cache *basecache.Store) *GroupRepository {
	return &GroupRepository{next: next, cache: cache}
}

type cachedGroup struct {
	value  group.Group
	exists bool
}

type cachedMember struct {
	value  group.Member
	exists bool
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "group:id:"+groupID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, groupID)
		if err != nil {
			return nil, err
		}
		return cachedGroup{value: item, exists: exists}, nil
	})
	if err != nil {
		return group.Group{}, false, err
	}

	cached, _ := v.(cachedGroup)
	return cached.value, cached.exists, nil
}

func (r *GroupRepository) ListByIDs(ctx context.Context, groupIDs []string) ([]group.Group, error) {
	ids := append([]string(nil), groupIDs...)
	sort.Strings(ids)
	v, err := r.cache.GetOrLoad(ctx, "group:ids:"+strings.Join(ids, ","), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, groupIDs)
		if err != nil {
			return nil, err
		}
		return append([]group.Group(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]group.Group)
	return append([]group.Group(nil), items...), nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]group.Member, error) {
	return r.members(ctx, "group:members:"+groupID, func(ctx context.Context) ([]group.Member, error) {
		return r.next.ListMembers(ctx, groupID)
	})
}

func (r *GroupRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]group.Member, error) {
	return r.members(ctx, "group:memberships:"+userID, func(ctx context.Context) ([]group.Member, error) {
		return r.next.ListMembershipsByUser(ctx, userID)
	})
}

func (r *GroupRepository) GetMember(ctx context.Context, groupID, userID string) (group.Member, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "group:member:"+groupID+":"+userID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetMember(ctx, groupID, userID)
		if err != nil {
			return nil, err
		}
		return cachedMember{value: item, exists: exists}, nil
	})
	if err != nil {
		return group.Member{}, false, err
	}

	cached, _ := v.(cachedMember)
	return cached.value, cached.exists, nil
}

func (r *GroupRepository) members(ctx context.Context, key string, load func(context.Context) ([]group.Member, error)) ([]group.Member, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]group.Member(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]group.Member)
	return append([]group.Member(nil), items...), nil
}
