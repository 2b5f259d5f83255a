package group

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type MemberStatus string

const (
	MemberStatusActive MemberStatus = "active"
	MemberStatusLeft   MemberStatus = "left"
	MemberStatusBanned MemberStatus = "banned"
)

// Group is a prediction league locked to one competition scope.
type Group struct {
	ID          string
	Name        string
	Scope       competition.Scope
	OwnerUserID string
	CreatedAt   time.Time
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("group id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group name is required")
	}
	if err := g.Scope.Validate(); err != nil {
		return fmt.Errorf("group scope: %w", err)
	}
	return nil
}

// Member is a user's membership in a group.
type Member struct {
	GroupID     string
	UserID      string
	DisplayName string
	Role        Role
	Status      MemberStatus
	JoinedAt    time.Time
}

// IsActive treats an empty status as active; older records were written without it.
func (m Member) IsActive() bool {
	return m.Status == "" || m.Status == MemberStatusActive
}

// ActiveMembers filters out members that left or were banned.
func ActiveMembers(members []Member) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if m.IsActive() {
			out = append(out, m)
		}
	}
	return out
}
