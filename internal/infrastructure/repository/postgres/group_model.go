package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/group"
)

const (
	tableGroups      = "prode_groups"
	tableMembers     = "group_members"
	tablePredictions = "predictions"
)

type groupTableModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	LeagueID    int       `db:"league_id"`
	Season      string    `db:"season"`
	Stage       string    `db:"stage"`
	OwnerUserID string    `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m groupTableModel) toDomain() group.Group {
	return group.Group{
		ID:          m.ID,
		Name:        m.Name,
		Scope:       competition.NewScope(m.LeagueID, m.Season, m.Stage),
		OwnerUserID: m.OwnerUserID,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func groupModelFromDomain(item group.Group) groupTableModel {
	stage := item.Scope.Stage
	if stage == "" {
		stage = competition.StageGeneral
	}
	return groupTableModel{
		ID:          item.ID,
		Name:        item.Name,
		LeagueID:    item.Scope.LeagueID,
		Season:      item.Scope.Season,
		Stage:       string(stage),
		OwnerUserID: item.OwnerUserID,
		CreatedAt:   item.CreatedAt.UTC(),
	}
}

type memberTableModel struct {
	GroupID     string         `db:"group_id"`
	UserID      string         `db:"user_id"`
	DisplayName sql.NullString `db:"display_name"`
	Role        string         `db:"role"`
	Status      string         `db:"status"`
	JoinedAt    time.Time      `db:"joined_at"`
}

func (m memberTableModel) toDomain() group.Member {
	return group.Member{
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		DisplayName: m.DisplayName.String,
		Role:        group.Role(m.Role),
		Status:      group.MemberStatus(m.Status),
		JoinedAt:    m.JoinedAt.UTC(),
	}
}

func memberModelFromDomain(item group.Member) memberTableModel {
	status := item.Status
	if status == "" {
		status = group.MemberStatusActive
	}
	return memberTableModel{
		GroupID:     item.GroupID,
		UserID:      item.UserID,
		DisplayName: sql.NullString{String: item.DisplayName, Valid: item.DisplayName != ""},
		Role:        string(item.Role),
		Status:      string(status),
		JoinedAt:    item.JoinedAt.UTC(),
	}
}
