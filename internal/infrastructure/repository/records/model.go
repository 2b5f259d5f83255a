package records

import (
	"strings"
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/prediction"
)

const (
	collectionGroups      = "groups"
	collectionMembers     = "group_members"
	collectionPredictions = "predictions"
)

// Record stores write datetimes as "2006-01-02 15:04:05.000Z"; RFC 3339 is accepted too.
var recordTimeLayouts = []string{
	"2006-01-02 15:04:05.000Z07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339Nano,
}

type groupRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LeagueID int    `json:"league_id"`
	Season   string `json:"season"`
	Owner    string `json:"owner"`
	Created  string `json:"created"`
}

func (r groupRecord) toDomain() group.Group {
	season, stage := competition.DecodeSeason(r.Season)
	return group.Group{
		ID:          r.ID,
		Name:        strings.TrimSpace(r.Name),
		Scope:       competition.Scope{LeagueID: r.LeagueID, Season: season, Stage: stage},
		OwnerUserID: r.Owner,
		CreatedAt:   parseRecordTime(r.Created),
	}
}

type userRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type memberRecord struct {
	ID       string `json:"id"`
	Group    string `json:"group_id"`
	User     string `json:"user_id"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	JoinedAt string `json:"joined_at"`
	Created  string `json:"created"`
	Expand   struct {
		User *userRecord `json:"user_id"`
	} `json:"expand"`
}

func (r memberRecord) toDomain() group.Member {
	joined := parseRecordTime(r.JoinedAt)
	if joined.IsZero() {
		joined = parseRecordTime(r.Created)
	}

	name := ""
	if u := r.Expand.User; u != nil {
		name = strings.TrimSpace(u.Name)
		if name == "" {
			name = strings.TrimSpace(u.Username)
		}
	}

	return group.Member{
		GroupID:     r.Group,
		UserID:      r.User,
		DisplayName: name,
		Role:        group.Role(strings.ToLower(strings.TrimSpace(r.Role))),
		Status:      group.MemberStatus(strings.ToLower(strings.TrimSpace(r.Status))),
		JoinedAt:    joined,
	}
}

type predictionRecord struct {
	ID          string `json:"id,omitempty"`
	Group       string `json:"group_id"`
	User        string `json:"user_id"`
	FixtureID   string `json:"fixture_id"`
	Period      string `json:"period"`
	HomePred    *int   `json:"home_pred"`
	AwayPred    *int   `json:"away_pred"`
	SubmittedAt string `json:"submitted_at,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

func (r predictionRecord) toDomain() prediction.Prediction {
	submitted := parseRecordTime(r.SubmittedAt)
	updated := parseRecordTime(r.Updated)
	if updated.IsZero() {
		updated = submitted
	}
	return prediction.Prediction{
		ID:          r.ID,
		GroupID:     r.Group,
		UserID:      r.User,
		FixtureID:   r.FixtureID,
		Period:      r.Period,
		Home:        r.HomePred,
		Away:        r.AwayPred,
		SubmittedAt: submitted,
		UpdatedAt:   updated,
	}
}

func predictionRecordFromDomain(item prediction.Prediction) predictionRecord {
	return predictionRecord{
		Group:       item.GroupID,
		User:        item.UserID,
		FixtureID:   item.FixtureID,
		Period:      item.Period,
		HomePred:    item.Home,
		AwayPred:    item.Away,
		SubmittedAt: formatRecordTime(item.SubmittedAt),
	}
}

func parseRecordTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range recordTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func formatRecordTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02 15:04:05.000Z")
}
