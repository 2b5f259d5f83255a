package httpapi

import (
	"time"

	"github.com/riskibarqy/prode/internal/domain/competition"
	"github.com/riskibarqy/prode/internal/domain/prediction"
	"github.com/riskibarqy/prode/internal/usecase"
)

type predictionRequest struct {
	FixtureID string `json:"fixture_id" validate:"required,max=64"`
	Period    string `json:"period" validate:"required,max=100"`
	Home      *int   `json:"home" validate:"required,min=0,max=99"`
	Away      *int   `json:"away" validate:"required,min=0,max=99"`
}

type guestPredictionRequest struct {
	LeagueID  int    `json:"league_id" validate:"required,gt=0"`
	Season    string `json:"season" validate:"required,max=16"`
	Stage     string `json:"stage" validate:"omitempty,oneof=apertura clausura general"`
	FixtureID string `json:"fixture_id" validate:"required,max=64"`
	Period    string `json:"period" validate:"required,max=100"`
	Home      *int   `json:"home" validate:"required,min=0,max=99"`
	Away      *int   `json:"away" validate:"required,min=0,max=99"`
}

func (r guestPredictionRequest) scope() competition.Scope {
	return competition.NewScope(r.LeagueID, r.Season, r.Stage)
}

type predictionDTO struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	FixtureID   string    `json:"fixture_id"`
	Period      string    `json:"period"`
	Home        *int      `json:"home"`
	Away        *int      `json:"away"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func predictionToDTO(item prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:          item.ID,
		GroupID:     item.GroupID,
		FixtureID:   item.FixtureID,
		Period:      item.Period,
		Home:        item.Home,
		Away:        item.Away,
		SubmittedAt: item.SubmittedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

type guestPredictionDTO struct {
	Scope     string `json:"scope"`
	Period    string `json:"period"`
	FixtureID string `json:"fixture_id"`
	Home      *int   `json:"home"`
	Away      *int   `json:"away"`
}

type groupDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

type groupStandingsDTO struct {
	Group groupDTO            `json:"group"`
	Rows  []usecase.RankedRow `json:"rows"`
	Me    *usecase.RankedRow  `json:"me,omitempty"`
}

func groupStandingsToDTO(item usecase.GroupStandings) groupStandingsDTO {
	rows := item.Rows
	if rows == nil {
		rows = []usecase.RankedRow{}
	}
	return groupStandingsDTO{
		Group: groupDTO{
			ID:    item.Group.ID,
			Name:  item.Group.Name,
			Scope: item.Group.Scope.Key(),
		},
		Rows: rows,
		Me:   item.Me,
	}
}

type sessionDTO struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
