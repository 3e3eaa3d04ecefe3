package projections

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/sharp-picks/internal/models"
)

// Client fetches prop slates from the projection feed
type Client interface {
	FetchSlate(ctx context.Context, sport, date string) ([]*models.Candidate, error)
	HealthCheck(ctx context.Context) error
}

// slatePayload mirrors the feed's wire format. Numeric prop fields
// arrive as strings and are parsed exactly before conversion.
type slatePayload struct {
	SlateDate string        `json:"slate_date"`
	Sport     string        `json:"sport"`
	Props     []propPayload `json:"props"`
}

type propPayload struct {
	PlayerID         string   `json:"player_id"`
	PlayerName       string   `json:"player_name"`
	Team             string   `json:"team"`
	Category         string   `json:"category"`
	Line             string   `json:"line"`
	Direction        string   `json:"direction"`
	ProjectedValue   string   `json:"projected_value"`
	Uncertainty      string   `json:"uncertainty"`
	Role             string   `json:"role"`
	AvgMinutes       float64  `json:"avg_minutes"`
	RotationVolatile bool     `json:"rotation_volatile"`
	Infractions      int      `json:"infractions"`
	FatigueScore     float64  `json:"fatigue_score"`
	RiskFlags        []string `json:"risk_flags"`
	RawConfidence    float64  `json:"raw_confidence"`
}

// toCandidate converts one wire prop into a domain candidate
func (p propPayload) toCandidate() (*models.Candidate, error) {
	playerID, err := uuid.Parse(p.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad player id %q: %v", ErrInvalidPayload, p.PlayerID, err)
	}

	line, err := decimal.NewFromString(p.Line)
	if err != nil {
		return nil, fmt.Errorf("%w: bad line %q: %v", ErrInvalidPayload, p.Line, err)
	}
	projected, err := decimal.NewFromString(p.ProjectedValue)
	if err != nil {
		return nil, fmt.Errorf("%w: bad projected value %q: %v", ErrInvalidPayload, p.ProjectedValue, err)
	}
	uncertainty, err := decimal.NewFromString(p.Uncertainty)
	if err != nil {
		return nil, fmt.Errorf("%w: bad uncertainty %q: %v", ErrInvalidPayload, p.Uncertainty, err)
	}

	direction := models.Direction(p.Direction)
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidPayload, p.Direction)
	}

	flags := make([]models.RiskFlag, 0, len(p.RiskFlags))
	for _, f := range p.RiskFlags {
		flags = append(flags, models.RiskFlag(f))
	}

	return &models.Candidate{
		PlayerID:         playerID,
		PlayerName:       p.PlayerName,
		Team:             p.Team,
		Category:         models.StatCategory(p.Category),
		Line:             line.InexactFloat64(),
		Direction:        direction,
		ProjectedValue:   projected.InexactFloat64(),
		Uncertainty:      uncertainty.InexactFloat64(),
		Role:             models.Role(p.Role),
		AvgMinutes:       p.AvgMinutes,
		RotationVolatile: p.RotationVolatile,
		Infractions:      p.Infractions,
		FatigueScore:     p.FatigueScore,
		RiskFlags:        flags,
		RawConfidence:    p.RawConfidence,
	}, nil
}
