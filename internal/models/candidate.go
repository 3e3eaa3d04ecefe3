package models

import (
	"math"

	"github.com/google/uuid"
)

// Direction indicates which side of the line a prop candidate targets
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// Role classifies a player's place in the rotation
type Role string

const (
	RoleStar     Role = "star"
	RoleStarter  Role = "starter"
	RoleSixthMan Role = "sixth_man"
	RoleRotation Role = "rotation"
	RoleBench    Role = "bench"
)

// StatCategory identifies the stat a prop line is written against
type StatCategory string

const (
	CategoryPoints   StatCategory = "points"
	CategoryRebounds StatCategory = "rebounds"
	CategoryAssists  StatCategory = "assists"
	CategoryThrees   StatCategory = "threes"
	CategorySteals   StatCategory = "steals"
	CategoryBlocks   StatCategory = "blocks"
)

// RiskFlag marks a situational hazard attached to a candidate upstream
type RiskFlag string

const (
	RiskFlagInjuryWatch  RiskFlag = "injury_watch"
	RiskFlagLineMovement RiskFlag = "line_movement"
	RiskFlagBlowoutRisk  RiskFlag = "blowout_risk"
	RiskFlagMinutesLimit RiskFlag = "minutes_limit"
)

// Candidate represents a single prop opportunity for one decision cycle.
// It is materialized fresh from a live snapshot by the data-integration
// layer and discarded after the cycle; nothing here mutates it.
type Candidate struct {
	PlayerID             uuid.UUID    `json:"player_id"`
	PlayerName           string       `json:"player_name"`
	Team                 string       `json:"team"`
	Category             StatCategory `json:"category"`
	Line                 float64      `json:"line"`
	Direction            Direction    `json:"direction"`
	ProjectedValue       float64      `json:"projected_value"`
	Uncertainty          float64      `json:"uncertainty"`
	Role                 Role         `json:"role"`
	AvgMinutes           float64      `json:"avg_minutes"`
	RotationVolatile     bool         `json:"rotation_volatile"`
	Infractions          int          `json:"infractions"`
	FatigueScore         float64      `json:"fatigue_score"`
	RiskFlags            []RiskFlag   `json:"risk_flags,omitempty"`
	RawConfidence        float64      `json:"raw_confidence"`
	CalibratedConfidence float64      `json:"calibrated_confidence"`
}

// Edge returns the absolute distance between projection and line
func (c *Candidate) Edge() float64 {
	return math.Abs(c.ProjectedValue - c.Line)
}

// VarianceRatio relates projection uncertainty to the line magnitude.
// The line is floored at 1 so short lines don't blow the ratio up.
func (c *Candidate) VarianceRatio() float64 {
	return c.Uncertainty / math.Max(c.Line, 1)
}

// HasRiskFlag reports whether the candidate carries the given flag
func (c *Candidate) HasRiskFlag(flag RiskFlag) bool {
	for _, f := range c.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}
