// Package selection qualifies live prop candidates through independent
// gates and assembles them into a fixed set of named slip slots. All
// decision logic is pure and driven by injected configuration.
package selection

import (
	"fmt"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/models"
)

// GateResult is the verdict of one gate for one candidate. Reason is
// set on failure and is always retained for diagnostics.
type GateResult struct {
	Gate   string `json:"gate"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// Gate is a single pass/fail qualification rule
type Gate interface {
	Name() string
	Evaluate(c *models.Candidate) GateResult
}

// Gates returns the five qualification gates in evaluation order.
// Eligibility is the conjunction of all of them, so the order only
// affects diagnostic listing.
func Gates(cfg *config.GatesConfig) []Gate {
	return []Gate{
		&rotationGate{cfg: cfg},
		&categoryGate{cfg: cfg},
		&edgeGate{cfg: cfg},
		&underScrutinyGate{cfg: cfg},
		&confidenceGate{cfg: cfg},
	}
}

// rotationGate requires a privileged role, a stable rotation spot,
// a tolerable infraction count and enough observed floor time.
type rotationGate struct {
	cfg *config.GatesConfig
}

func (g *rotationGate) Name() string { return "rotation" }

func (g *rotationGate) Evaluate(c *models.Candidate) GateResult {
	if !containsString(g.cfg.PrivilegedRoles, string(c.Role)) {
		return fail(g, "role %s is not in the privileged rotation tiers", c.Role)
	}
	if c.RotationVolatile {
		return fail(g, "rotation spot flagged volatile")
	}
	if c.Infractions > g.cfg.MaxInfractions {
		return fail(g, "infractions %d exceed ceiling %d", c.Infractions, g.cfg.MaxInfractions)
	}
	if c.AvgMinutes < g.cfg.MinAvgMinutes {
		return fail(g, "avg minutes %.1f below floor %.1f", c.AvgMinutes, g.cfg.MinAvgMinutes)
	}
	return pass(g)
}

// categoryGate hard-blocks every stat category outside the allowed tiers
type categoryGate struct {
	cfg *config.GatesConfig
}

func (g *categoryGate) Name() string { return "category" }

func (g *categoryGate) Evaluate(c *models.Candidate) GateResult {
	if !containsString(g.cfg.AllowedCategories, string(c.Category)) {
		return fail(g, "category %s is outside the allowed tiers", c.Category)
	}
	return pass(g)
}

// edgeGate requires the projection to clear the line by a margin that
// scales with projection uncertainty and never drops below an absolute
// floor. Both conditions are required.
type edgeGate struct {
	cfg *config.GatesConfig
}

func (g *edgeGate) Name() string { return "edge" }

func (g *edgeGate) Evaluate(c *models.Candidate) GateResult {
	edge := c.Edge()
	required := c.Uncertainty * g.cfg.EdgeMultiplier
	if edge < required {
		return fail(g, "edge %.2f below uncertainty-scaled minimum %.2f", edge, required)
	}
	if edge <= g.cfg.EdgeFloor {
		return fail(g, "edge %.2f does not clear absolute floor %.2f", edge, g.cfg.EdgeFloor)
	}
	return pass(g)
}

// underScrutinyGate applies extra checks to under legs only; overs pass
// trivially. Unders need a real decline signal, contained variance and
// no blowout or minutes-limit hazard.
type underScrutinyGate struct {
	cfg *config.GatesConfig
}

func (g *underScrutinyGate) Name() string { return "under_scrutiny" }

func (g *underScrutinyGate) Evaluate(c *models.Candidate) GateResult {
	if c.Direction != models.DirectionUnder {
		return pass(g)
	}
	if c.FatigueScore < g.cfg.MinFatigueScore {
		return fail(g, "fatigue score %.2f below minimum %.2f", c.FatigueScore, g.cfg.MinFatigueScore)
	}
	if ratio := c.VarianceRatio(); ratio > g.cfg.MaxVarianceRatio {
		return fail(g, "variance ratio %.2f exceeds maximum %.2f", ratio, g.cfg.MaxVarianceRatio)
	}
	if c.HasRiskFlag(models.RiskFlagBlowoutRisk) {
		return fail(g, "blowout risk flag present")
	}
	if c.HasRiskFlag(models.RiskFlagMinutesLimit) {
		return fail(g, "minutes limit flag present")
	}
	return pass(g)
}

// confidenceGate requires the calibrated confidence to clear the floor
// and blocks the two disqualifying risk flags.
type confidenceGate struct {
	cfg *config.GatesConfig
}

func (g *confidenceGate) Name() string { return "confidence" }

func (g *confidenceGate) Evaluate(c *models.Candidate) GateResult {
	if c.CalibratedConfidence <= g.cfg.MinConfidence {
		return fail(g, "calibrated confidence %.1f at or below floor %.1f", c.CalibratedConfidence, g.cfg.MinConfidence)
	}
	if c.HasRiskFlag(models.RiskFlagInjuryWatch) {
		return fail(g, "injury watch flag present")
	}
	if c.HasRiskFlag(models.RiskFlagLineMovement) {
		return fail(g, "adverse line movement flag present")
	}
	return pass(g)
}

// Evaluation is the full gate record for one candidate
type Evaluation struct {
	Candidate *models.Candidate `json:"candidate"`
	Results   []GateResult      `json:"results"`
	Eligible  bool              `json:"eligible"`
}

// FailureReasons returns the retained reasons of every failed gate
func (e Evaluation) FailureReasons() []string {
	var reasons []string
	for _, r := range e.Results {
		if !r.Passed {
			reasons = append(reasons, r.Reason)
		}
	}
	return reasons
}

// EvaluateCandidate runs every gate against the candidate. All gates
// are always evaluated so no failure reason is lost to short-circuiting.
func EvaluateCandidate(c *models.Candidate, gates []Gate) Evaluation {
	eval := Evaluation{Candidate: c, Eligible: true}
	for _, g := range gates {
		result := g.Evaluate(c)
		eval.Results = append(eval.Results, result)
		if !result.Passed {
			eval.Eligible = false
		}
	}
	return eval
}

// EvaluateAll evaluates every candidate in the pool
func EvaluateAll(candidates []*models.Candidate, gates []Gate) []Evaluation {
	evals := make([]Evaluation, 0, len(candidates))
	for _, c := range candidates {
		evals = append(evals, EvaluateCandidate(c, gates))
	}
	return evals
}

func pass(g Gate) GateResult {
	return GateResult{Gate: g.Name(), Passed: true}
}

func fail(g Gate, format string, args ...interface{}) GateResult {
	return GateResult{Gate: g.Name(), Passed: false, Reason: fmt.Sprintf(format, args...)}
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
