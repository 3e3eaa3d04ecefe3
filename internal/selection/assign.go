package selection

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/models"
)

// Leg is one filled slot of a valid slip
type Leg struct {
	Slot      string            `json:"slot"`
	Candidate *models.Candidate `json:"candidate"`
	Drivers   []string          `json:"drivers"`
}

// Slip is the terminal output of one decision cycle. Either every slot
// is filled by a distinct candidate (Valid) or MissingSlots names every
// slot that could not be filled. A partial fill is never valid.
type Slip struct {
	Valid        bool      `json:"valid"`
	Legs         []Leg     `json:"legs,omitempty"`
	MissingSlots []string  `json:"missing_slots,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Outcome carries the slip plus the full gate diagnostics of the cycle
type Outcome struct {
	Slip        Slip         `json:"slip"`
	Evaluations []Evaluation `json:"evaluations"`
}

// Pipeline runs one decision cycle: gate evaluation, then first-fit
// slot assignment. A pipeline is immutable after construction and safe
// to share across concurrent cycles.
type Pipeline struct {
	gates           []Gate
	slots           []Slot
	minFatigueScore float64
}

// NewPipeline validates the slot table and builds a pipeline
func NewPipeline(gatesCfg *config.GatesConfig, slotsCfg *config.SlotsConfig) (*Pipeline, error) {
	slots, err := ValidateSlots(DefaultSlots(gatesCfg, slotsCfg))
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		gates:           Gates(gatesCfg),
		slots:           slots,
		minFatigueScore: gatesCfg.MinFatigueScore,
	}, nil
}

// NewPipelineWithSlots builds a pipeline over a caller-supplied slot
// table; used by tests and non-default slip layouts.
func NewPipelineWithSlots(gatesCfg *config.GatesConfig, slots []Slot) (*Pipeline, error) {
	ordered, err := ValidateSlots(slots)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		gates:           Gates(gatesCfg),
		slots:           ordered,
		minFatigueScore: gatesCfg.MinFatigueScore,
	}, nil
}

// Run takes the cycle's candidate pool through gating and assignment.
// An empty pool is not an error; it yields an invalid slip naming every
// slot as missing, with no evaluations.
func (p *Pipeline) Run(candidates []*models.Candidate) Outcome {
	evaluations := EvaluateAll(candidates, p.gates)

	var eligible []*models.Candidate
	for _, eval := range evaluations {
		if eval.Eligible {
			eligible = append(eligible, eval.Candidate)
		}
	}

	return Outcome{
		Slip:        p.assign(eligible),
		Evaluations: evaluations,
	}
}

// assign fills slots first-fit over candidates ordered by the rank of
// the best slot each could fill, then calibrated confidence descending.
func (p *Pipeline) assign(eligible []*models.Candidate) Slip {
	ordered := make([]*models.Candidate, len(eligible))
	copy(ordered, eligible)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := p.bestRank(ordered[i]), p.bestRank(ordered[j])
		if ri != rj {
			return ri < rj
		}
		return ordered[i].CalibratedConfidence > ordered[j].CalibratedConfidence
	})

	filled := make(map[string]*models.Candidate, len(p.slots))
	placed := make(map[uuid.UUID]bool, len(p.slots))
	for _, c := range ordered {
		// One leg per player; a second prop on an already-placed
		// player never fills another slot.
		if placed[c.PlayerID] {
			continue
		}
		for _, slot := range p.slots {
			if filled[slot.Name] != nil {
				continue
			}
			if slot.Accepts(c) {
				filled[slot.Name] = c
				placed[c.PlayerID] = true
				break
			}
		}
	}

	var missing []string
	for _, slot := range p.slots {
		if filled[slot.Name] == nil {
			missing = append(missing, slot.Name)
		}
	}
	if len(missing) > 0 {
		return Slip{Valid: false, MissingSlots: missing, CreatedAt: time.Now().UTC()}
	}

	legs := make([]Leg, 0, len(p.slots))
	for _, slot := range p.slots {
		c := filled[slot.Name]
		legs = append(legs, Leg{
			Slot:      slot.Name,
			Candidate: c,
			Drivers:   DeriveDrivers(c, p.minFatigueScore),
		})
	}
	return Slip{Valid: true, Legs: legs, CreatedAt: time.Now().UTC()}
}

// bestRank returns the rank of the highest-priority slot the candidate
// could fill, or an over-large rank when none accept it.
func (p *Pipeline) bestRank(c *models.Candidate) int {
	for _, slot := range p.slots {
		if slot.Accepts(c) {
			return slot.Rank
		}
	}
	return 1 << 30
}
