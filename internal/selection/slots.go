package selection

import (
	"fmt"
	"sort"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/models"
)

// Slot is a named position in the slip with a unique priority rank and
// an acceptance predicate over candidates.
type Slot struct {
	Name    string
	Rank    int
	Accepts func(c *models.Candidate) bool
}

// Slot names of the fixed slip layout
const (
	SlotAnchor = "anchor"
	SlotGlass  = "glass"
	SlotFlex   = "flex"
)

// DefaultSlots builds the fixed three-slot layout. The anchor takes a
// scoring over from a featured role, the glass slot takes a rebounding
// over from the same tiers, and the flex slot takes any allowed
// combination plus wide-edge plays from otherwise excluded categories.
func DefaultSlots(gates *config.GatesConfig, slots *config.SlotsConfig) []Slot {
	featured := func(c *models.Candidate) bool {
		return c.Role == models.RoleStar || c.Role == models.RoleStarter
	}
	return []Slot{
		{
			Name: SlotAnchor,
			Rank: 1,
			Accepts: func(c *models.Candidate) bool {
				return c.Category == models.CategoryPoints &&
					c.Direction == models.DirectionOver &&
					featured(c)
			},
		},
		{
			Name: SlotGlass,
			Rank: 2,
			Accepts: func(c *models.Candidate) bool {
				return c.Category == models.CategoryRebounds &&
					c.Direction == models.DirectionOver &&
					featured(c)
			},
		},
		{
			Name: SlotFlex,
			Rank: 3,
			Accepts: func(c *models.Candidate) bool {
				if containsString(gates.PrivilegedRoles, string(c.Role)) &&
					containsString(gates.AllowedCategories, string(c.Category)) {
					return true
				}
				// Outsized edges buy excluded categories into the flex spot
				return c.Edge() >= slots.FlexWideEdge
			},
		},
	}
}

// ValidateSlots checks the slot table at startup: names and ranks must
// be unique and every slot needs a predicate. Returns a copy sorted by
// rank.
func ValidateSlots(slots []Slot) ([]Slot, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("slot table is empty")
	}

	names := make(map[string]bool, len(slots))
	ranks := make(map[int]bool, len(slots))
	for _, s := range slots {
		if s.Name == "" {
			return nil, fmt.Errorf("slot with rank %d has no name", s.Rank)
		}
		if s.Accepts == nil {
			return nil, fmt.Errorf("slot %s has no acceptance predicate", s.Name)
		}
		if names[s.Name] {
			return nil, fmt.Errorf("duplicate slot name %s", s.Name)
		}
		if ranks[s.Rank] {
			return nil, fmt.Errorf("duplicate slot rank %d (slot %s)", s.Rank, s.Name)
		}
		names[s.Name] = true
		ranks[s.Rank] = true
	}

	ordered := make([]Slot, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Rank < ordered[j].Rank })
	return ordered, nil
}
