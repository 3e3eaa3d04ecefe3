package selection

import (
	"fmt"

	"github.com/yourusername/sharp-picks/internal/models"
)

// maxDriversPerLeg caps the selection-reason strings attached to a leg
const maxDriversPerLeg = 2

// DeriveDrivers builds the human-readable reasons a leg was selected.
// Derivation order is fixed (role, category, fatigue for qualifying
// unders) and the result is truncated to two entries.
func DeriveDrivers(c *models.Candidate, minFatigueScore float64) []string {
	var drivers []string

	if d := roleDriver(c); d != "" {
		drivers = append(drivers, d)
	}
	drivers = append(drivers, categoryDriver(c))
	if c.Direction == models.DirectionUnder && c.FatigueScore >= minFatigueScore {
		drivers = append(drivers, fmt.Sprintf("fatigue signal %.1f supports the under", c.FatigueScore))
	}

	if len(drivers) > maxDriversPerLeg {
		drivers = drivers[:maxDriversPerLeg]
	}
	return drivers
}

func roleDriver(c *models.Candidate) string {
	switch {
	case c.Role == models.RoleStar:
		return "high-usage star with a locked-in workload"
	case c.Role == models.RoleStarter && c.AvgMinutes >= 30:
		return fmt.Sprintf("stable high-minute starter (%.0f mpg)", c.AvgMinutes)
	default:
		return ""
	}
}

func categoryDriver(c *models.Candidate) string {
	switch c.Category {
	case models.CategoryPoints:
		return fmt.Sprintf("scoring volume projects %.1f against a %.1f line", c.ProjectedValue, c.Line)
	case models.CategoryRebounds:
		return "elite positional advantage on the glass"
	case models.CategoryAssists:
		return "primary ball-handler carrying the creation load"
	case models.CategoryThrees:
		return "high-volume three-point profile"
	default:
		return fmt.Sprintf("projection clears the %s line by %.1f", c.Category, c.Edge())
	}
}
