package domain

import "fmt"

// FormatPeriodLabel renders the human-readable heading for a period. The
// year appears once when both bounds share it and on both sides otherwise.
func FormatPeriodLabel(mode string, rng DateRange) string {
	sameYear := rng.Start.Year() == rng.End.Year()

	switch mode {
	case ViewModeWeekly:
		return fmt.Sprintf("7 weeks ending %s", rng.End.Format("Jan 2, 2006"))

	case ViewModeMonthly:
		if sameYear {
			return fmt.Sprintf("%s - %s %d", rng.Start.Format("Jan"), rng.End.Format("Jan"), rng.End.Year())
		}
		return fmt.Sprintf("%s - %s", rng.Start.Format("Jan 2006"), rng.End.Format("Jan 2006"))

	default:
		if sameYear {
			return fmt.Sprintf("%s - %s", rng.Start.Format("Jan 2"), rng.End.Format("Jan 2, 2006"))
		}
		return fmt.Sprintf("%s - %s", rng.Start.Format("Jan 2, 2006"), rng.End.Format("Jan 2, 2006"))
	}
}
