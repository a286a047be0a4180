package matching

import (
	"fmt"
	"strings"
	"time"

	"chairhop/models"
)

// SlotSummary renders the canonical text embedded for a slot. The same slot
// always yields the same summary, so re-embedding is idempotent.
func SlotSummary(apt *models.Appointment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Time: %s\n", apt.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "Location: %s\n", apt.Location)
	fmt.Fprintf(&sb, "Salon: %s\n", apt.Salon)
	fmt.Fprintf(&sb, "Stylist: %s\n", apt.StylistName)
	fmt.Fprintf(&sb, "Services: %s", apt.Services)
	return sb.String()
}
