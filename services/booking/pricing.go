package booking

import (
	"math"
	"strconv"
	"strings"

	"chairhop/models"
)

// Quote is the derived price breakdown for a slot.
type Quote struct {
	BasePrice  float64 `json:"base_price"`
	AddOnTotal float64 `json:"add_on_total"`
	TotalPrice float64 `json:"total_price"`
}

// ParseServicePrice extracts the dollar amount from a "<name> - $<amount>"
// descriptor. Malformed input yields 0, never an error.
func ParseServicePrice(descriptor string) float64 {
	idx := strings.LastIndex(descriptor, " - $")
	if idx < 0 {
		return 0
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(descriptor[idx+4:]), 64)
	if err != nil || amount < 0 {
		return 0
	}
	return amount
}

// ParseServiceName extracts the name part of a "<name> - $<amount>"
// descriptor, or the whole string when it is not in that form.
func ParseServiceName(descriptor string) string {
	idx := strings.LastIndex(descriptor, " - $")
	if idx < 0 {
		return strings.TrimSpace(descriptor)
	}
	return strings.TrimSpace(descriptor[:idx])
}

// ResolveQuote computes a slot's total price from its selected service and
// attached add-ons. Pure function over already-loaded data; the catalog maps
// service IDs to their current definitions for reference-style add-ons.
func ResolveQuote(apt *models.Appointment, catalog map[string]models.Service) Quote {
	base := ParseServicePrice(apt.SelectedService)

	var addOnTotal float64
	for _, addOn := range apt.AddOns {
		addOnTotal += addOn.FinalPrice(catalog)
	}
	addOnTotal = roundCents(addOnTotal)

	return Quote{
		BasePrice:  base,
		AddOnTotal: addOnTotal,
		TotalPrice: roundCents(base + addOnTotal),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
