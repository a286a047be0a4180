package config

import "github.com/spf13/viper"

// AddOnCatalog is the per-salon menu of legacy add-on descriptors, each in
// "<name> - $<amount>" form. It is loaded once at startup and passed into the
// services that need it; nothing mutates it after load.
type AddOnCatalog struct {
	Salons   map[string][]string
	Defaults []string
}

// defaultSalonAddOns seeds the catalog when no config file overrides it.
var defaultSalonAddOns = map[string][]string{
	"Glow Lounge": {
		"Scalp Massage - $15",
		"Scalp Treatment - $25",
		"Deep Conditioning Treatment - $20",
		"Hair Mask - $22",
		"Hot Oil Treatment - $15",
		"Hair Steaming - $18",
		"Split-End Repair Treatment - $18",
		"Bond Builder Treatment (Olaplex, K18) - $45",
		"Toning / Gloss Refresh - $25",
	},
	"Brows and Locks Salon": {
		"Deep Conditioning Treatment - $20",
		"Scalp Treatment - $25",
		"Split-End Repair Treatment - $18",
		"Hair Mask - $22",
		"Olaplex Treatment - $35",
		"Keratin Smoothing Add-On - $40",
		"Toning / Gloss Refresh - $25",
		"Hot Oil Treatment - $15",
		"Hair Steaming - $18",
		"Extra-Long or Thick-Hair Charge - $15",
		"Curl Definition Add-On - $20",
	},
	"Chic Studio": {
		"Olaplex Treatment - $35",
		"Hair Mask - $22",
		"Deep Conditioning Treatment - $20",
		"Split-End Repair Treatment - $18",
		"Keratin Smoothing Add-On - $40",
		"Toning / Gloss Refresh - $25",
		"Hot Oil Treatment - $15",
		"Scalp Treatment - $25",
		"Hair Steaming - $18",
		"Extra-Long or Thick-Hair Charge - $15",
		"Curl Definition Add-On - $20",
		"Bond Builder Treatment (Olaplex, K18) - $45",
	},
	"Downtown Cuts": {
		"Beard Trim - $10",
		"Beard Line-Up - $8",
		"Razor Shape-Up - $10",
		"Neck Razor Shave - $12",
		"Beard Conditioning - $12",
		"Hot Towel Treatment - $5",
		"Hair Wash / Shampoo - $8",
		"Scalp Massage - $15",
	},
}

var defaultAddOns = []string{
	"Scalp Massage - $15",
	"Hair Wash / Shampoo - $8",
	"Deep Conditioning Treatment - $20",
	"Hot Towel Treatment - $5",
}

// LoadAddOnCatalog builds the catalog from viper, falling back to the seeded
// defaults for any salon not configured.
func LoadAddOnCatalog() AddOnCatalog {
	catalog := AddOnCatalog{
		Salons:   make(map[string][]string, len(defaultSalonAddOns)),
		Defaults: defaultAddOns,
	}
	for salon, addOns := range defaultSalonAddOns {
		catalog.Salons[salon] = addOns
	}

	if configured := viper.GetStringMapStringSlice("salon_add_ons"); len(configured) > 0 {
		for salon, addOns := range configured {
			catalog.Salons[salon] = addOns
		}
	}
	if fallback := viper.GetStringSlice("default_add_ons"); len(fallback) > 0 {
		catalog.Defaults = fallback
	}
	return catalog
}

// ForSalon returns the add-on menu for a salon, or the default menu when the
// salon has no entry of its own.
func (c AddOnCatalog) ForSalon(salon string) []string {
	if addOns, ok := c.Salons[salon]; ok {
		return addOns
	}
	return c.Defaults
}
