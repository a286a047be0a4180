package booking

import (
	"testing"

	"chairhop/models"

	"github.com/stretchr/testify/assert"
)

func TestParseServicePrice(t *testing.T) {
	cases := []struct {
		descriptor string
		want       float64
	}{
		{"Balayage - $150", 150},
		{"Scalp Massage - $15", 15},
		{"Bond Builder Treatment (Olaplex, K18) - $45", 45},
		{"Toning / Gloss Refresh - $25.50", 25.5},
		{"Cut - $0", 0},
		{"Just a haircut", 0},
		{"Trim - $abc", 0},
		{"", 0},
		{"Weird - $-5", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseServicePrice(tc.descriptor), "descriptor %q", tc.descriptor)
	}
}

func TestParseServiceName(t *testing.T) {
	assert.Equal(t, "Balayage", ParseServiceName("Balayage - $150"))
	assert.Equal(t, "Bond Builder Treatment (Olaplex, K18)", ParseServiceName("Bond Builder Treatment (Olaplex, K18) - $45"))
	assert.Equal(t, "Just a haircut", ParseServiceName("Just a haircut"))
}

func TestResolveQuoteLegacyAddOns(t *testing.T) {
	apt := &models.Appointment{
		SelectedService: "Silk Press - $85",
		AddOns: []models.AppointmentAddOn{
			{ServiceName: "Scalp Massage", Price: 15},
			{ServiceName: "Hair Mask", Price: 22},
		},
	}

	q := ResolveQuote(apt, nil)
	assert.Equal(t, 85.0, q.BasePrice)
	assert.Equal(t, 37.0, q.AddOnTotal)
	assert.Equal(t, 122.0, q.TotalPrice)
}

func TestResolveQuoteCatalogAddOns(t *testing.T) {
	apt := &models.Appointment{
		SelectedService: "Knotless Braids - $200",
		AddOns: []models.AppointmentAddOn{
			{ServiceID: "svc-1"},
			{ServiceName: "Hot Oil Treatment", Price: 15},
		},
	}
	catalog := map[string]models.Service{
		"svc-1": {ID: "svc-1", Name: "Beaded Ends", PriceCents: 2550},
	}

	q := ResolveQuote(apt, catalog)
	assert.Equal(t, 200.0, q.BasePrice)
	assert.Equal(t, 40.5, q.AddOnTotal)
	assert.Equal(t, 240.5, q.TotalPrice)
}

func TestResolveQuoteDanglingCatalogRef(t *testing.T) {
	// A reference whose service is gone contributes zero rather than failing.
	apt := &models.Appointment{
		SelectedService: "Fade - $40",
		AddOns:          []models.AppointmentAddOn{{ServiceID: "missing"}},
	}

	q := ResolveQuote(apt, map[string]models.Service{})
	assert.Equal(t, 40.0, q.TotalPrice)
}

func TestResolveQuoteNoSelectedService(t *testing.T) {
	apt := &models.Appointment{}
	q := ResolveQuote(apt, nil)
	assert.Equal(t, 0.0, q.BasePrice)
	assert.Equal(t, 0.0, q.TotalPrice)
}
