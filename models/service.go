package models

import "time"

// Service is a catalog entry owned by a stylist. Prices are stored in cents.
// A service referenced by appointment add-ons cannot be deleted, only
// deactivated.
type Service struct {
	ID         string    `bson:"id" json:"id"`
	StylistID  string    `bson:"stylistId" json:"stylist_id"`
	Name       string    `bson:"name" json:"name"`
	PriceCents int       `bson:"priceCents" json:"price_cents"`
	Active     bool      `bson:"active" json:"active"`
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updated_at"`
}

// Price returns the price in dollars.
func (s Service) Price() float64 {
	return float64(s.PriceCents) / 100.0
}
