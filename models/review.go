package models

import "time"

// Review is a customer's star rating of a completed appointment. Each
// appointment takes at most one review, keyed by the appointment ID.
type Review struct {
	AppointmentID string    `bson:"_id" json:"appointment_id"`
	CustomerID    string    `bson:"customerId" json:"customer_id"`
	StylistID     string    `bson:"stylistId" json:"stylist_id"`
	Rating        int       `bson:"rating" json:"rating"` // 1 to 5
	Content       string    `bson:"content" json:"content"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
}
