package models

import "time"

// Conversation is a multi-turn exchange between one customer and the
// assistant. AppointmentID is filled in once the conversation results in a
// booking.
type Conversation struct {
	ID            string    `bson:"id" json:"id"`
	CustomerID    string    `bson:"customerId" json:"customer_id"`
	AppointmentID string    `bson:"appointmentId,omitempty" json:"appointment_id,omitempty"`
	Title         string    `bson:"title" json:"title"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updated_at"`
}

// ConversationMessage is a single turn. Turns are appended in arrival order
// and never reordered or edited.
type ConversationMessage struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversationId" json:"conversation_id"`
	Role           string    `bson:"role" json:"role"` // "customer" or "assistant"
	Content        string    `bson:"content" json:"content"`
	PhotoURL       string    `bson:"photoUrl,omitempty" json:"photo_url,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"created_at"`
}
