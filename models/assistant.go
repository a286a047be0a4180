package models

// Assistant action types, set by the external interpretation layer once it
// has read the user's turn.
const (
	ActionSelect    = "select"     // lock onto one slot from the last shortlist
	ActionBook      = "book"       // book the locked slot
	ActionNewSearch = "new_search" // explicit request to restart the search
)

// AssistantRequest is the payload coming into /api/chat/message.
type AssistantRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	PhotoURL       string `json:"photo_url,omitempty"`

	// Structured intent, filled in by the language layer. Empty Action means
	// a plain search/chat turn.
	Action          string      `json:"action,omitempty"`
	SlotID          string      `json:"slot_id,omitempty"`
	SelectedService string      `json:"selected_service,omitempty"`
	AddOns          []AddOnSpec `json:"add_ons,omitempty"`
}

// AddOnSpec names a requested add-on: a catalog service ID, or a legacy
// descriptor in "<name> - $<amount>" form.
type AddOnSpec struct {
	ServiceID  string `json:"service_id,omitempty"`
	Descriptor string `json:"descriptor,omitempty"`
}

// AssistantResponse is returned to the chat client.
type AssistantResponse struct {
	ConversationID string        `json:"conversation_id"`
	Reply          string        `json:"reply"`
	Shortlist      []Appointment `json:"shortlist,omitempty"`
	Degraded       bool          `json:"degraded,omitempty"` // true when the shortlist is recency-based, not semantic
	LockedSlotID   string        `json:"locked_slot_id,omitempty"`
	Booked         bool          `json:"booked,omitempty"`
}
