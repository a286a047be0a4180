package models

import "time"

// AppointmentStatus is persisted as a small integer. Values are part of the
// stored history and must never be renumbered.
type AppointmentStatus int

const (
	StatusPending   AppointmentStatus = 0
	StatusBooked    AppointmentStatus = 1
	StatusCompleted AppointmentStatus = 2
	// StatusCancelled is retained so historical records written by earlier
	// revisions still deserialize. Cancelling a slot reopens it to pending
	// instead of producing this value.
	StatusCancelled AppointmentStatus = 3
)

func (s AppointmentStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusBooked:
		return "booked"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Payment status tags written by the external payment flow. The core treats
// them as opaque.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Appointment is a bookable chair-time slot owned by a stylist.
type Appointment struct {
	ID              string             `bson:"id" json:"id"`
	StylistID       string             `bson:"stylistId" json:"stylist_id"`
	StylistName     string             `bson:"stylistName" json:"stylist_name"`
	CustomerID      string             `bson:"customerId" json:"customer_id,omitempty"` // empty while unoccupied
	Time            time.Time          `bson:"time" json:"time"`
	Location        string             `bson:"location" json:"location"`
	Salon           string             `bson:"salon" json:"salon"`
	Services        string             `bson:"services" json:"services"`                           // free-text menu offered in this slot
	SelectedService string             `bson:"selectedService" json:"selected_service,omitempty"`  // "<name> - $<amount>", set at booking
	Status          AppointmentStatus  `bson:"status" json:"status"`
	PaymentStatus   string             `bson:"paymentStatus" json:"payment_status"`
	AddOns          []AppointmentAddOn `bson:"addOns,omitempty" json:"add_ons,omitempty"`
	EverOccupied    bool               `bson:"everOccupied,omitempty" json:"-"` // once occupied, the slot keeps its history and cannot be hard-deleted
	Embedding       []float32          `bson:"embedding,omitempty" json:"-"` // set asynchronously, nil until then
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Open reports whether the slot can still be claimed by a customer.
func (a *Appointment) Open() bool {
	return a.Status == StatusPending && a.CustomerID == ""
}
