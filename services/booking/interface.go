package booking

import (
	"context"

	appointmentRepo "chairhop/database/repository/appointment"
	"chairhop/models"
)

// CreateSlotInput is the stylist-provided definition of a new availability slot.
type CreateSlotInput struct {
	Time     string `json:"time" binding:"required"` // RFC 3339
	Location string `json:"location" binding:"required"`
	Salon    string `json:"salon"`
	Services string `json:"services"`
}

// BookRequest carries the customer's choices for a booking.
type BookRequest struct {
	SelectedService string             `json:"selected_service,omitempty"`
	AddOns          []models.AddOnSpec `json:"add_ons,omitempty"`
}

// EmbeddingQueue schedules the asynchronous embedding of a slot. Enqueue
// failures are logged and never block slot creation.
type EmbeddingQueue interface {
	EnqueueSlotEmbedding(ctx context.Context, appointmentID string) error
}

// BookingService is the appointment lifecycle engine.
type BookingService interface {
	CreateSlot(ctx context.Context, actor Actor, input CreateSlotInput) (*models.Appointment, error)
	GetSlot(ctx context.Context, id string) (*models.Appointment, error)
	ListOpenSlots(ctx context.Context, filter appointmentRepo.OpenSlotFilter) ([]models.Appointment, error)
	ListMine(ctx context.Context, actor Actor, status *models.AppointmentStatus) ([]models.Appointment, error)

	Book(ctx context.Context, actor Actor, id string, req BookRequest) (*models.Appointment, error)
	Accept(ctx context.Context, actor Actor, id string) (*models.Appointment, error)
	Cancel(ctx context.Context, actor Actor, id string) (*models.Appointment, error)
	Complete(ctx context.Context, actor Actor, id string) (*models.Appointment, error)
	Delete(ctx context.Context, actor Actor, id string) error

	Quote(ctx context.Context, id string) (*Quote, error)
	RelevantAddOns(apt *models.Appointment) []string
	ValidateAddOns(ctx context.Context, apt *models.Appointment, specs []models.AddOnSpec) ([]models.AppointmentAddOn, error)
}
