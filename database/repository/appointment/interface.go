// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"chairhop/database"
	"chairhop/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no appointment matches the lookup.
	ErrNotFound = errors.New("appointment not found")
	// ErrConflict is returned by conditional updates when the stored
	// (status, customer) pair no longer matches the expected value.
	ErrConflict = errors.New("appointment state conflict")
	// ErrDuplicateClaim is returned when a customer already holds a booked slot.
	ErrDuplicateClaim = errors.New("customer already holds a booked slot")
)

// OpenSlotFilter narrows ListOpen results.
type OpenSlotFilter struct {
	Location  string
	StylistID string
	Day       *time.Time // match slots on this calendar day
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)

	ListOpen(ctx context.Context, filter OpenSlotFilter) ([]models.Appointment, error)
	ListRecentOpen(ctx context.Context, limit int) ([]models.Appointment, error)
	ListByStylist(ctx context.Context, stylistID string, status *models.AppointmentStatus) ([]models.Appointment, error)
	ListByCustomer(ctx context.Context, customerID string, status *models.AppointmentStatus) ([]models.Appointment, error)

	// Conditional transitions. Each mutates the slot only when the stored
	// (status, customer) pair still matches the value the caller read, and
	// returns ErrConflict otherwise. A caller acting on a stale snapshot
	// loses cleanly instead of overwriting a concurrent transition.
	ClaimSlot(ctx context.Context, id, customerID, selectedService string, addOns []models.AppointmentAddOn) error
	ConfirmSlot(ctx context.Context, id, customerID string) error
	ReleaseSlot(ctx context.Context, id string, status models.AppointmentStatus, customerID string) error
	CompleteSlot(ctx context.Context, id, customerID string) error
	DeleteOpenSlot(ctx context.Context, id, stylistID string) error

	// Booking claims realize the one-booked-slot-per-customer rule as an
	// atomic insert keyed by customer ID.
	InsertBookingClaim(ctx context.Context, customerID, appointmentID string) error
	RemoveBookingClaim(ctx context.Context, customerID string) error

	SetPaymentStatus(ctx context.Context, id, status string) error
	SetEmbedding(ctx context.Context, id string, vec []float32) error
	ListMissingEmbedding(ctx context.Context, limit int) ([]models.Appointment, error)

	CountAddOnRefs(ctx context.Context, serviceID string) (int64, error)
}

type mongoAppointmentRepo struct {
	coll   *mongo.Collection
	claims *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database("chairhop")
	return &mongoAppointmentRepo{
		coll:   db.Collection("appointments"),
		claims: db.Collection("booking_claims"),
	}
}
