// File: database/repository/appointment/conditional.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"chairhop/models"
)

// conditionalUpdate applies the update only when the filter still matches,
// reporting ErrConflict when another writer got there first. This is the
// single primitive every status/occupant mutation goes through.
func (r *mongoAppointmentRepo) conditionalUpdate(ctx context.Context, filter, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("conditional update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *mongoAppointmentRepo) ClaimSlot(ctx context.Context, id, customerID, selectedService string, addOns []models.AppointmentAddOn) error {
	filter := bson.M{
		"id":         id,
		"status":     models.StatusPending,
		"customerId": "",
	}
	set := bson.M{
		"status":       models.StatusBooked,
		"customerId":   customerID,
		"everOccupied": true,
		"updatedAt":    time.Now(),
	}
	if selectedService != "" {
		set["selectedService"] = selectedService
	}
	if len(addOns) > 0 {
		set["addOns"] = addOns
	}
	return r.conditionalUpdate(ctx, filter, bson.M{"$set": set})
}

func (r *mongoAppointmentRepo) ConfirmSlot(ctx context.Context, id, customerID string) error {
	filter := bson.M{
		"id":         id,
		"status":     models.StatusPending,
		"customerId": customerID,
	}
	update := bson.M{"$set": bson.M{
		"status":       models.StatusBooked,
		"everOccupied": true,
		"updatedAt":    time.Now(),
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *mongoAppointmentRepo) ReleaseSlot(ctx context.Context, id string, status models.AppointmentStatus, customerID string) error {
	filter := bson.M{
		"id":         id,
		"status":     status,
		"customerId": customerID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":          models.StatusPending,
			"customerId":      "",
			"selectedService": "",
			"updatedAt":       time.Now(),
		},
		"$unset": bson.M{"addOns": ""},
	}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *mongoAppointmentRepo) CompleteSlot(ctx context.Context, id, customerID string) error {
	filter := bson.M{"id": id, "status": models.StatusBooked, "customerId": customerID}
	update := bson.M{"$set": bson.M{
		"status":    models.StatusCompleted,
		"updatedAt": time.Now(),
	}}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *mongoAppointmentRepo) DeleteOpenSlot(ctx context.Context, id, stylistID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":           id,
		"stylistId":    stylistID,
		"status":       models.StatusPending,
		"customerId":   "",
		"everOccupied": bson.M{"$ne": true},
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrConflict
	}
	return nil
}

// bookingClaim pins a customer to at most one booked slot at a time. The
// customer ID is the document key, so two concurrent inserts cannot both
// succeed.
type bookingClaim struct {
	CustomerID    string    `bson:"_id"`
	AppointmentID string    `bson:"appointmentId"`
	CreatedAt     time.Time `bson:"createdAt"`
}

func (r *mongoAppointmentRepo) InsertBookingClaim(ctx context.Context, customerID, appointmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.claims.InsertOne(ctx, bookingClaim{
		CustomerID:    customerID,
		AppointmentID: appointmentID,
		CreatedAt:     time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateClaim
	}
	return err
}

func (r *mongoAppointmentRepo) RemoveBookingClaim(ctx context.Context, customerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.claims.DeleteOne(ctx, bson.M{"_id": customerID})
	return err
}
