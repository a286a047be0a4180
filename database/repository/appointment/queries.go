// File: database/repository/appointment/queries.go
package appointmentRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chairhop/models"
)

func openFilter() bson.M {
	return bson.M{"status": models.StatusPending, "customerId": ""}
}

func (r *mongoAppointmentRepo) ListOpen(ctx context.Context, filter OpenSlotFilter) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := openFilter()
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	if filter.StylistID != "" {
		query["stylistId"] = filter.StylistID
	}
	if filter.Day != nil {
		dayStart := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
		query["time"] = bson.M{"$gte": dayStart, "$lt": dayStart.AddDate(0, 0, 1)}
	}

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Appointment
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoAppointmentRepo) ListRecentOpen(ctx context.Context, limit int) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, openFilter(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Appointment
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoAppointmentRepo) ListByStylist(ctx context.Context, stylistID string, status *models.AppointmentStatus) ([]models.Appointment, error) {
	query := bson.M{"stylistId": stylistID}
	if status != nil {
		query["status"] = *status
	}
	return r.findSorted(ctx, query)
}

func (r *mongoAppointmentRepo) ListByCustomer(ctx context.Context, customerID string, status *models.AppointmentStatus) ([]models.Appointment, error) {
	query := bson.M{"customerId": customerID}
	if status != nil {
		query["status"] = *status
	}
	return r.findSorted(ctx, query)
}

func (r *mongoAppointmentRepo) findSorted(ctx context.Context, query bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Appointment
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoAppointmentRepo) ListMissingEmbedding(ctx context.Context, limit int) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := openFilter()
	query["embedding"] = bson.M{"$exists": false}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Appointment
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoAppointmentRepo) CountAddOnRefs(ctx context.Context, serviceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"addOns.serviceId": serviceID})
}
