// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"chairhop/models"
)

func (r *mongoAppointmentRepo) Create(ctx context.Context, apt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if apt.ID == "" {
		apt.ID = uuid.New().String()
	}
	now := time.Now()
	apt.CreatedAt = now
	apt.UpdatedAt = now
	if apt.PaymentStatus == "" {
		apt.PaymentStatus = models.PaymentUnpaid
	}

	_, err := r.coll.InsertOne(ctx, apt)
	return err
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var apt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&apt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &apt, nil
}

func (r *mongoAppointmentRepo) SetPaymentStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"paymentStatus": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentRepo) SetEmbedding(ctx context.Context, id string, vec []float32) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"embedding": vec},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
