// File: database/repository/review/interface.go
package reviewRepo

import (
	"context"
	"errors"

	"chairhop/database"
	"chairhop/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("review not found")
	// ErrDuplicate is returned when the appointment already has a review.
	ErrDuplicate = errors.New("appointment already reviewed")
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByAppointment(ctx context.Context, appointmentID string) (*models.Review, error)
	ListByStylist(ctx context.Context, stylistID string) ([]models.Review, error)
}

type mongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo constructs a new MongoDB ReviewRepository.
func NewMongoReviewRepo() ReviewRepository {
	db := database.MongoClient.Database("chairhop")
	return &mongoReviewRepo{
		coll: db.Collection("reviews"),
	}
}
