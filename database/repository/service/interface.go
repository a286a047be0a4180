// File: database/repository/service/interface.go
package serviceRepo

import (
	"context"
	"errors"

	"chairhop/database"
	"chairhop/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("service not found")
	// ErrStillReferenced is returned when a delete is attempted while
	// appointment add-ons still reference the service.
	ErrStillReferenced = errors.New("service is referenced by appointment add-ons")
)

type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.Service, error)
	ListByStylist(ctx context.Context, stylistID string, activeOnly bool) ([]models.Service, error)
	Deactivate(ctx context.Context, id, stylistID string) error
	Delete(ctx context.Context, id, stylistID string, refCount int64) error
}

type mongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo constructs a new MongoDB ServiceRepository.
func NewMongoServiceRepo() ServiceRepository {
	db := database.MongoClient.Database("chairhop")
	return &mongoServiceRepo{
		coll: db.Collection("services"),
	}
}
