// File: database/repository/conversation/interface.go
package conversationRepo

import (
	"context"
	"errors"

	"chairhop/database"
	"chairhop/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("conversation not found")

type ConversationRepository interface {
	Create(ctx context.Context, conv *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Conversation, error)
	SetAppointment(ctx context.Context, id, appointmentID string) error

	AppendTurn(ctx context.Context, turn *models.ConversationMessage) error
	ListTurns(ctx context.Context, conversationID string) ([]models.ConversationMessage, error)
}

type mongoConversationRepo struct {
	coll  *mongo.Collection
	turns *mongo.Collection
}

// NewMongoConversationRepo constructs a new MongoDB ConversationRepository.
func NewMongoConversationRepo() ConversationRepository {
	db := database.MongoClient.Database("chairhop")
	return &mongoConversationRepo{
		coll:  db.Collection("conversations"),
		turns: db.Collection("conversation_messages"),
	}
}
