// File: database/repository/conversation/crud.go
package conversationRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chairhop/models"
)

func (r *mongoConversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, conv)
	return err
}

func (r *mongoConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var conv models.Conversation
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *mongoConversationRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *mongoConversationRepo) SetAppointment(ctx context.Context, id, appointmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"appointmentId": appointmentID, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendTurn inserts a turn and bumps the conversation's updatedAt. Turns are
// append-only; there is no update or delete path.
func (r *mongoConversationRepo) AppendTurn(ctx context.Context, turn *models.ConversationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	turn.CreatedAt = time.Now()

	if _, err := r.turns.InsertOne(ctx, turn); err != nil {
		return err
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": turn.ConversationID}, bson.M{
		"$set": bson.M{"updatedAt": turn.CreatedAt},
	})
	return err
}

func (r *mongoConversationRepo) ListTurns(ctx context.Context, conversationID string) ([]models.ConversationMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.turns.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var turns []models.ConversationMessage
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}
