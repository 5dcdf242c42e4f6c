package repositories

import (
	"agenthub/internal/constants"
	"agenthub/internal/models"
	"agenthub/pkg/mongodb"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository reads and mutates conversation documents. Every
// method takes the owner email and puts it in the query filter.
type ConversationRepository interface {
	FindByOwnerAndAgent(ctx context.Context, email, agentID, search string, page, pageSize int) ([]*models.Conversation, error)
	FindByIDForOwner(ctx context.Context, id primitive.ObjectID, email string) (*models.Conversation, error)
	UpdateTitleForOwner(ctx context.Context, id primitive.ObjectID, email, title string) (bool, error)
	DeleteForOwner(ctx context.Context, id primitive.ObjectID, email string) (bool, error)
}

type conversationRepository struct {
	collection *mongo.Collection
}

func NewConversationRepository(mongoClient *mongodb.MongoDBClient) ConversationRepository {
	return &conversationRepository{
		collection: mongoClient.GetCollectionByName(constants.ConversationCollection),
	}
}

func newConversationRepositoryWithCollection(collection *mongo.Collection) ConversationRepository {
	return &conversationRepository{collection: collection}
}

// listFilter scopes a listing to one owner and agent. The search text is
// matched literally, case-insensitively, anywhere in the title.
func listFilter(email, agentID, search string) bson.M {
	filter := bson.M{
		"email":   email,
		"agentId": agentID,
	}
	if search != "" {
		filter["conversationTitle"] = bson.M{
			"$regex":   regexp.QuoteMeta(search),
			"$options": "i",
		}
	}
	return filter
}

func ownerFilter(id primitive.ObjectID, email string) bson.M {
	return bson.M{"_id": id, "email": email}
}

func (r *conversationRepository) FindByOwnerAndAgent(ctx context.Context, email, agentID, search string, page, pageSize int) ([]*models.Conversation, error) {
	if page < 1 {
		page = 1
	}
	skip := int64((page - 1) * pageSize)
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, listFilter(email, agentID, search), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer cursor.Close(ctx)

	conversations := []*models.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return conversations, nil
}

func (r *conversationRepository) FindByIDForOwner(ctx context.Context, id primitive.ObjectID, email string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.collection.FindOne(ctx, ownerFilter(id, email)).Decode(&conversation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return &conversation, nil
}

func (r *conversationRepository) UpdateTitleForOwner(ctx context.Context, id primitive.ObjectID, email, title string) (bool, error) {
	update := bson.M{"$set": bson.M{
		"conversationTitle": title,
		"updatedAt":         time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, ownerFilter(id, email), update)
	if err != nil {
		return false, fmt.Errorf("failed to update conversation title: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *conversationRepository) DeleteForOwner(ctx context.Context, id primitive.ObjectID, email string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, ownerFilter(id, email))
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	return result.DeletedCount > 0, nil
}
