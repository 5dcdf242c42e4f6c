package mongodb

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDbConfigModel struct {
	ConnectionUrl string
	DatabaseName  string
}

type MongoDBClient struct {
	Client *mongo.Client
	Config MongoDbConfigModel
}

func InitializeDatabaseConnection(config MongoDbConfigModel) (*MongoDBClient, error) {
	clientOptions := options.Client().ApplyURI(config.ConnectionUrl)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connection error: %w", err)
	}

	// Ping the database to verify connection
	if err := mongoClient.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping error: %w", err)
	}

	log.Println("✨ Connected to MongoDB.")

	return &MongoDBClient{
		Client: mongoClient,
		Config: config,
	}, nil
}

func (client *MongoDBClient) GetCollectionByName(collectionName string) *mongo.Collection {
	return client.Client.Database(client.Config.DatabaseName).Collection(collectionName)
}

// EnsureConversationIndexes backs the owner scoped listing query
func (client *MongoDBClient) EnsureConversationIndexes(ctx context.Context, collectionName string) error {
	_, err := client.GetCollectionByName(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "agentId", Value: 1},
			{Key: "updatedAt", Value: -1},
			{Key: "_id", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create conversation index: %w", err)
	}
	return nil
}

func (client *MongoDBClient) Disconnect(ctx context.Context) error {
	return client.Client.Disconnect(ctx)
}
