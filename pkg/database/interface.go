package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Database is the handle repositories and the health check need.
type Database interface {
	GetCollection(name string) *mongo.Collection
	CreateIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
}

// MongoDatabase implements Database over a MongoDB database.
type MongoDatabase struct {
	db *mongo.Database
}

func NewMongoDatabase(db *mongo.Database) *MongoDatabase {
	return &MongoDatabase{db: db}
}

func (m *MongoDatabase) GetCollection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

func (m *MongoDatabase) CreateIndexes(ctx context.Context) error {
	return CreateIndexes(ctx, m.db)
}

func (m *MongoDatabase) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}
