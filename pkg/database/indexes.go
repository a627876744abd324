package database

import (
	"context"
	"time"

	"onchain-re-lending/pkg/logger"
	"onchain-re-lending/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	KYCCollection   = "kyc_submissions"
	AssetCollection = "assets"
)

// KYCIndexes are the indexes of the kyc_submissions collection.
func KYCIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "kycId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sessionId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "submittedAt", Value: -1}},
		},
	}
}

// AssetIndexes are the indexes of the assets collection. Token ids are unique
// only when present, since a mint may finish without a recoverable id.
func AssetIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "contractAddress", Value: 1}, {Key: "tokenId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"tokenId": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "ownerAddress", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "txHash", Value: 1}},
		},
	}
}

// CreateIndexes creates the indexes for every collection this service owns.
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for collection, models := range map[string][]mongo.IndexModel{
		KYCCollection:   KYCIndexes(),
		AssetCollection: AssetIndexes(),
	} {
		start := time.Now()
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		metrics.MongoOperationDuration.WithLabelValues("create_indexes", collection).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.MongoErrorsTotal.WithLabelValues("create_indexes", collection).Inc()
			logger.GlobalLogger.Errorf("Failed to create indexes: collection=%s, error=%v", collection, err)
			return err
		}
	}

	logger.GlobalLogger.Println("MongoDB indexes created successfully.")
	return nil
}
