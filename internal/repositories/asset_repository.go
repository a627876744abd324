package repositories

import (
	"context"
	"time"

	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/utils"
	"onchain-re-lending/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type assetRepository struct {
	collection *mongo.Collection
}

func NewAssetRepository(collection *mongo.Collection) AssetRepository {
	return &assetRepository{collection: collection}
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID.IsZero() {
		asset.ID = primitive.NewObjectID()
	}
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, asset)
	utils.RecordMongoOperationDuration("insert", database.AssetCollection, start)
	if err != nil {
		utils.RecordMongoError("insert", database.AssetCollection)
		return err
	}
	return nil
}

// FindByID looks an asset up by its hex object id. Malformed ids are reported as not found.
func (r *assetRepository) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	start := time.Now()
	var asset models.Asset
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&asset)
	utils.RecordMongoOperationDuration("find_one", database.AssetCollection, start)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		utils.RecordMongoError("find_one", database.AssetCollection)
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) SetLoan(ctx context.Context, id string, loan *models.Loan) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	start := time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"loan": loan}})
	utils.RecordMongoOperationDuration("update", database.AssetCollection, start)
	if err != nil {
		utils.RecordMongoError("update", database.AssetCollection)
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
