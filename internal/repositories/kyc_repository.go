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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kycRepository struct {
	collection *mongo.Collection
}

func NewKYCRepository(collection *mongo.Collection) KYCRepository {
	return &kycRepository{collection: collection}
}

func (r *kycRepository) Create(ctx context.Context, submission *models.KYCSubmission) error {
	start := time.Now()
	res, err := r.collection.InsertOne(ctx, submission)
	utils.RecordMongoOperationDuration("insert", database.KYCCollection, start)
	if err != nil {
		utils.RecordMongoError("insert", database.KYCCollection)
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		submission.ID = id
	}
	return nil
}

func (r *kycRepository) FindByKYCID(ctx context.Context, kycID string) (*models.KYCSubmission, error) {
	start := time.Now()
	var submission models.KYCSubmission
	err := r.collection.FindOne(ctx, bson.M{"kycId": kycID}).Decode(&submission)
	utils.RecordMongoOperationDuration("find_one", database.KYCCollection, start)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		utils.RecordMongoError("find_one", database.KYCCollection)
		return nil, err
	}
	return &submission, nil
}

func (r *kycRepository) Review(ctx context.Context, kycID, status, note string, at time.Time) (*models.KYCSubmission, error) {
	filter := bson.M{"kycId": kycID, "status": models.KYCStatusPendingReview}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"reviewNote": note,
		"reviewedAt": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	start := time.Now()
	var submission models.KYCSubmission
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&submission)
	utils.RecordMongoOperationDuration("find_one_and_update", database.KYCCollection, start)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.RecordMongoError("find_one_and_update", database.KYCCollection)
		return nil, err
	}
	return &submission, nil
}
