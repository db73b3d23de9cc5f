package db

import (
	"context"

	"github.com/Kotlang/photoFeedGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserProfileRepositoryInterface interface {
	Save(ctx context.Context, model Model) chan error
	FindOneById(ctx context.Context, id string) (chan *models.UserProfileModel, chan error)
	UpdateDisplayName(ctx context.Context, userId, displayName string) (chan *mongo.UpdateResult, chan error)
}

type UserProfileRepository struct {
	AbstractRepository[models.UserProfileModel]
}

func (r *UserProfileRepository) UpdateDisplayName(ctx context.Context, userId, displayName string) (chan *mongo.UpdateResult, chan error) {
	return r.UpdateOne(ctx,
		bson.M{"_id": userId},
		bson.M{"$set": bson.M{"displayName": displayName}},
		options.Update().SetUpsert(true))
}
