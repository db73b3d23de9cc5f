package db

import (
	"context"
	"errors"

	"github.com/Kotlang/photoFeedGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SocialStatsRepositoryInterface interface {
	GetStats(ctx context.Context, userId string) (chan *models.SocialStatsModel, chan error)
	UpdatePostCount(ctx context.Context, userId string, posts int32) chan error
	UpdateCommentsCount(ctx context.Context, userId string, comments int32) chan error
}

type SocialStatsRepository struct {
	AbstractRepository[models.SocialStatsModel]
}

// GetStats reports zero counters for a user with no stats document yet.
func (r *SocialStatsRepository) GetStats(ctx context.Context, userId string) (chan *models.SocialStatsModel, chan error) {
	statsChan := make(chan *models.SocialStatsModel, 1)
	errChan := make(chan error, 1)

	currentStatsChan, findErrChan := r.FindOneById(ctx, models.GetSocialStatsId(userId))

	go func() {
		select {
		case currentStats := <-currentStatsChan:
			statsChan <- currentStats
		case err := <-findErrChan:
			if errors.Is(err, mongo.ErrNoDocuments) {
				statsChan <- &models.SocialStatsModel{UserId: userId}
				return
			}
			errChan <- err
		}
	}()

	return statsChan, errChan
}

func (r *SocialStatsRepository) UpdatePostCount(ctx context.Context, userId string, posts int32) chan error {
	return r.increment(ctx, userId, "posts", posts)
}

func (r *SocialStatsRepository) UpdateCommentsCount(ctx context.Context, userId string, comments int32) chan error {
	return r.increment(ctx, userId, "comments", comments)
}

func (r *SocialStatsRepository) increment(ctx context.Context, userId, field string, delta int32) chan error {
	done := make(chan error, 1)

	resChan, errChan := r.UpdateOne(ctx,
		bson.M{"_id": models.GetSocialStatsId(userId)},
		bson.M{"$inc": bson.M{field: delta}},
		options.Update().SetUpsert(true))

	go func() {
		select {
		case <-resChan:
			done <- nil
		case err := <-errChan:
			done <- err
		}
	}()

	return done
}
