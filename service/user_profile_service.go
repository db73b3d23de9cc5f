package service

import (
	"context"
	"time"

	"github.com/Kotlang/photoFeedGo/config"
	"github.com/Kotlang/photoFeedGo/db"
	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/Kotlang/photoFeedGo/models"
	"go.uber.org/zap"
)

// UserProfileService keeps a local profile document in step with the
// identity service.
type UserProfileService struct {
	db      db.SocialDbInterface
	timeout time.Duration
}

func NewUserProfileService(db db.SocialDbInterface, cfg *config.Config) *UserProfileService {
	return &UserProfileService{
		db:      db,
		timeout: cfg.RequestTimeout,
	}
}

func (s *UserProfileService) GetProfile(ctx context.Context, userId string) (*models.UserProfileModel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	profileChan, errChan := s.db.UserProfile().FindOneById(ctx, userId)
	profile, err := await(ctx, profileChan, errChan)
	if err != nil {
		return nil, storeError(err, "Profile not found.")
	}
	return profile, nil
}

// OnSessionEvent is subscribed to the session store.
func (s *UserProfileService) OnSessionEvent(event identity.SessionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var err error
	switch event.Type {
	case identity.SignedUp:
		profile := &models.UserProfileModel{
			UserId:      event.Session.UserId,
			Email:       event.Session.Email,
			DisplayName: event.Session.DisplayName,
			CreatedOn:   time.Now().UnixMilli(),
		}
		err = awaitErr(ctx, s.db.UserProfile().Save(ctx, profile))
	case identity.ProfileUpdated:
		resChan, errChan := s.db.UserProfile().UpdateDisplayName(ctx, event.Session.UserId, event.Session.DisplayName)
		_, err = await(ctx, resChan, errChan)
	default:
		return
	}

	if err != nil {
		logger.Error("Failed syncing user profile",
			zap.String("event", event.Type.String()),
			zap.String("userId", event.Session.UserId),
			zap.Error(err))
	}
}
