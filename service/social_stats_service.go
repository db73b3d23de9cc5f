package service

import (
	"context"
	"time"

	"github.com/Kotlang/photoFeedGo/config"
	"github.com/Kotlang/photoFeedGo/db"
	"github.com/Kotlang/photoFeedGo/models"
)

type SocialStatsService struct {
	db      db.SocialDbInterface
	timeout time.Duration
}

func NewSocialStatsService(db db.SocialDbInterface, cfg *config.Config) *SocialStatsService {
	return &SocialStatsService{
		db:      db,
		timeout: cfg.RequestTimeout,
	}
}

// GetStats returns the counters of userId, or of the caller when userId is empty.
func (s *SocialStatsService) GetStats(ctx context.Context, userId string) (*models.SocialStatsModel, error) {
	if len(userId) == 0 {
		session, err := requireSession(ctx)
		if err != nil {
			return nil, err
		}
		userId = session.UserId
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	statsChan, errChan := s.db.SocialStats().GetStats(ctx, userId)
	stats, err := await(ctx, statsChan, errChan)
	if err != nil {
		return nil, storeError(err, "Stats not found.")
	}
	stats.UserId = userId
	return stats, nil
}
