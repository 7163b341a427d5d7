package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"videotube/pkg/apierr"
	"videotube/pkg/models"
)

func (s *Store) CreateTweet(ctx context.Context, ownerID, content string) (*models.Tweet, error) {
	db, cancel := s.handle(ctx)
	defer cancel()

	tweet := &models.Tweet{OwnerID: ownerID, Content: content}
	if err := db.Create(tweet).Error; err != nil {
		return nil, apierr.Upstream(err, "unable to create tweet")
	}
	return tweet, nil
}

func (s *Store) tweetOwned(db *gorm.DB, id, ownerID string) (*models.Tweet, error) {
	if !validID(id) {
		return nil, apierr.BadRequest("invalid tweet id")
	}
	var tweet models.Tweet
	err := db.First(&tweet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("tweet not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch tweet")
	}
	if tweet.OwnerID != ownerID {
		return nil, apierr.Forbidden("unauthorized request")
	}
	return &tweet, nil
}

func (s *Store) UpdateTweet(ctx context.Context, id, ownerID, content string) (*models.Tweet, error) {
	db, cancel := s.handle(ctx)
	defer cancel()

	tweet, err := s.tweetOwned(db, id, ownerID)
	if err != nil {
		return nil, err
	}
	res := db.Model(&models.Tweet{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("content", content)
	if res.Error != nil {
		return nil, apierr.Upstream(res.Error, "failed to update tweet")
	}
	if res.RowsAffected == 0 {
		return nil, apierr.Upstream(errors.New("no rows affected"), "failed to update tweet")
	}
	tweet.Content = content
	return tweet, nil
}

func (s *Store) DeleteTweet(ctx context.Context, id, ownerID string) error {
	db, cancel := s.handle(ctx)
	defer cancel()

	if _, err := s.tweetOwned(db, id, ownerID); err != nil {
		return err
	}
	res := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Tweet{})
	if res.Error != nil {
		return apierr.Upstream(res.Error, "failed to delete tweet")
	}
	if res.RowsAffected == 0 {
		return apierr.Upstream(errors.New("no rows affected"), "failed to delete tweet")
	}
	return nil
}
