package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"videotube/pkg/apierr"
	"videotube/pkg/models"
)

// ToggleSubscription removes the edge if present, creates it if absent, and
// returns the state that was reached (true = now subscribed). Both arms are
// single statements scoped by the pair; the unique index turns a concurrent
// duplicate create into a no-op rather than a second edge.
func (s *Store) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if !validID(channelID) {
		return false, apierr.BadRequest("invalid channel id")
	}
	if subscriberID == channelID {
		return false, apierr.Forbidden("cannot subscribe to your own channel")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var channel models.User
	err := db.First(&channel, "id = ?", channelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apierr.NotFound("channel not found")
	}
	if err != nil {
		return false, apierr.Upstream(err, "failed to fetch channel")
	}

	res := db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, apierr.Upstream(res.Error, "failed to toggle subscription")
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	edge := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	err = db.Create(&edge).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent subscribe; the edge exists.
		return true, nil
	}
	if err != nil {
		return false, apierr.Upstream(err, "failed to subscribe to this channel")
	}
	return true, nil
}
