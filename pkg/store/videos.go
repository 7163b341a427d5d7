package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"videotube/pkg/apierr"
	"videotube/pkg/models"
)

func (s *Store) CreateVideo(ctx context.Context, video *models.Video) error {
	db, cancel := s.handle(ctx)
	defer cancel()

	if err := db.Create(video).Error; err != nil {
		return apierr.Upstream(err, "failed to save video")
	}
	return nil
}

// videoOwned loads a video and enforces the ownership scope: invalid id,
// missing row and owner mismatch each get their own classification.
func (s *Store) videoOwned(db *gorm.DB, id, ownerID string) (*models.Video, error) {
	if !validID(id) {
		return nil, apierr.BadRequest("invalid video id")
	}
	var video models.Video
	err := db.First(&video, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("video not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch video")
	}
	if video.OwnerID != ownerID {
		return nil, apierr.Forbidden("unauthorized request")
	}
	return &video, nil
}

func (s *Store) VideoByID(ctx context.Context, id string) (*models.Video, error) {
	if !validID(id) {
		return nil, apierr.BadRequest("invalid video id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var video models.Video
	err := db.First(&video, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("video not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch video")
	}
	return &video, nil
}

// WatchVideo returns a video after atomically counting the view.
func (s *Store) WatchVideo(ctx context.Context, id string) (*models.Video, error) {
	if !validID(id) {
		return nil, apierr.BadRequest("invalid video id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	res := db.Model(&models.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, apierr.Upstream(res.Error, "failed to fetch video")
	}
	if res.RowsAffected == 0 {
		return nil, apierr.NotFound("video not found")
	}
	var video models.Video
	if err := db.First(&video, "id = ?", id).Error; err != nil {
		return nil, apierr.Upstream(err, "failed to fetch video")
	}
	return &video, nil
}

// UpdateVideo changes title and description. The write itself is scoped by
// id AND owner so the ownership check cannot be raced between load and
// update.
func (s *Store) UpdateVideo(ctx context.Context, id, ownerID, title, description string) (*models.Video, error) {
	db, cancel := s.handle(ctx)
	defer cancel()

	video, err := s.videoOwned(db, id, ownerID)
	if err != nil {
		return nil, err
	}
	res := db.Model(&models.Video{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{"title": title, "description": description})
	if res.Error != nil {
		return nil, apierr.Upstream(res.Error, "failed to update video")
	}
	if res.RowsAffected == 0 {
		return nil, apierr.Upstream(errors.New("no rows affected"), "failed to update video")
	}
	video.Title = title
	video.Description = description
	return video, nil
}

func (s *Store) DeleteVideo(ctx context.Context, id, ownerID string) error {
	db, cancel := s.handle(ctx)
	defer cancel()

	if _, err := s.videoOwned(db, id, ownerID); err != nil {
		return err
	}
	res := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Video{})
	if res.Error != nil {
		return apierr.Upstream(res.Error, "failed to delete video")
	}
	if res.RowsAffected == 0 {
		return apierr.Upstream(errors.New("no rows affected"), "failed to delete video")
	}
	return nil
}

// TogglePublish flips the publish flag in a single conditional update and
// reports the state that was reached.
func (s *Store) TogglePublish(ctx context.Context, id, ownerID string) (*models.Video, error) {
	db, cancel := s.handle(ctx)
	defer cancel()

	if _, err := s.videoOwned(db, id, ownerID); err != nil {
		return nil, err
	}
	res := db.Model(&models.Video{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		UpdateColumn("is_published", gorm.Expr("NOT is_published"))
	if res.Error != nil {
		return nil, apierr.Upstream(res.Error, "failed to toggle publish status")
	}
	if res.RowsAffected == 0 {
		return nil, apierr.Upstream(errors.New("no rows affected"), "failed to toggle publish status")
	}
	var video models.Video
	if err := db.First(&video, "id = ?", id).Error; err != nil {
		return nil, apierr.Upstream(err, "failed to fetch video")
	}
	return &video, nil
}
