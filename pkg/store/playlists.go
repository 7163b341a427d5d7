package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"videotube/pkg/apierr"
	"videotube/pkg/models"
)

func (s *Store) playlistOwned(db *gorm.DB, id, ownerID string) (*models.Playlist, error) {
	if !validID(id) {
		return nil, apierr.BadRequest("invalid playlist id")
	}
	var playlist models.Playlist
	err := db.First(&playlist, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("playlist not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch playlist")
	}
	if playlist.OwnerID != ownerID {
		return nil, apierr.Forbidden("unauthorized request")
	}
	return &playlist, nil
}

// nameTaken reports whether the owner already has a different playlist with
// this name. The check and the following write are separate statements, so
// a narrow duplicate window remains under concurrency; this is a documented
// limitation rather than a cross-row transaction.
func (s *Store) nameTaken(db *gorm.DB, ownerID, name, excludeID string) (bool, error) {
	var existing models.Playlist
	err := db.First(&existing, "owner_id = ? AND name = ?", ownerID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apierr.Upstream(err, "failed to check playlist name")
	}
	return existing.ID != excludeID, nil
}

func (s *Store) CreatePlaylist(ctx context.Context, ownerID, name, description string) (*models.Playlist, error) {
	db, cancel := s.handle(ctx)
	defer cancel()

	taken, err := s.nameTaken(db, ownerID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apierr.Conflict("playlist with same name exists, try with another name")
	}
	playlist := &models.Playlist{OwnerID: ownerID, Name: name, Description: description}
	if err := db.Create(playlist).Error; err != nil {
		return nil, apierr.Upstream(err, "failed to create playlist")
	}
	return playlist, nil
}

func (s *Store) PlaylistsByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	if !validID(ownerID) {
		return nil, apierr.BadRequest("invalid user id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var playlists []models.Playlist
	if err := db.Where("owner_id = ?", ownerID).Order("created_at").Find(&playlists).Error; err != nil {
		return nil, apierr.Upstream(err, "failed to fetch user playlists")
	}
	return playlists, nil
}

func (s *Store) UpdatePlaylist(ctx context.Context, id, ownerID, name, description string) (*models.Playlist, error) {
	db, cancel := s.handle(ctx)
	defer cancel()

	playlist, err := s.playlistOwned(db, id, ownerID)
	if err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(db, ownerID, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apierr.Conflict("playlist with this name already exists")
	}
	res := db.Model(&models.Playlist{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{"name": name, "description": description})
	if res.Error != nil {
		return nil, apierr.Upstream(res.Error, "failed to update playlist")
	}
	if res.RowsAffected == 0 {
		return nil, apierr.Upstream(errors.New("no rows affected"), "failed to update playlist")
	}
	playlist.Name = name
	playlist.Description = description
	return playlist, nil
}

func (s *Store) DeletePlaylist(ctx context.Context, id, ownerID string) error {
	db, cancel := s.handle(ctx)
	defer cancel()

	if _, err := s.playlistOwned(db, id, ownerID); err != nil {
		return err
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Playlist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("no rows affected")
		}
		return nil
	})
	if err != nil {
		return apierr.Upstream(err, "failed to delete playlist")
	}
	return nil
}

// AddVideo puts a video into the caller's playlist. Membership has set
// semantics: adding a video that is already a member leaves the set
// unchanged. The unique pair index absorbs concurrent duplicate adds.
func (s *Store) AddVideo(ctx context.Context, playlistID, videoID, ownerID string) (*models.Playlist, error) {
	if !validID(videoID) {
		return nil, apierr.BadRequest("invalid video id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	playlist, err := s.playlistOwned(db, playlistID, ownerID)
	if err != nil {
		return nil, err
	}
	var video models.Video
	err = db.First(&video, "id = ?", videoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("video not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch video")
	}

	member := models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	err = db.Where(models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}).
		FirstOrCreate(&member).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierr.Upstream(err, "failed to add video to playlist")
	}
	return playlist, nil
}

func (s *Store) RemoveVideo(ctx context.Context, playlistID, videoID, ownerID string) (*models.Playlist, error) {
	if !validID(videoID) {
		return nil, apierr.BadRequest("invalid video id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	playlist, err := s.playlistOwned(db, playlistID, ownerID)
	if err != nil {
		return nil, err
	}
	res := db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{})
	if res.Error != nil {
		return nil, apierr.Upstream(res.Error, "failed to remove video from playlist")
	}
	if res.RowsAffected == 0 {
		return nil, apierr.NotFound("video not found in this playlist")
	}
	return playlist, nil
}
