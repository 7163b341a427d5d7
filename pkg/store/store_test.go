package store

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"videotube/pkg/apierr"
	"videotube/pkg/database"
	"videotube/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return New(db, 5*time.Second)
}

func createUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		FullName: "User " + username,
		Avatar:   "https://cdn.example.com/" + username + ".png",
		Password: "hashed",
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createVideo(t *testing.T, s *Store, owner *models.User, title string, published bool) *models.Video {
	t.Helper()
	video := &models.Video{
		OwnerID:     owner.ID,
		VideoFile:   "https://cdn.example.com/" + title + ".m3u8",
		Thumbnail:   "https://cdn.example.com/" + title + ".jpg",
		Title:       title,
		Description: "about " + title,
		Duration:    42,
		IsPublished: published,
	}
	require.NoError(t, s.CreateVideo(context.Background(), video))
	return video
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return apierr.StatusOf(err)
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, "alice")

	dup := &models.User{Username: "alice", Email: "other@example.com"}
	err := s.CreateUser(context.Background(), dup)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestVideoOwnershipGuard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	mallory := createUser(t, s, "mallory")
	video := createVideo(t, s, alice, "holiday", true)

	t.Run("invalid id", func(t *testing.T) {
		_, err := s.UpdateVideo(ctx, "not-a-uuid", alice.ID, "t", "d")
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("missing video", func(t *testing.T) {
		_, err := s.UpdateVideo(ctx, "00000000-0000-0000-0000-000000000000", alice.ID, "t", "d")
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("non-owner update rejected and entity unchanged", func(t *testing.T) {
		_, err := s.UpdateVideo(ctx, video.ID, mallory.ID, "stolen", "stolen")
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))

		got, err := s.VideoByID(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, "holiday", got.Title)
	})

	t.Run("non-owner delete rejected", func(t *testing.T) {
		err := s.DeleteVideo(ctx, video.ID, mallory.ID)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))

		_, err = s.VideoByID(ctx, video.ID)
		assert.NoError(t, err)
	})

	t.Run("owner update applies", func(t *testing.T) {
		updated, err := s.UpdateVideo(ctx, video.ID, alice.ID, "new title", "new description")
		require.NoError(t, err)
		assert.Equal(t, "new title", updated.Title)

		got, err := s.VideoByID(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, "new title", got.Title)
		assert.Equal(t, "new description", got.Description)
	})

	t.Run("owner delete applies", func(t *testing.T) {
		require.NoError(t, s.DeleteVideo(ctx, video.ID, alice.ID))
		_, err := s.VideoByID(ctx, video.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestTogglePublishAlternates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	video := createVideo(t, s, alice, "holiday", true)

	v, err := s.TogglePublish(ctx, video.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, v.IsPublished)

	v, err = s.TogglePublish(ctx, video.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, v.IsPublished)
}

func TestTogglePublishNonOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	mallory := createUser(t, s, "mallory")
	video := createVideo(t, s, alice, "holiday", true)

	_, err := s.TogglePublish(ctx, video.ID, mallory.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	got, err := s.VideoByID(ctx, video.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
}

func TestWatchVideoCountsViews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	video := createVideo(t, s, alice, "holiday", true)

	for i := 1; i <= 3; i++ {
		got, err := s.WatchVideo(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.Views)
	}
}

func TestSubscriptionToggleAlternates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	subscribed, err := s.ToggleSubscription(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = s.ToggleSubscription(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	subscribers, err := s.Subscribers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, subscribers)
}

func TestSelfSubscriptionForbidden(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	_, err := s.ToggleSubscription(ctx, alice.ID, alice.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	// The same outcome regardless of prior state.
	_, err = s.ToggleSubscription(ctx, alice.ID, alice.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestSubscribeUnknownChannel(t *testing.T) {
	s := newTestStore(t)
	alice := createUser(t, s, "alice")

	_, err := s.ToggleSubscription(context.Background(), alice.ID, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = s.ToggleSubscription(context.Background(), alice.ID, "nonsense")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestPlaylistNameConflictPerOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	_, err := s.CreatePlaylist(ctx, alice.ID, "Favorites", "x")
	require.NoError(t, err)

	_, err = s.CreatePlaylist(ctx, alice.ID, "Favorites", "y")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	// A different owner may reuse the name.
	_, err = s.CreatePlaylist(ctx, bob.ID, "Favorites", "z")
	assert.NoError(t, err)
}

func TestPlaylistRenameConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")

	first, err := s.CreatePlaylist(ctx, alice.ID, "Favorites", "x")
	require.NoError(t, err)
	second, err := s.CreatePlaylist(ctx, alice.ID, "Watch Later", "y")
	require.NoError(t, err)

	// Renaming onto another playlist's name conflicts.
	_, err = s.UpdatePlaylist(ctx, second.ID, alice.ID, "Favorites", "y")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	// Renaming a playlist to its own current name is allowed.
	updated, err := s.UpdatePlaylist(ctx, first.ID, alice.ID, "Favorites", "new description")
	require.NoError(t, err)
	assert.Equal(t, "new description", updated.Description)
}

func TestPlaylistMembershipSetSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	video := createVideo(t, s, bob, "holiday", true)

	playlist, err := s.CreatePlaylist(ctx, alice.ID, "Favorites", "x")
	require.NoError(t, err)

	_, err = s.AddVideo(ctx, playlist.ID, video.ID, alice.ID)
	require.NoError(t, err)

	// Adding an existing member is a no-op, not an error.
	_, err = s.AddVideo(ctx, playlist.ID, video.ID, alice.ID)
	require.NoError(t, err)

	view, err := s.PlaylistDetail(ctx, playlist.ID)
	require.NoError(t, err)
	require.Len(t, view.Videos, 1)

	_, err = s.RemoveVideo(ctx, playlist.ID, video.ID, alice.ID)
	require.NoError(t, err)

	// Removing a video that is not a member fails.
	_, err = s.RemoveVideo(ctx, playlist.ID, video.ID, alice.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestPlaylistMembershipOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	carol := createUser(t, s, "carol")
	video := createVideo(t, s, bob, "holiday", true)

	playlist, err := s.CreatePlaylist(ctx, alice.ID, "Favorites", "x")
	require.NoError(t, err)

	_, err = s.AddVideo(ctx, playlist.ID, video.ID, carol.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	view, err := s.PlaylistDetail(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Videos)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = s.AddVideo(ctx, playlist.ID, missing, alice.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestPlaylistDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	video := createVideo(t, s, alice, "holiday", true)

	playlist, err := s.CreatePlaylist(ctx, alice.ID, "Favorites", "x")
	require.NoError(t, err)
	_, err = s.AddVideo(ctx, playlist.ID, video.ID, alice.ID)
	require.NoError(t, err)

	err = s.DeletePlaylist(ctx, playlist.ID, bob.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	require.NoError(t, s.DeletePlaylist(ctx, playlist.ID, alice.ID))
	_, err = s.PlaylistDetail(ctx, playlist.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestTweetOwnershipGuard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	mallory := createUser(t, s, "mallory")

	tweet, err := s.CreateTweet(ctx, alice.ID, "hello world")
	require.NoError(t, err)

	_, err = s.UpdateTweet(ctx, tweet.ID, mallory.ID, "defaced")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	err = s.DeleteTweet(ctx, tweet.ID, mallory.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	tweets, err := s.TweetsByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, "hello world", tweets[0].Content)

	updated, err := s.UpdateTweet(ctx, tweet.ID, alice.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, s.DeleteTweet(ctx, tweet.ID, alice.ID))
	tweets, err = s.TweetsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tweets)
}
