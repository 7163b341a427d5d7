package store

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"videotube/pkg/apierr"
	"videotube/pkg/models"
	"videotube/pkg/query"
)

// PublicUser is the identity projection joined into views: display fields
// only, never credentials.
type PublicUser struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email,omitempty"`
}

type FeedItem struct {
	ID          string     `json:"id"`
	VideoFile   string     `json:"videoFile"`
	Thumbnail   string     `json:"thumbnail"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Owner       PublicUser `json:"owner"`
}

type FeedPage struct {
	Videos      []FeedItem `json:"videos"`
	TotalVideos int64      `json:"totalVideos"`
	TotalPages  int64      `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
}

type FeedParams struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

// Sortable feed columns. The keys are what clients send; the values are
// what reaches the ORDER BY clause.
var feedSortColumns = map[string]string{
	"createdAt": "videos.created_at",
	"views":     "videos.views",
	"duration":  "videos.duration",
	"title":     "videos.title",
}

type feedRow struct {
	ID            string
	VideoFile     string
	Thumbnail     string
	Title         string
	Description   string
	Duration      float64
	Views         int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
	OwnerEmail    string
}

// Feed assembles the paginated video feed: published videos, optionally
// filtered by owner and by a case-insensitive substring over title or
// description, each row joined with its owner's public identity. One
// joined query per page plus one count of the filtered set.
func (s *Store) Feed(ctx context.Context, params FeedParams) (*FeedPage, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 10
	}
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	column, ok := feedSortColumns[sortBy]
	if !ok {
		return nil, apierr.BadRequest("unsupported sort field %q", sortBy)
	}
	desc := params.SortType != "asc"

	p := query.New("videos").Filter("videos.is_published = ?", true)
	if params.UserID != "" {
		if !validID(params.UserID) {
			return nil, apierr.BadRequest("invalid user id")
		}
		p.Filter("videos.owner_id = ?", params.UserID)
	}
	if params.Query != "" {
		like := "%" + strings.ToLower(params.Query) + "%"
		p.Filter("(LOWER(videos.title) LIKE ? OR LOWER(videos.description) LIKE ?)", like, like)
	}
	p.SortBy(column, desc).
		Join("users", "users.id = videos.owner_id").
		Project(
			"videos.id", "videos.video_file", "videos.thumbnail",
			"videos.title", "videos.description", "videos.duration",
			"videos.views", "videos.created_at", "videos.updated_at",
			"users.username AS owner_username",
			"users.full_name AS owner_full_name",
			"users.avatar AS owner_avatar",
			"users.email AS owner_email",
		).
		Paginate(params.Page, params.Limit)

	db, cancel := s.handle(ctx)
	defer cancel()

	total, err := p.Count(db)
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch videos")
	}
	var rows []feedRow
	if err := p.Run(db, &rows); err != nil {
		return nil, apierr.Upstream(err, "failed to fetch videos")
	}

	page := &FeedPage{
		Videos:      make([]FeedItem, 0, len(rows)),
		TotalVideos: total,
		TotalPages:  (total + int64(params.Limit) - 1) / int64(params.Limit),
		CurrentPage: params.Page,
	}
	for _, r := range rows {
		page.Videos = append(page.Videos, FeedItem{
			ID:          r.ID,
			VideoFile:   r.VideoFile,
			Thumbnail:   r.Thumbnail,
			Title:       r.Title,
			Description: r.Description,
			Duration:    r.Duration,
			Views:       r.Views,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
			Owner: PublicUser{
				Username: r.OwnerUsername,
				FullName: r.OwnerFullName,
				Avatar:   r.OwnerAvatar,
				Email:    r.OwnerEmail,
			},
		})
	}
	return page, nil
}

type PlaylistItem struct {
	ID           string     `json:"id"`
	VideoFile    string     `json:"videoFile"`
	Thumbnail    string     `json:"thumbnail"`
	Title        string     `json:"title"`
	Duration     float64    `json:"duration"`
	Views        int64      `json:"views"`
	OwnerDetails PublicUser `json:"ownerDetails"`
}

type PlaylistView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Videos      []PlaylistItem `json:"videos"`
}

type playlistRow struct {
	VideoID       string
	VideoFile     string
	Thumbnail     string
	Title         string
	Duration      float64
	Views         int64
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

// PlaylistDetail resolves a playlist by id and assembles every member video
// with its owner's identity in one joined query. Playlists are readable by
// anyone holding the id; the owner scope applies to mutations only.
func (s *Store) PlaylistDetail(ctx context.Context, playlistID string) (*PlaylistView, error) {
	if !validID(playlistID) {
		return nil, apierr.BadRequest("invalid playlist id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var playlist models.Playlist
	err := db.First(&playlist, "id = ?", playlistID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("playlist not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch playlist")
	}

	var rows []playlistRow
	err = query.New("playlist_videos").
		Filter("playlist_videos.playlist_id = ?", playlistID).
		SortBy("playlist_videos.created_at", false).
		Join("videos", "videos.id = playlist_videos.video_id").
		Join("users", "users.id = videos.owner_id").
		Project(
			"videos.id AS video_id", "videos.video_file", "videos.thumbnail",
			"videos.title", "videos.duration", "videos.views",
			"users.username AS owner_username",
			"users.full_name AS owner_full_name",
			"users.avatar AS owner_avatar",
		).
		Run(db, &rows)
	if err != nil {
		return nil, apierr.Upstream(err, "server error while fetching playlist")
	}

	view := &PlaylistView{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Videos:      make([]PlaylistItem, 0, len(rows)),
	}
	for _, r := range rows {
		view.Videos = append(view.Videos, PlaylistItem{
			ID:        r.VideoID,
			VideoFile: r.VideoFile,
			Thumbnail: r.Thumbnail,
			Title:     r.Title,
			Duration:  r.Duration,
			Views:     r.Views,
			OwnerDetails: PublicUser{
				Username: r.OwnerUsername,
				FullName: r.OwnerFullName,
				Avatar:   r.OwnerAvatar,
			},
		})
	}
	return view, nil
}

// Subscribers lists the public identity of everyone subscribed to a
// channel: edges joined to users in one query, one record per subscriber.
func (s *Store) Subscribers(ctx context.Context, channelID string) ([]PublicUser, error) {
	if !validID(channelID) {
		return nil, apierr.BadRequest("invalid channel id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var subscribers []PublicUser
	err := query.New("subscriptions").
		Filter("subscriptions.channel_id = ?", channelID).
		SortBy("subscriptions.created_at", false).
		Join("users", "users.id = subscriptions.subscriber_id").
		Project("users.username", "users.full_name", "users.avatar", "users.email").
		Run(db, &subscribers)
	if err != nil {
		return nil, apierr.Upstream(err, "error while fetching subscribers")
	}
	return subscribers, nil
}

// SubscribedChannels is the symmetric view: the channels a user subscribes
// to.
func (s *Store) SubscribedChannels(ctx context.Context, subscriberID string) ([]PublicUser, error) {
	if !validID(subscriberID) {
		return nil, apierr.BadRequest("invalid subscriber id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var channels []PublicUser
	err := query.New("subscriptions").
		Filter("subscriptions.subscriber_id = ?", subscriberID).
		SortBy("subscriptions.created_at", false).
		Join("users", "users.id = subscriptions.channel_id").
		Project("users.username", "users.full_name", "users.avatar", "users.email").
		Run(db, &channels)
	if err != nil {
		return nil, apierr.Upstream(err, "error while fetching channels")
	}
	return channels, nil
}

type TweetView struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Owner     PublicUser `json:"owner"`
}

type tweetRow struct {
	ID            string
	Content       string
	CreatedAt     time.Time
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

func (s *Store) TweetsByUser(ctx context.Context, userID string) ([]TweetView, error) {
	if !validID(userID) {
		return nil, apierr.BadRequest("invalid user id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var rows []tweetRow
	err := query.New("tweets").
		Filter("tweets.owner_id = ?", userID).
		SortBy("tweets.created_at", true).
		Join("users", "users.id = tweets.owner_id").
		Project(
			"tweets.id", "tweets.content", "tweets.created_at",
			"users.username AS owner_username",
			"users.full_name AS owner_full_name",
			"users.avatar AS owner_avatar",
		).
		Run(db, &rows)
	if err != nil {
		return nil, apierr.Upstream(err, "error while fetching user tweets")
	}

	tweets := make([]TweetView, 0, len(rows))
	for _, r := range rows {
		tweets = append(tweets, TweetView{
			ID:        r.ID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
			Owner: PublicUser{
				Username: r.OwnerUsername,
				FullName: r.OwnerFullName,
				Avatar:   r.OwnerAvatar,
			},
		})
	}
	return tweets, nil
}
