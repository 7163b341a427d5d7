package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Username   string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName   string    `gorm:"size:255" json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	Password   string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Video struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string    `gorm:"size:36;index;not null" json:"ownerId"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type Playlist struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string    `gorm:"size:36;index;not null" json:"ownerId"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PlaylistVideo is a membership edge. The composite unique index gives the
// playlist set semantics: the same video cannot appear twice.
type PlaylistVideo struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	PlaylistID string    `gorm:"size:36;uniqueIndex:idx_playlist_video;not null" json:"playlistId"`
	VideoID    string    `gorm:"size:36;uniqueIndex:idx_playlist_video;not null" json:"videoId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Subscription is a directed edge from subscriber to channel. Existence of
// the row is the subscription state; the unique index keeps the pair unique
// under concurrent toggles.
type Subscription struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	SubscriberID string    `gorm:"size:36;uniqueIndex:idx_subscriber_channel;not null" json:"subscriberId"`
	ChannelID    string    `gorm:"size:36;uniqueIndex:idx_subscriber_channel;not null" json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type Tweet struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"size:36;index;not null" json:"ownerId"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
