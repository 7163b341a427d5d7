// Package store is the persistence layer: normalized entity collections,
// the ownership guard around mutations, and the assembled read views.
// Every call runs under a deadline derived from the request context.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"videotube/pkg/apierr"
	"videotube/pkg/models"
)

const defaultTimeout = 10 * time.Second

type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

func New(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{db: db, timeout: timeout}
}

// handle returns a context-bound gorm handle with the per-request store
// deadline applied.
func (s *Store) handle(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(tctx), cancel
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	db, cancel := s.handle(ctx)
	defer cancel()

	err := db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierr.Conflict("username or email already in use")
	}
	if err != nil {
		return apierr.Upstream(err, "failed to create user")
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	db, cancel := s.handle(ctx)
	defer cancel()

	var user models.User
	err := db.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("user not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch user")
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, apierr.BadRequest("invalid user id")
	}
	db, cancel := s.handle(ctx)
	defer cancel()

	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("user not found")
	}
	if err != nil {
		return nil, apierr.Upstream(err, "failed to fetch user")
	}
	return &user, nil
}
