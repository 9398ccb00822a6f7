package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/apitrail/apitrail/internal/models"
)

// UserStore resolves access tokens to users for the auth middleware.
type UserStore struct {
	Base
}

// NewUserStore creates a new UserStore.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

// GetUserByToken looks up a user by access token hash.
func (s *UserStore) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(hash[:])

	var u models.User

	err := s.Pool.QueryRow(ctx,
		"SELECT user_id, username, avatar FROM users WHERE token_hash = $1", tokenHash,
	).Scan(&u.ID, &u.Name, &u.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		return nil, fmt.Errorf("looking up user by token: %w", err)
	}

	return &u, nil
}
