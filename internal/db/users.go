package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

// UpsertUser records a login from the identity provider. The username is
// refreshed on every login; the local id is stable across logins.
func (db *DB) UpsertUser(ctx context.Context, providerID, username string) (*User, error) {
	var user User
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (id, provider_id, username)
         VALUES ($1, $2, $3)
         ON CONFLICT (provider_id) DO UPDATE SET username = EXCLUDED.username
         RETURNING id, provider_id, username, created_at`,
		uuid.NewString(), providerID, username,
	).Scan(&user.ID, &user.ProviderID, &user.Username, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
