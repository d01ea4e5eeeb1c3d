package model

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User domain object defining the profile of a user
// swagger:model
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is the credentials record of a user. Its ID is shared with the users profile.
// swagger:model
type Identity struct {
	ID               string         `gorm:"primarykey;type:uuid" json:"id"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Email            string         `gorm:"index;unique" json:"email"`
	EmailToken       uuid.UUID      `gorm:"unique;type:uuid" json:"-"`
	Validated        bool           `json:"validated"`
	Password         string         `json:"-"`
	PasswordToken    sql.NullString `gorm:"unique" json:"-"`
	PasswordTokenTTL uint           `json:"-"`
}

type contextKey int

var userKey contextKey

// NewContextWithUser returns a new [context.Context] that carries value user.
func NewContextWithUser(ctx context.Context, user *Identity) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in ctx, if any.
func GetUserFromContext(ctx context.Context) (*Identity, bool) {
	u, ok := ctx.Value(userKey).(*Identity)
	return u, ok
}
