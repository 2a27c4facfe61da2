package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminRepository defines the interface for admin persistence
type AdminRepository interface {
	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)

	// FindByUsername finds an admin by username (case-insensitive)
	FindByUsername(ctx context.Context, username string) (*Admin, error)

	// Save creates or updates an admin
	Save(ctx context.Context, admin *Admin) error

	// Count counts admins
	Count(ctx context.Context) (int64, error)
}
