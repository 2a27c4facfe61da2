package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the identity and audit stamps embedded in every record
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh ID. Both stamps get the same instant.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// IsNew reports whether the entity was never given an ID
func (e BaseEntity) IsNew() bool {
	return e.ID == uuid.Nil
}
