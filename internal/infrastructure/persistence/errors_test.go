package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{"nil stays nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, shared.ErrNotFound},
		{"wrapped record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), shared.ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, shared.ErrAlreadyExists},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, shared.ErrAlreadyExists},
		{"wrapped postgres unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), shared.ErrAlreadyExists},
		{"other postgres error passes through", &pgconn.PgError{Code: "23503"}, nil},
		{"unrelated error passes through", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.input)
			switch {
			case tt.input == nil:
				assert.NoError(t, got)
			case tt.expected == nil:
				assert.Equal(t, tt.input, got)
			default:
				assert.ErrorIs(t, got, tt.expected)
			}
		})
	}
}
