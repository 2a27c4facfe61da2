package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumns_Clause(t *testing.T) {
	tests := []struct {
		name string
		sort sortColumns
		col  string
		dir  string
		want string
	}{
		{"cheapest first", productSort, "min_price", "asc", "min_price ASC"},
		{"priciest first", productSort, "max_price", "DESC", "max_price DESC"},
		{"empty uses listing default", productSort, "", "", "created_at DESC"},
		{"categories default to name", categorySort, "", "", "name ASC"},
		{"tags keep requested direction", tagSort, "slug", "desc", "slug DESC"},
		{"posts by title", postSort, "  title ", " asc ", "title ASC"},
		{"unknown column", productSort, "password_hash", "asc", "created_at ASC"},
		{"column is case sensitive", categorySort, "NAME", "", "name ASC"},
		{"injected column", productSort, "name; DROP TABLE products;--", "asc", "created_at ASC"},
		{"injected direction", postSort, "title", "ASC; --", "title DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sort.clause(tt.col, tt.dir))
		})
	}
}

func TestSortColumns_StorefrontColumns(t *testing.T) {
	for _, col := range []string{"created_at", "name", "min_price", "max_price"} {
		assert.Equal(t, col, productSort.column(col))
	}
	assert.Equal(t, "created_at", productSort.column("description"))
}
