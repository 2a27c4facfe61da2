package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowOf(line int, data map[string]string) *Row {
	return &Row{LineNumber: line, Data: data}
}

func TestRowValidator_Validate(t *testing.T) {
	rules := []ColumnRule{
		{Column: "name", Tag: "required,max=10"},
		{Column: "slug", Tag: "min=3", Unique: true},
		{Column: "shopee_price", Tag: "numeric"},
		{Column: "shopee_url", Tag: "http_url"},
	}

	t.Run("valid row", func(t *testing.T) {
		v := NewRowValidator(rules...)
		assert.Empty(t, v.Validate(rowOf(2, map[string]string{
			"name": "Kettle", "slug": "kettle", "shopee_price": "1000", "shopee_url": "https://shopee.co.id/k",
		})))
	})

	t.Run("optional columns may be empty", func(t *testing.T) {
		v := NewRowValidator(rules...)
		assert.Empty(t, v.Validate(rowOf(2, map[string]string{"name": "Kettle"})))
	})

	t.Run("missing required field", func(t *testing.T) {
		v := NewRowValidator(rules...)
		errs := v.Validate(rowOf(3, map[string]string{"name": ""}))
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportRequiredField, errs[0].Code)
		assert.Equal(t, 3, errs[0].Row)
		assert.Equal(t, "name", errs[0].Column)
		assert.Equal(t, "field 'name' is required", errs[0].Message)
	})

	t.Run("length counts characters", func(t *testing.T) {
		v := NewRowValidator(rules...)
		assert.Empty(t, v.Validate(rowOf(2, map[string]string{"name": "Kopi Ñañá"})))

		errs := v.Validate(rowOf(3, map[string]string{"name": strings.Repeat("x", 11), "slug": "ab"}))
		require.Len(t, errs, 2)
		assert.Equal(t, ErrCodeImportInvalidLength, errs[0].Code)
		assert.Equal(t, "length must be at most 10", errs[0].Message)
		assert.Equal(t, "length must be at least 3", errs[1].Message)
	})

	t.Run("type errors", func(t *testing.T) {
		v := NewRowValidator(rules...)
		errs := v.Validate(rowOf(4, map[string]string{
			"name": "Kettle", "shopee_price": "murah", "shopee_url": "shopee.co.id/k",
		}))
		require.Len(t, errs, 2)
		assert.Equal(t, "shopee_price", errs[0].Column)
		assert.Equal(t, ErrCodeImportInvalidType, errs[0].Code)
		assert.Equal(t, "murah", errs[0].Value)
		assert.Equal(t, "shopee_url", errs[1].Column)
		assert.Equal(t, "expected http_url", errs[1].Message)
	})

	t.Run("duplicate within file", func(t *testing.T) {
		v := NewRowValidator(rules...)
		assert.Empty(t, v.Validate(rowOf(2, map[string]string{"name": "A", "slug": "same"})))
		errs := v.Validate(rowOf(3, map[string]string{"name": "B", "slug": "same"}))
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportValidation, errs[0].Code)
		assert.Contains(t, errs[0].Message, "first seen in row 2")

		fresh := NewRowValidator(rules...)
		assert.Empty(t, fresh.Validate(rowOf(4, map[string]string{"name": "C", "slug": "same"})))
	})
}
