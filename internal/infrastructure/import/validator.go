package csvimport

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ColumnRule checks one column with validator tags, e.g. "required,max=200"
// or "http_url". Empty cells are skipped unless the tag starts with "required".
// Unique rejects a value already seen earlier in the same file.
type ColumnRule struct {
	Column string
	Tag    string
	Unique bool
}

// RowValidator applies column rules to the rows of one file
type RowValidator struct {
	validate *validator.Validate
	rules    []ColumnRule
	seen     map[string]map[string]int // column -> value -> first row
}

// NewRowValidator creates a validator for one import. Rules run in the given
// order so errors come out in column order.
func NewRowValidator(rules ...ColumnRule) *RowValidator {
	return &RowValidator{
		validate: validator.New(),
		rules:    rules,
		seen:     make(map[string]map[string]int),
	}
}

// Validate returns the errors of row, at most one per column
func (v *RowValidator) Validate(row *Row) []RowError {
	var errs []RowError
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" && !strings.HasPrefix(rule.Tag, "required") {
			continue
		}

		if rule.Tag != "" {
			if err := v.validate.Var(value, rule.Tag); err != nil {
				errs = append(errs, tagError(row.LineNumber, rule.Column, value, err))
				continue
			}
		}

		if rule.Unique {
			if first, dup := v.firstSeen(rule.Column, value, row.LineNumber); dup {
				errs = append(errs, NewRowErrorWithValue(row.LineNumber, rule.Column, ErrCodeImportValidation,
					fmt.Sprintf("duplicate value '%s' (first seen in row %d)", value, first), value))
			}
		}
	}
	return errs
}

func (v *RowValidator) firstSeen(column, value string, line int) (int, bool) {
	values := v.seen[column]
	if values == nil {
		values = make(map[string]int)
		v.seen[column] = values
	}
	if first, ok := values[value]; ok {
		return first, true
	}
	values[value] = line
	return 0, false
}

func tagError(line int, column, value string, err error) RowError {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return NewRowErrorWithValue(line, column, ErrCodeImportValidation, err.Error(), value)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return NewRowError(line, column, ErrCodeImportRequiredField, fmt.Sprintf("field '%s' is required", column))
	case "max":
		return NewRowError(line, column, ErrCodeImportInvalidLength, "length must be at most "+fe.Param())
	case "min":
		return NewRowError(line, column, ErrCodeImportInvalidLength, "length must be at least "+fe.Param())
	default:
		return NewRowErrorWithValue(line, column, ErrCodeImportInvalidType, "expected "+fe.Tag(), value)
	}
}
