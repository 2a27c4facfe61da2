package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// SetupValidator makes gin's validator report JSON (or form) field names and
// registers the "slug" and "marketplace" tags. Safe to call more than once.
func SetupValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return shared.IsValidSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("marketplace", func(fl validator.FieldLevel) bool {
			_, err := catalog.ParseMarketplace(fl.Field().String())
			return err == nil
		})
	})
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// ValidationMessage summarises a binding error
func ValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return "Request validation failed"
	}
	return "Invalid request body"
}

// ValidationDetails lists the rejected fields of a binding error. Malformed
// bodies have none.
func ValidationDetails(err error) []dto.ValidationDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)}
	}
	return details
}

// HandleValidationError answers 400 with the rejected fields
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest,
		dto.NewValidationErrorResponse(ValidationMessage(err), GetRequestID(c), ValidationDetails(err)))
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"http_url": "Invalid URL format",
	"slug":     "Must be a lowercase slug such as my-product",
}

var boundMessages = map[string]string{
	"min":   "Must be at least ",
	"max":   "Must be at most ",
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"oneof": "Must be one of: ",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if prefix, ok := boundMessages[fe.Tag()]; ok {
		msg := prefix + fe.Param()
		if fe.Kind() == reflect.String && (fe.Tag() == "min" || fe.Tag() == "max") {
			msg += " characters"
		}
		return msg
	}
	if fe.Tag() == "marketplace" {
		names := make([]string, 0, len(catalog.AllMarketplaces()))
		for _, m := range catalog.AllMarketplaces() {
			names = append(names, m.String())
		}
		return "Must be one of: " + strings.Join(names, ", ")
	}
	return "Invalid value"
}
