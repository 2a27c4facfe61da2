// Package handler holds the gin handlers of the storefront, auth and admin API.
package handler

import (
	"errors"
	"net/http"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/logger"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Paginated sends a page of items with pagination meta
func Paginated[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(
		page.Items, page.Total, page.Page, page.PageSize, page.TotalPages,
	))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// HandleError maps an error of a read endpoint to the response envelope
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code, message := errorCode(c, err)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// HandleValidation sends a 400 read envelope for a request that failed binding
func (h *BaseHandler) HandleValidation(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// Action sends the result of a successful admin mutation
func (h *BaseHandler) Action(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.ActionSuccess(message, data))
}

// ActionFailed maps an error of an admin mutation to the action envelope
func (h *BaseHandler) ActionFailed(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code, message := errorCode(c, err)
	c.JSON(dto.GetHTTPStatus(code), dto.ActionError(code, message))
}

// ActionInvalid sends a 400 action result for a request that failed binding
func (h *BaseHandler) ActionInvalid(c *gin.Context, err error) {
	result := dto.ActionError(dto.ErrCodeValidation, middleware.ValidationMessage(err))
	result.Details = middleware.ValidationDetails(err)
	c.JSON(http.StatusBadRequest, result)
}

// errorCode resolves the code and message of err. Domain errors keep their
// own code; anything else is logged and hidden behind INTERNAL_ERROR.
func errorCode(c *gin.Context, err error) (string, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, domainErr.Message
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	_ = c.Error(err)
	return dto.ErrCodeInternal, "An unexpected error occurred"
}

// parseID reads a UUID path parameter
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_ID", "Invalid "+name)
	}
	return id, nil
}
