package handler

import (
	"net/http"
	"testing"

	contentapp "github.com/arghosts/affiliate-shop-sub000/internal/application/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupNavbarRouter(svc *MockNavbarService) *gin.Engine {
	h := NewNavbarHandler(svc, nil)
	router := newTestRouter()
	router.GET("/api/v1/navbar", h.List)
	router.POST("/api/v1/admin/navbar", h.Create)
	router.PUT("/api/v1/admin/navbar/:id", h.Update)
	router.DELETE("/api/v1/admin/navbar/:id", h.Delete)
	router.POST("/api/v1/admin/navbar/:id/move", h.Move)
	return router
}

func TestNavbarHandler_List(t *testing.T) {
	svc := new(MockNavbarService)
	router := setupNavbarRouter(svc)

	svc.On("List", mock.Anything).Return([]contentapp.NavbarLinkResponse{
		{ID: uuid.New(), Label: "Home", URL: "/", Order: 0},
		{ID: uuid.New(), Label: "Promo", URL: "/promo", Order: 1},
	}, nil)

	w := doJSON(router, http.MethodGet, "/api/v1/navbar", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	items, ok := decodeResponse(t, w).Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestNavbarHandler_Create(t *testing.T) {
	svc := new(MockNavbarService)
	router := setupNavbarRouter(svc)

	req := contentapp.NavbarLinkRequest{Label: "Promo", URL: "/promo"}
	svc.On("Create", mock.Anything, req).
		Return(&contentapp.NavbarLinkResponse{ID: uuid.New(), Label: "Promo", URL: "/promo", Order: 3}, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/admin/navbar", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Menu link created", decodeAction(t, w).Message)
	svc.AssertExpectations(t)
}

func TestNavbarHandler_Move(t *testing.T) {
	t.Run("moves down", func(t *testing.T) {
		svc := new(MockNavbarService)
		router := setupNavbarRouter(svc)

		id := uuid.New()
		svc.On("Move", mock.Anything, id, "down").Return(nil)

		w := doJSON(router, http.MethodPost, "/api/v1/admin/navbar/"+id.String()+"/move", map[string]string{"direction": "down"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Menu link moved", decodeAction(t, w).Message)
		svc.AssertExpectations(t)
	})

	t.Run("at the edge", func(t *testing.T) {
		svc := new(MockNavbarService)
		router := setupNavbarRouter(svc)

		id := uuid.New()
		svc.On("Move", mock.Anything, id, "up").Return(content.ErrNavbarBoundary)

		w := doJSON(router, http.MethodPost, "/api/v1/admin/navbar/"+id.String()+"/move", map[string]string{"direction": "up"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		result := decodeAction(t, w)
		assert.Equal(t, dto.StatusError, result.Status)
		assert.Equal(t, "NAVBAR_BOUNDARY", result.Code)
	})

	t.Run("unknown direction", func(t *testing.T) {
		svc := new(MockNavbarService)
		router := setupNavbarRouter(svc)

		w := doJSON(router, http.MethodPost, "/api/v1/admin/navbar/"+uuid.NewString()+"/move", map[string]string{"direction": "left"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		result := decodeAction(t, w)
		require.Len(t, result.Details, 1)
		assert.Equal(t, "direction", result.Details[0].Field)
		svc.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNavbarHandler_Delete(t *testing.T) {
	svc := new(MockNavbarService)
	router := setupNavbarRouter(svc)

	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := doJSON(router, http.MethodDelete, "/api/v1/admin/navbar/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Menu link deleted", decodeAction(t, w).Message)
}
