package handler

import (
	"errors"
	"net/http"
	"testing"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupProductRouter(svc *MockProductService) *gin.Engine {
	h := NewProductHandler(svc, nil)
	router := newTestRouter()
	router.GET("/api/v1/products", h.List)
	router.GET("/api/v1/products/:slug", h.GetBySlug)
	router.GET("/api/v1/admin/products/:id", h.GetByID)
	router.POST("/api/v1/admin/products", h.Create)
	router.PUT("/api/v1/admin/products/:id", h.Update)
	router.DELETE("/api/v1/admin/products/:id", h.Delete)
	return router
}

func validProductBody() map[string]any {
	return map[string]any{
		"name": "Robot Vacuum X1",
		"links": []map[string]any{
			{
				"marketplace":  "shopee",
				"original_url": "https://shopee.co.id/robot-vacuum-x1",
				"price":        "Rp 1.250.000",
			},
		},
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		created := &catalogapp.ProductResponse{ID: uuid.New(), Slug: "robot-vacuum-x1", Name: "Robot Vacuum X1"}
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req catalogapp.ProductRequest) bool {
			return req.Name == "Robot Vacuum X1" && len(req.Links) == 1 && req.Links[0].Marketplace == "shopee"
		}), []catalogapp.ImageFile(nil)).Return(created, nil)

		w := doJSON(router, http.MethodPost, "/api/v1/admin/products", validProductBody())

		assert.Equal(t, http.StatusCreated, w.Code)
		result := decodeAction(t, w)
		assert.Equal(t, dto.StatusSuccess, result.Status)
		assert.Equal(t, "Product created", result.Message)
		data, ok := result.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "robot-vacuum-x1", data["slug"])
		svc.AssertExpectations(t)
	})

	t.Run("slug conflict", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, catalogapp.ErrProductSlugExists)

		w := doJSON(router, http.MethodPost, "/api/v1/admin/products", validProductBody())

		assert.Equal(t, http.StatusConflict, w.Code)
		result := decodeAction(t, w)
		assert.Equal(t, dto.StatusError, result.Status)
		assert.Equal(t, dto.ErrCodeAlreadyExists, result.Code)
		assert.Equal(t, "Product with this slug already exists", result.Message)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		w := doJSON(router, http.MethodPost, "/api/v1/admin/products", map[string]any{
			"links": []map[string]any{{"marketplace": "ebay", "original_url": "not a url", "price": "1"}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		result := decodeAction(t, w)
		assert.Equal(t, dto.ErrCodeValidation, result.Code)
		require.NotEmpty(t, result.Details)

		fields := make([]string, 0, len(result.Details))
		for _, d := range result.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "name")
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("multipart with images", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		created := &catalogapp.ProductResponse{ID: uuid.New(), Slug: "robot-vacuum-x1", Name: "Robot Vacuum X1"}
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req catalogapp.ProductRequest) bool {
			return req.Name == "Robot Vacuum X1"
		}), mock.MatchedBy(func(files []catalogapp.ImageFile) bool {
			return len(files) == 2 && files[0].Filename == "front.jpg" && string(files[1].Data) == "back"
		})).Return(created, nil)

		w := doMultipart(router, http.MethodPost, "/api/v1/admin/products",
			map[string]string{"payload": `{"name":"Robot Vacuum X1"}`},
			filePart{field: "images", filename: "front.jpg", data: []byte("front")},
			filePart{field: "images", filename: "back.png", data: []byte("back")},
		)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("multipart payload is validated", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		w := doMultipart(router, http.MethodPost, "/api/v1/admin/products",
			map[string]string{"payload": `{"description":"no name"}`})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeAction(t, w).Code)
	})
}

func TestProductHandler_Update(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		w := doJSON(router, http.MethodPut, "/api/v1/admin/products/not-a-uuid", validProductBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ID", decodeAction(t, w).Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		id := uuid.New()
		svc.On("Update", mock.Anything, id, mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError(dto.ErrCodeNotFound, "Product not found"))

		w := doJSON(router, http.MethodPut, "/api/v1/admin/products/"+id.String(), validProductBody())

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not found", decodeAction(t, w).Message)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	svc := new(MockProductService)
	router := setupProductRouter(svc)

	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := doJSON(router, http.MethodDelete, "/api/v1/admin/products/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted", decodeAction(t, w).Message)
	svc.AssertExpectations(t)
}

func TestProductHandler_List(t *testing.T) {
	t.Run("returns items with meta", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		page := &shared.Paginated[catalogapp.ProductListItem]{
			Items:      []catalogapp.ProductListItem{{ID: uuid.New(), Slug: "a", Name: "A"}},
			Total:      21,
			Page:       2,
			PageSize:   20,
			TotalPages: 2,
		}
		svc.On("List", mock.Anything, catalogapp.ProductListFilter{
			Category: "audio",
			Sort:     "price_asc",
			Page:     2,
		}).Return(page, nil)

		w := doJSON(router, http.MethodGet, "/api/v1/products?category=audio&sort=price_asc&page=2", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(21), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
		svc.AssertExpectations(t)
	})

	t.Run("rejects unknown sort", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		w := doJSON(router, http.MethodGet, "/api/v1/products?sort=random", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})
}

func TestProductHandler_GetBySlug(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		svc.On("GetBySlug", mock.Anything, "robot-vacuum-x1").
			Return(&catalogapp.ProductResponse{ID: uuid.New(), Slug: "robot-vacuum-x1", Name: "Robot Vacuum X1"}, nil)

		w := doJSON(router, http.MethodGet, "/api/v1/products/robot-vacuum-x1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		svc.On("GetBySlug", mock.Anything, "missing").
			Return(nil, shared.NewDomainError(dto.ErrCodeNotFound, "Product not found"))

		w := doJSON(router, http.MethodGet, "/api/v1/products/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("unexpected errors are hidden", func(t *testing.T) {
		svc := new(MockProductService)
		router := setupProductRouter(svc)

		svc.On("GetBySlug", mock.Anything, "boom").Return(nil, errors.New("connection reset"))

		w := doJSON(router, http.MethodGet, "/api/v1/products/boom", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}
