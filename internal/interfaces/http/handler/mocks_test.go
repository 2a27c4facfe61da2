package handler

import (
	"context"
	"io"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	contentapp "github.com/arghosts/affiliate-shop-sub000/internal/application/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/application/dashboard"
	appidentity "github.com/arghosts/affiliate-shop-sub000/internal/application/identity"
	importapp "github.com/arghosts/affiliate-shop-sub000/internal/application/import"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.ProductRequest, files []catalogapp.ImageFile) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req catalogapp.ProductRequest, files []catalogapp.ImageFile) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, req, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetBySlug(ctx context.Context, slug string) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, filter catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductListItem], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalogapp.ProductListItem]), args.Error(1)
}

// MockNavbarService is a mock implementation of NavbarService
type MockNavbarService struct {
	mock.Mock
}

func (m *MockNavbarService) Create(ctx context.Context, req contentapp.NavbarLinkRequest) (*contentapp.NavbarLinkResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.NavbarLinkResponse), args.Error(1)
}

func (m *MockNavbarService) Update(ctx context.Context, id uuid.UUID, req contentapp.NavbarLinkRequest) (*contentapp.NavbarLinkResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.NavbarLinkResponse), args.Error(1)
}

func (m *MockNavbarService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNavbarService) Move(ctx context.Context, id uuid.UUID, direction string) error {
	args := m.Called(ctx, id, direction)
	return args.Error(0)
}

func (m *MockNavbarService) List(ctx context.Context) ([]contentapp.NavbarLinkResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contentapp.NavbarLinkResponse), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.LoginResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, session *appidentity.SessionIdentity) (*appidentity.AdminResponse, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.AdminResponse), args.Error(1)
}

// MockProductImporter is a mock implementation of ProductImporter
type MockProductImporter struct {
	mock.Mock
}

func (m *MockProductImporter) Import(ctx context.Context, filename string, r io.Reader) (*importapp.ImportResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, filename, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importapp.ImportResult), args.Error(1)
}

// MockImageUploadService is a mock implementation of ImageUploadService
type MockImageUploadService struct {
	mock.Mock
}

func (m *MockImageUploadService) Upload(ctx context.Context, f catalogapp.ImageFile) (*catalogapp.UploadImageResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.UploadImageResponse), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

// MockCategoryService is a mock implementation of CategoryService
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id uuid.UUID, req catalogapp.CategoryRequest) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) List(ctx context.Context, search string) ([]catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]catalogapp.CategoryResponse), args.Error(1)
}

// MockSiteSettingService is a mock implementation of SiteSettingService
type MockSiteSettingService struct {
	mock.Mock
}

func (m *MockSiteSettingService) Get(ctx context.Context) (*contentapp.SiteSettingResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.SiteSettingResponse), args.Error(1)
}

func (m *MockSiteSettingService) Update(ctx context.Context, req contentapp.SiteSettingRequest) (*contentapp.SiteSettingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.SiteSettingResponse), args.Error(1)
}

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context) (*dashboard.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Stats), args.Error(1)
}
