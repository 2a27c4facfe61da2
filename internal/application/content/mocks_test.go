package content

import (
	"context"
	"sync"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Post), args.Error(1)
}

func (m *MockPostRepository) FindBySlug(ctx context.Context, slug string) (*content.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Post), args.Error(1)
}

func (m *MockPostRepository) FindAll(ctx context.Context, filter shared.Filter) ([]content.Post, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]content.Post), args.Error(1)
}

func (m *MockPostRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, post *content.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNavbarLinkRepository is a mock implementation of NavbarLinkRepository
type MockNavbarLinkRepository struct {
	mock.Mock
}

func (m *MockNavbarLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.NavbarLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.NavbarLink), args.Error(1)
}

func (m *MockNavbarLinkRepository) FindAll(ctx context.Context) ([]content.NavbarLink, error) {
	args := m.Called(ctx)
	return args.Get(0).([]content.NavbarLink), args.Error(1)
}

func (m *MockNavbarLinkRepository) NextOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockNavbarLinkRepository) Save(ctx context.Context, link *content.NavbarLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockNavbarLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNavbarLinkRepository) Move(ctx context.Context, id uuid.UUID, d content.Direction) error {
	args := m.Called(ctx, id, d)
	return args.Error(0)
}

// MockSiteSettingRepository is a mock implementation of SiteSettingRepository
type MockSiteSettingRepository struct {
	mock.Mock
}

func (m *MockSiteSettingRepository) Get(ctx context.Context) (*content.SiteSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.SiteSetting), args.Error(1)
}

func (m *MockSiteSettingRepository) Save(ctx context.Context, setting *content.SiteSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

// recordingRevalidator collects revalidated tags
type recordingRevalidator struct {
	mu   sync.Mutex
	tags []string
}

func (r *recordingRevalidator) Revalidate(_ context.Context, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tags...)
}

func (r *recordingRevalidator) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tags...)
}
