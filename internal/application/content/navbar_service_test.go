package content

import (
	"context"
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNavbarService_CreateAppends(t *testing.T) {
	repo := new(MockNavbarLinkRepository)
	revalidator := &recordingRevalidator{}
	svc := NewNavbarService(repo, revalidator, zap.NewNop())

	repo.On("NextOrder", mock.Anything).Return(4, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(l *content.NavbarLink) bool {
		return l.Order == 4 && l.Label == "Blog"
	})).Return(nil)

	resp, err := svc.Create(context.Background(), NavbarLinkRequest{Label: " Blog ", URL: "/blog"})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Order)
	assert.Equal(t, "/blog", resp.URL)
	assert.Equal(t, []string{shared.CacheTagNavbar}, revalidator.Tags())
	repo.AssertExpectations(t)
}

func TestNavbarService_Update(t *testing.T) {
	repo := new(MockNavbarLinkRepository)
	svc := NewNavbarService(repo, &recordingRevalidator{}, zap.NewNop())

	link, err := content.NewNavbarLink("Home", "/", 1)
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, link.ID).Return(link, nil)
	repo.On("Save", mock.Anything, link).Return(nil)

	resp, err := svc.Update(context.Background(), link.ID, NavbarLinkRequest{Label: "Beranda", URL: "/"})
	require.NoError(t, err)
	assert.Equal(t, "Beranda", resp.Label)
	assert.Equal(t, 1, resp.Order)
}

func TestNavbarService_Move(t *testing.T) {
	id := uuid.New()

	t.Run("success revalidates", func(t *testing.T) {
		repo := new(MockNavbarLinkRepository)
		revalidator := &recordingRevalidator{}
		svc := NewNavbarService(repo, revalidator, zap.NewNop())
		repo.On("Move", mock.Anything, id, content.DirectionUp).Return(nil)

		require.NoError(t, svc.Move(context.Background(), id, "UP"))
		assert.Equal(t, []string{shared.CacheTagNavbar}, revalidator.Tags())
	})

	t.Run("boundary is passed through", func(t *testing.T) {
		repo := new(MockNavbarLinkRepository)
		revalidator := &recordingRevalidator{}
		svc := NewNavbarService(repo, revalidator, zap.NewNop())
		repo.On("Move", mock.Anything, id, content.DirectionDown).Return(content.ErrNavbarBoundary)

		err := svc.Move(context.Background(), id, "down")
		assert.ErrorIs(t, err, content.ErrNavbarBoundary)
		assert.Empty(t, revalidator.Tags())
	})

	t.Run("invalid direction", func(t *testing.T) {
		repo := new(MockNavbarLinkRepository)
		svc := NewNavbarService(repo, &recordingRevalidator{}, zap.NewNop())

		err := svc.Move(context.Background(), id, "sideways")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DIRECTION", domainErr.Code)
		repo.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNavbarService_List(t *testing.T) {
	repo := new(MockNavbarLinkRepository)
	svc := NewNavbarService(repo, &recordingRevalidator{}, zap.NewNop())

	home, _ := content.NewNavbarLink("Home", "/", 1)
	blog, _ := content.NewNavbarLink("Blog", "/blog", 2)
	repo.On("FindAll", mock.Anything).Return([]content.NavbarLink{*home, *blog}, nil)

	links, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Home", links[0].Label)
	assert.Equal(t, 2, links[1].Order)
}
