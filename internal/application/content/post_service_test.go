package content

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleBlocks = `[{"type":"header","data":{"text":"Review","level":2}},{"type":"paragraph","data":{"text":"Headset <b>murah</b> dengan bass mantap."}}]`

func TestPostService_Create(t *testing.T) {
	repo := new(MockPostRepository)
	revalidator := &recordingRevalidator{}
	svc := NewPostService(repo, revalidator, zap.NewNop())

	repo.On("Save", mock.Anything, mock.AnythingOfType("*content.Post")).Return(nil)

	resp, err := svc.Create(context.Background(), PostRequest{
		Title:      "Review Headset Gaming",
		Content:    json.RawMessage(sampleBlocks),
		ShopeeLink: "https://shopee.co.id/headset",
	})
	require.NoError(t, err)

	assert.Equal(t, "review-headset-gaming", resp.Slug)
	require.Len(t, resp.Content.Blocks, 2)
	assert.Equal(t, "header", resp.Content.Blocks[0].Type)
	require.NotNil(t, resp.ShopeeLink)
	assert.Nil(t, resp.TokpedLink)
	assert.Equal(t, []string{shared.CacheTagPosts}, revalidator.Tags())
	repo.AssertExpectations(t)
}

func TestPostService_Create_InvalidContent(t *testing.T) {
	repo := new(MockPostRepository)
	revalidator := &recordingRevalidator{}
	svc := NewPostService(repo, revalidator, zap.NewNop())

	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{blocks`},
		{"block without type", `[{"data":{"text":"x"}}]`},
		{"wrong shape", `"just a string"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), PostRequest{
				Title:   "Broken",
				Content: json.RawMessage(tt.content),
			})
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_CONTENT", domainErr.Code)
		})
	}

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, revalidator.Tags())
}

func TestPostService_Create_SlugConflict(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo, &recordingRevalidator{}, zap.NewNop())

	repo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

	_, err := svc.Create(context.Background(), PostRequest{Title: "Duplicate"})
	assert.ErrorIs(t, err, ErrPostSlugExists)
	assert.Equal(t, "Post with this slug already exists", err.Error())
}

func TestPostService_Update(t *testing.T) {
	repo := new(MockPostRepository)
	revalidator := &recordingRevalidator{}
	svc := NewPostService(repo, revalidator, zap.NewNop())

	existing, err := content.NewPost("Old Title", "", content.Document{Blocks: []content.Block{}}, content.PostLinks{})
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	resp, err := svc.Update(context.Background(), existing.ID, PostRequest{
		Title:   "New Title",
		Slug:    "custom-slug",
		Content: json.RawMessage(sampleBlocks),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", resp.Title)
	assert.Equal(t, "custom-slug", resp.Slug)
	assert.Len(t, resp.Content.Blocks, 2)
	assert.Contains(t, revalidator.Tags(), shared.CacheTagPosts)
}

func TestPostService_Update_NotFound(t *testing.T) {
	repo := new(MockPostRepository)
	revalidator := &recordingRevalidator{}
	svc := NewPostService(repo, revalidator, zap.NewNop())

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.Update(context.Background(), id, PostRequest{Title: "x"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, revalidator.Tags())
}

func TestPostService_List(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo, &recordingRevalidator{}, zap.NewNop())

	doc, err := content.ParseDocument([]byte(sampleBlocks))
	require.NoError(t, err)
	post, err := content.NewPost("Review", "", doc, content.PostLinks{})
	require.NoError(t, err)

	filterMatcher := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 5 && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})
	repo.On("FindAll", mock.Anything, filterMatcher).Return([]content.Post{*post}, nil)
	repo.On("Count", mock.Anything, filterMatcher).Return(int64(6), nil)

	page, err := svc.List(context.Background(), PostListFilter{Page: 2, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Headset murah dengan bass mantap.", page.Items[0].Excerpt)
}

func TestPostService_Delete(t *testing.T) {
	repo := new(MockPostRepository)
	revalidator := &recordingRevalidator{}
	svc := NewPostService(repo, revalidator, zap.NewNop())

	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, []string{shared.CacheTagPosts}, revalidator.Tags())
}
