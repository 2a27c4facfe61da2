package importapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	csvimport "github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/import"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type importFixture struct {
	products    *MockProductRepository
	categories  *MockCategoryRepository
	tags        *MockTagRepository
	revalidator *recordingRevalidator
	svc         *BulkImportService
	saved       []*catalog.Product
}

func newImportFixture(opts ...Option) *importFixture {
	f := &importFixture{
		products:    new(MockProductRepository),
		categories:  new(MockCategoryRepository),
		tags:        new(MockTagRepository),
		revalidator: &recordingRevalidator{},
	}
	clock := func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	opts = append([]Option{WithClock(clock)}, opts...)
	f.svc = NewBulkImportService(f.products, f.categories, f.tags, f.revalidator, zap.NewNop(), opts...)
	return f
}

func (f *importFixture) acceptSaves() {
	f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).
		Run(func(args mock.Arguments) { f.saved = append(f.saved, args.Get(1).(*catalog.Product)) }).
		Return(nil)
}

func row(line int, data map[string]string) *csvimport.Row {
	return &csvimport.Row{LineNumber: line, Data: data}
}

func TestBulkImportService_EndToEndRow(t *testing.T) {
	f := newImportFixture()
	f.acceptSaves()

	result, err := f.svc.ImportRows(context.Background(), []*csvimport.Row{
		row(2, map[string]string{
			"name":         "Test Phone",
			"shopee_url":   "https://x",
			"shopee_price": "100",
			"tiktok_url":   "https://y",
			"tiktok_price": "200",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Empty(t, result.Errors)

	require.Len(t, f.saved, 1)
	product := f.saved[0]
	assert.Equal(t, "Test Phone", product.Name)
	require.Len(t, product.Links, 2)
	assert.Equal(t, catalog.MarketplaceShopee, product.Links[0].Marketplace)
	assert.True(t, product.Links[0].CurrentPrice.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, catalog.MarketplaceTiktok, product.Links[1].Marketplace)
	assert.True(t, product.Links[1].CurrentPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, product.MinPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, product.MaxPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, strings.HasPrefix(product.Slug, "test-phone-"))
	assert.True(t, product.Links[0].IsVerified)

	assert.Contains(t, f.revalidator.Tags(), shared.CacheTagProducts)
}

func TestBulkImportService_MarketplaceMapping(t *testing.T) {
	t.Run("tokped only", func(t *testing.T) {
		links, err := catalog.NormalizeLinks(RowLinks(row(2, map[string]string{
			"name":       "Router",
			"tokped_url": "https://tokopedia.com/router",
		})), true)
		require.NoError(t, err)

		require.Len(t, links, 1)
		assert.Equal(t, catalog.MarketplaceTokopedia, links[0].Marketplace)
		assert.Equal(t, "TOKPED Store", links[0].StoreName)
		assert.True(t, links[0].CurrentPrice.IsZero())
	})

	t.Run("shopee and whatsapp", func(t *testing.T) {
		links := RowLinks(row(2, map[string]string{
			"name":         "Router",
			"shopee_url":   "https://shopee.co.id/router",
			"shopee_store": "Official",
			"wa_url":       "https://wa.me/62800",
		}))

		require.Len(t, links, 2)
		assert.Equal(t, "SHOPEE", links[0].Marketplace)
		assert.Equal(t, "Official", links[0].StoreName)
		assert.Equal(t, "WHATSAPP_LOKAL", links[1].Marketplace)
		assert.Equal(t, "WA Store", links[1].StoreName)
	})

	t.Run("no urls", func(t *testing.T) {
		assert.Empty(t, RowLinks(row(2, map[string]string{"name": "Router", "shopee_price": "10"})))
	})
}

func TestBulkImportService_PartialFailure(t *testing.T) {
	f := newImportFixture()
	f.products.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.Slug == "taken"
	})).Return(shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists"))
	f.acceptSaves()

	result, err := f.svc.ImportRows(context.Background(), []*csvimport.Row{
		row(2, map[string]string{"name": "Good One", "shopee_url": "https://a", "shopee_price": "10"}),
		row(3, map[string]string{"name": "", "shopee_url": "https://b"}),
		row(4, map[string]string{"name": "Duplicate", "slug": "taken"}),
		row(5, map[string]string{"name": "Good Two"}),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, result.TotalRows, result.SuccessCount+result.ErrorCount)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, csvimport.ErrCodeImportRequiredField, result.Errors[0].Code)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Equal(t, csvimport.ErrCodeImportSaveFailed, result.Errors[1].Code)
	assert.Equal(t, "Product with this slug already exists", result.Errors[1].Message)

	require.Len(t, f.saved, 2)
	assert.Equal(t, "Good One", f.saved[0].Name)
	assert.Equal(t, "Good Two", f.saved[1].Name)
}

func TestBulkImportService_CategoryAndTags(t *testing.T) {
	f := newImportFixture()
	f.acceptSaves()

	category, err := catalog.NewCategoryWithSlug("iPhone PRO", "iphone-pro")
	require.NoError(t, err)
	f.categories.On("FindOrCreate", mock.Anything, "iPhone PRO", "iphone-pro").Return(category, nil)

	bass, err := catalog.NewTag("Bass")
	require.NoError(t, err)
	promo, err := catalog.NewTag("Promo")
	require.NoError(t, err)
	f.tags.On("FindOrCreate", mock.Anything, "Bass", "bass").Return(bass, nil)
	f.tags.On("FindOrCreate", mock.Anything, "Promo", "promo").Return(promo, nil)

	_, err = f.svc.ImportRows(context.Background(), []*csvimport.Row{
		row(2, map[string]string{
			"name":     "Subwoofer",
			"slug":     "Subwoofer 12 Inch",
			"category": " iPhone PRO ",
			"tags":     "Bass, Promo, ",
			"pros":     "Loud;Compact",
			"images":   "https://img.test/a.jpg,https://img.test/b.jpg",
		}),
	})
	require.NoError(t, err)

	require.Len(t, f.saved, 1)
	product := f.saved[0]
	assert.Equal(t, "subwoofer-12-inch", product.Slug)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, category.ID, *product.CategoryID)
	assert.Len(t, product.Tags, 2)
	assert.Equal(t, []string{"Loud", "Compact"}, product.ProsList())
	assert.Equal(t, []string{"https://img.test/a.jpg", "https://img.test/b.jpg"}, product.Images)
	f.categories.AssertExpectations(t)
	f.tags.AssertExpectations(t)
}

func TestBulkImportService_SameNameRowsGetDistinctSlugs(t *testing.T) {
	f := newImportFixture()
	f.acceptSaves()

	result, err := f.svc.ImportRows(context.Background(), []*csvimport.Row{
		row(2, map[string]string{"name": "Same"}),
		row(3, map[string]string{"name": "Same"}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)

	require.Len(t, f.saved, 2)
	batch := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).UnixNano()
	assert.Equal(t, fmt.Sprintf("same-%d-0", batch), f.saved[0].Slug)
	assert.Equal(t, fmt.Sprintf("same-%d-1", batch), f.saved[1].Slug)
	assert.NotEqual(t, f.saved[0].Slug, f.saved[1].Slug)
}

func TestBulkImportService_CategoryFailureFailsRow(t *testing.T) {
	f := newImportFixture()
	f.categories.On("FindOrCreate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	result, err := f.svc.ImportRows(context.Background(), []*csvimport.Row{
		row(2, map[string]string{"name": "Speaker", "category": "audio"}),
	})
	assert.ErrorIs(t, err, ErrImportFailed)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Contains(t, result.Errors[0].Message, "connection reset")
	f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.revalidator.Tags())
}

func TestBulkImportService_AllRowsFail(t *testing.T) {
	f := newImportFixture()

	result, err := f.svc.ImportRows(context.Background(), []*csvimport.Row{
		row(2, map[string]string{"name": ""}),
		row(3, map[string]string{"name": "  "}),
	})
	assert.ErrorIs(t, err, ErrImportFailed)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Empty(t, f.revalidator.Tags())
}

func TestBulkImportService_Cancelled(t *testing.T) {
	f := newImportFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.products.On("Save", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)

	result, err := f.svc.ImportRows(ctx, []*csvimport.Row{
		row(2, map[string]string{"name": "First"}),
		row(3, map[string]string{"name": "Second"}),
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.SuccessCount)
	f.products.AssertNumberOfCalls(t, "Save", 1)
}

func TestBulkImportService_ImportCSV(t *testing.T) {
	f := newImportFixture()
	f.acceptSaves()

	csv := "Name,Shopee URL,Shopee Price,Tokped URL\n" +
		"Test Phone,https://x,100,https://t\n" +
		",https://y,5,\n"

	result, err := f.svc.Import(context.Background(), "products.csv", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, f.saved, 1)
	require.Len(t, f.saved[0].Links, 2)
	assert.Equal(t, "TOKPED Store", f.saved[0].Links[1].StoreName)
}

func TestBulkImportService_FileErrors(t *testing.T) {
	f := newImportFixture(WithLimits(1, 1024))

	_, err := f.svc.Import(context.Background(), "products.pdf", strings.NewReader("x"))
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, csvimport.ErrCodeImportUnsupportedFormat, domainErr.Code)

	_, err = f.svc.Import(context.Background(), "products.csv",
		strings.NewReader("name\nOne\nTwo\n"))
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, csvimport.ErrCodeImportTooManyRows, domainErr.Code)

	f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
