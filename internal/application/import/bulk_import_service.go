// Package importapp turns spreadsheet rows into catalog products.
package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	csvimport "github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/import"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxReportedErrors caps the row errors returned to the caller
const maxReportedErrors = 100

// ErrImportFailed is returned, together with the result, when no row was imported
var ErrImportFailed = shared.NewDomainError("IMPORT_FAILED", "No rows could be imported")

// marketplaceColumn maps a column prefix to the marketplace it describes.
// A row produces one link per prefix whose <prefix>_url column is filled in.
type marketplaceColumn struct {
	prefix      string
	marketplace catalog.Marketplace
}

var marketplaceColumns = []marketplaceColumn{
	{"shopee", catalog.MarketplaceShopee},
	{"tokped", catalog.MarketplaceTokopedia},
	{"tokopedia", catalog.MarketplaceTokopedia},
	{"tiktok", catalog.MarketplaceTiktok},
	{"lazada", catalog.MarketplaceLazada},
	{"blibli", catalog.MarketplaceBlibli},
	{"wa", catalog.MarketplaceWhatsappLokal},
	{"website", catalog.MarketplaceWebsiteResmi},
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	SuccessCount int                  `json:"success_count"`
	ErrorCount   int                  `json:"error_count"`
	Errors       []csvimport.RowError `json:"errors"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
}

// Option configures the BulkImportService
type Option func(*BulkImportService)

// WithLimits bounds the accepted file size and row count
func WithLimits(maxRows int, maxBytes int64) Option {
	return func(s *BulkImportService) {
		s.maxRows = maxRows
		s.maxBytes = maxBytes
	}
}

// WithClock overrides the clock used for generated slugs
func WithClock(now func() time.Time) Option {
	return func(s *BulkImportService) {
		s.now = now
	}
}

// BulkImportService reconciles spreadsheet rows into products. Rows are
// processed one by one and a failing row never aborts the batch.
type BulkImportService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	tagRepo      catalog.TagRepository
	revalidator  shared.Revalidator
	logger       *zap.Logger
	maxRows      int
	maxBytes     int64
	now          func() time.Time
}

// NewBulkImportService creates a new BulkImportService
func NewBulkImportService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	tagRepo catalog.TagRepository,
	revalidator shared.Revalidator,
	logger *zap.Logger,
	opts ...Option,
) *BulkImportService {
	s := &BulkImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		revalidator:  revalidator,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import reads a CSV or XLSX upload and imports every row.
// File level problems are returned as a domain error carrying the import
// error code; no rows are imported in that case.
func (s *BulkImportService) Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "import", "products", telemetry.FileName(filename))
	defer span.End()

	rows, err := csvimport.ReadSheet(filename, r,
		csvimport.WithMaxRows(s.maxRows),
		csvimport.WithMaxBytes(s.maxBytes))
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Import file rejected", zap.String("filename", filename), zap.Error(err))
		return nil, shared.NewDomainError(csvimport.FileErrorCode(err), err.Error())
	}

	result, err := s.ImportRows(ctx, rows)
	if result != nil {
		span.SetAttributes(telemetry.ImportRows(result.TotalRows, result.SuccessCount, result.ErrorCount)...)
	}
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return result, err
}

// ImportRows imports already parsed rows. The result is always returned;
// the error is ErrImportFailed when nothing was imported, or the context
// error when the batch was cancelled between rows.
func (s *BulkImportService) ImportRows(ctx context.Context, rows []*csvimport.Row) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	rowErrors := csvimport.NewErrorCollection(maxReportedErrors)
	validator := csvimport.NewRowValidator(rowRules...)
	batchTime := s.now()

	var cancelErr error
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			cancelErr = fmt.Errorf("import cancelled after %d rows: %w", i, err)
			break
		}

		if errs := validator.Validate(row); len(errs) > 0 {
			rowErrors.Add(errs...)
			result.ErrorCount++
			continue
		}

		if err := s.importRow(ctx, row, i, batchTime); err != nil {
			s.logger.Warn("Import row failed",
				zap.Int("row", row.LineNumber),
				zap.String("name", row.Get("name")),
				zap.Error(err))
			rowErrors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "name",
				csvimport.ErrCodeImportSaveFailed, rowErrorMessage(err), row.Get("name")))
			result.ErrorCount++
			continue
		}
		result.SuccessCount++
	}

	result.Errors = rowErrors.Errors()
	result.IsTruncated = rowErrors.IsTruncated()

	s.logger.Info("Import finished",
		zap.Int("total", result.TotalRows),
		zap.Int("created", result.SuccessCount),
		zap.Int("failed", result.ErrorCount),
		zap.Any("errors_by_code", rowErrors.CountByCode()))

	if result.SuccessCount > 0 {
		s.revalidator.Revalidate(ctx, shared.CacheTagProducts, shared.CacheTagCategories, shared.CacheTagTags)
	}

	if cancelErr != nil {
		return result, cancelErr
	}
	if result.SuccessCount == 0 {
		return result, ErrImportFailed
	}
	return result, nil
}

var rowRules = []csvimport.ColumnRule{
	{Column: "name", Tag: "required,max=200"},
	{Column: "slug", Tag: "max=255", Unique: true},
}

// importRow builds and saves one product. The product, its links, tags and
// first price points are written by a single repository transaction.
func (s *BulkImportService) importRow(ctx context.Context, row *csvimport.Row, index int, batchTime time.Time) error {
	name := strings.TrimSpace(row.Get("name"))

	product, err := catalog.NewProduct(name, rowSlug(row, name, index, batchTime))
	if err != nil {
		return err
	}
	product.SetDetails(row.Get("description"), listCell(row.Get("pros")), listCell(row.Get("cons")))
	product.SetImages(splitList(row.Get("images")))

	if raw := strings.TrimSpace(row.Get("category")); raw != "" {
		category, err := s.categoryRepo.FindOrCreate(ctx, raw, shared.Slugify(raw))
		if err != nil {
			return fmt.Errorf("category %q: %w", raw, err)
		}
		product.SetCategory(category)
	}

	if raw := row.Get("tags"); raw != "" {
		var tags []catalog.Tag
		for _, tagName := range splitList(raw) {
			slug := shared.Slugify(tagName)
			if slug == "" {
				continue
			}
			tag, err := s.tagRepo.FindOrCreate(ctx, tagName, slug)
			if err != nil {
				return fmt.Errorf("tag %q: %w", tagName, err)
			}
			tags = append(tags, *tag)
		}
		product.SetTags(tags)
	}

	links, err := catalog.NormalizeLinks(RowLinks(row), true)
	if err != nil {
		return err
	}
	product.ReplaceLinks(links)

	return s.productRepo.Save(ctx, product)
}

// RowLinks harvests one link input per marketplace prefix with a URL.
// Prices that are missing or unparseable become zero.
func RowLinks(row *csvimport.Row) []catalog.LinkInput {
	var links []catalog.LinkInput
	for _, col := range marketplaceColumns {
		url := strings.TrimSpace(row.Get(col.prefix + "_url"))
		if url == "" {
			continue
		}
		storeName := strings.TrimSpace(row.Get(col.prefix + "_store"))
		if storeName == "" {
			storeName = strings.ToUpper(col.prefix) + " Store"
		}
		links = append(links, catalog.LinkInput{
			Marketplace:  col.marketplace.String(),
			StoreName:    storeName,
			OriginalURL:  url,
			AffiliateURL: row.Get(col.prefix + "_affiliate"),
			Price:        catalog.ParsePriceOrZero(row.Get(col.prefix + "_price")).String(),
			Region:       row.Get(col.prefix + "_region"),
		})
	}
	return links
}

// rowSlug slugifies the slug column, or derives a batch-unique slug from the
// name, the batch time and the row index.
func rowSlug(row *csvimport.Row, name string, index int, batchTime time.Time) string {
	if slug := shared.Slugify(row.Get("slug")); slug != "" {
		return slug
	}
	return shared.Slugify(fmt.Sprintf("%s-%d-%d", name, batchTime.UnixNano(), index))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// listCell turns a ";" separated cell into one item per line
func listCell(s string) string {
	if strings.Contains(s, "\n") {
		return s
	}
	return strings.Join(strings.Split(s, ";"), "\n")
}

func rowErrorMessage(err error) string {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return "Product with this slug already exists"
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
