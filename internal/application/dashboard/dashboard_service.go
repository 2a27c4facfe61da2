// Package dashboard summarizes catalog and content volume for the back office.
package dashboard

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats holds the record counts shown on the admin dashboard
type Stats struct {
	Products   int64 `json:"products"`
	Links      int64 `json:"links"`
	Categories int64 `json:"categories"`
	Tags       int64 `json:"tags"`
	Posts      int64 `json:"posts"`
}

// Counter counts the records of one repository
type Counter interface {
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ProductCounter counts products and their marketplace links
type ProductCounter interface {
	Counter
	CountLinks(ctx context.Context) (int64, error)
}

// Service computes dashboard stats
type Service struct {
	productRepo  ProductCounter
	categoryRepo Counter
	tagRepo      Counter
	postRepo     Counter
	logger       *zap.Logger
}

// NewService creates a new dashboard Service
func NewService(
	productRepo ProductCounter,
	categoryRepo Counter,
	tagRepo Counter,
	postRepo Counter,
	logger *zap.Logger,
) *Service {
	return &Service{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		postRepo:     postRepo,
		logger:       logger,
	}
}

// Stats runs the five counts concurrently
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "stats")
	defer span.End()

	var stats Stats
	all := shared.Filter{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Products, err = s.productRepo.Count(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		stats.Links, err = s.productRepo.CountLinks(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Categories, err = s.categoryRepo.Count(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		stats.Tags, err = s.tagRepo.Count(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		stats.Posts, err = s.postRepo.Count(gctx, all)
		return err
	})

	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}
