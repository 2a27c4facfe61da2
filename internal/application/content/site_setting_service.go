package content

import (
	"context"
	"errors"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// SiteSettingService reads and updates the settings singleton
type SiteSettingService struct {
	settingRepo content.SiteSettingRepository
	revalidator shared.Revalidator
	logger      *zap.Logger
}

// NewSiteSettingService creates a new SiteSettingService
func NewSiteSettingService(settingRepo content.SiteSettingRepository, revalidator shared.Revalidator, logger *zap.Logger) *SiteSettingService {
	return &SiteSettingService{
		settingRepo: settingRepo,
		revalidator: revalidator,
		logger:      logger,
	}
}

// Get returns the stored settings, or the defaults when none were saved yet
func (s *SiteSettingService) Get(ctx context.Context) (*SiteSettingResponse, error) {
	setting, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToSiteSettingResponse(setting)
	return &resp, nil
}

// Update overwrites the settings, creating the row on first use
func (s *SiteSettingService) Update(ctx context.Context, req SiteSettingRequest) (*SiteSettingResponse, error) {
	setting, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := setting.Apply(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.settingRepo.Save(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info("Site settings updated", zap.String("site_name", setting.SiteName))
	s.revalidator.Revalidate(ctx, shared.CacheTagSettings)

	resp := ToSiteSettingResponse(setting)
	return &resp, nil
}

func (s *SiteSettingService) load(ctx context.Context) (*content.SiteSetting, error) {
	setting, err := s.settingRepo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return content.DefaultSiteSetting(), nil
	}
	return setting, err
}
