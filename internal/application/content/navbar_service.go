package content

import (
	"context"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NavbarService manages the navigation menu
type NavbarService struct {
	navbarRepo  content.NavbarLinkRepository
	revalidator shared.Revalidator
	logger      *zap.Logger
}

// NewNavbarService creates a new NavbarService
func NewNavbarService(navbarRepo content.NavbarLinkRepository, revalidator shared.Revalidator, logger *zap.Logger) *NavbarService {
	return &NavbarService{
		navbarRepo:  navbarRepo,
		revalidator: revalidator,
		logger:      logger,
	}
}

// Create appends a link after the last menu entry
func (s *NavbarService) Create(ctx context.Context, req NavbarLinkRequest) (*NavbarLinkResponse, error) {
	order, err := s.navbarRepo.NextOrder(ctx)
	if err != nil {
		return nil, err
	}
	link, err := content.NewNavbarLink(req.Label, req.URL, order)
	if err != nil {
		return nil, err
	}
	if err := s.navbarRepo.Save(ctx, link); err != nil {
		return nil, err
	}

	s.revalidator.Revalidate(ctx, shared.CacheTagNavbar)

	resp := ToNavbarLinkResponse(link)
	return &resp, nil
}

// Update changes the label and URL of a menu entry
func (s *NavbarService) Update(ctx context.Context, id uuid.UUID, req NavbarLinkRequest) (*NavbarLinkResponse, error) {
	link, err := s.navbarRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := link.Update(req.Label, req.URL); err != nil {
		return nil, err
	}
	if err := s.navbarRepo.Save(ctx, link); err != nil {
		return nil, err
	}

	s.revalidator.Revalidate(ctx, shared.CacheTagNavbar)

	resp := ToNavbarLinkResponse(link)
	return &resp, nil
}

// Delete removes a menu entry. Remaining orders keep their gaps.
func (s *NavbarService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.navbarRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revalidator.Revalidate(ctx, shared.CacheTagNavbar)
	return nil
}

// Move swaps a link with its neighbor in the given direction.
// Moving past either edge returns content.ErrNavbarBoundary.
func (s *NavbarService) Move(ctx context.Context, id uuid.UUID, direction string) error {
	d, err := content.ParseDirection(direction)
	if err != nil {
		return err
	}
	if err := s.navbarRepo.Move(ctx, id, d); err != nil {
		return err
	}

	s.logger.Debug("Navbar link moved", zap.String("link_id", id.String()), zap.String("direction", string(d)))
	s.revalidator.Revalidate(ctx, shared.CacheTagNavbar)
	return nil
}

// List returns the menu in display order
func (s *NavbarService) List(ctx context.Context) ([]NavbarLinkResponse, error) {
	links, err := s.navbarRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]NavbarLinkResponse, len(links))
	for i := range links {
		resp[i] = ToNavbarLinkResponse(&links[i])
	}
	return resp, nil
}
