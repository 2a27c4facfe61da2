// Command seed provisions the admin account, the site settings row, the
// default menu and optionally a demo catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	contentapp "github.com/arghosts/affiliate-shop-sub000/internal/application/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/identity"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/logger"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const adminPasswordEnv = "JAGO_SEED_ADMIN_PASSWORD"

func main() {
	var (
		username string
		demo     bool
		logLevel string
	)
	flag.StringVar(&username, "admin", "admin", "Admin username to create")
	flag.BoolVar(&demo, "demo", false, "Also seed demo categories, tags and products")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	s := newSeeder(db, log)
	ctx := context.Background()

	if err := s.admin(ctx, username, os.Getenv(adminPasswordEnv)); err != nil {
		log.Fatal("Failed to seed admin", zap.Error(err))
	}
	if err := s.siteSetting(ctx); err != nil {
		log.Fatal("Failed to seed site settings", zap.Error(err))
	}
	if err := s.navbar(ctx); err != nil {
		log.Fatal("Failed to seed navbar", zap.Error(err))
	}
	if demo {
		if err := s.demoCatalog(ctx); err != nil {
			log.Fatal("Failed to seed demo catalog", zap.Error(err))
		}
	}
	log.Info("Seeding finished")
}

type seeder struct {
	admins     identity.AdminRepository
	settings   content.SiteSettingRepository
	menu       *contentapp.NavbarService
	categories *catalogapp.CategoryService
	tags       *catalogapp.TagService
	products   *catalogapp.ProductService
	productCnt interface {
		Count(ctx context.Context, filter shared.Filter) (int64, error)
	}
	log *zap.Logger
}

func newSeeder(db *persistence.Database, log *zap.Logger) *seeder {
	nop := shared.NopRevalidator{}

	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	// demo products carry hosted image URLs only, nothing is uploaded
	images := catalogapp.NewImageService(storage.NewStubUploader(""), "seed", log)

	return &seeder{
		admins:     persistence.NewGormAdminRepository(db.DB),
		settings:   persistence.NewGormSiteSettingRepository(db.DB),
		menu:       contentapp.NewNavbarService(persistence.NewGormNavbarLinkRepository(db.DB), nop, log),
		categories: catalogapp.NewCategoryService(categoryRepo, nop, log),
		tags:       catalogapp.NewTagService(tagRepo, nop, log),
		products: catalogapp.NewProductService(productRepo, categoryRepo, tagRepo,
			persistence.NewGormPriceHistoryRepository(db.DB), images, nop, log),
		productCnt: productRepo,
		log:        log,
	}
}

// admin creates the admin account unless it exists
func (s *seeder) admin(ctx context.Context, username, password string) error {
	_, err := s.admins.FindByUsername(ctx, username)
	if err == nil {
		s.log.Info("Admin already exists", zap.String("username", username))
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if password == "" {
		return fmt.Errorf("%s must be set to create admin %q", adminPasswordEnv, username)
	}

	admin, err := identity.NewAdmin(username, password)
	if err != nil {
		return err
	}
	if err := s.admins.Save(ctx, admin); err != nil {
		return err
	}
	s.log.Info("Admin created", zap.String("username", username))
	return nil
}

// siteSetting stores the default settings row when none exists
func (s *seeder) siteSetting(ctx context.Context) error {
	_, err := s.settings.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	s.log.Info("Creating default site settings")
	return s.settings.Save(ctx, content.DefaultSiteSetting())
}

// navbar creates the default menu when the menu is empty
func (s *seeder) navbar(ctx context.Context) error {
	links, err := s.menu.List(ctx)
	if err != nil || len(links) > 0 {
		return err
	}

	for _, l := range []contentapp.NavbarLinkRequest{
		{Label: "Beranda", URL: "/"},
		{Label: "Produk", URL: "/products"},
		{Label: "Artikel", URL: "/posts"},
	} {
		if _, err := s.menu.Create(ctx, l); err != nil {
			return err
		}
	}
	s.log.Info("Default menu created")
	return nil
}

type demoProduct struct {
	name     string
	category string
	tags     []string
	links    []catalogapp.LinkRequest
	// repriced links get a second price history point
	repriced map[string]string
}

var demoProducts = []demoProduct{
	{
		name:     "Test Phone",
		category: "Smartphone",
		tags:     []string{"Android", "Best Seller"},
		links: []catalogapp.LinkRequest{
			{Marketplace: "TOKOPEDIA", StoreName: "Phone Center", OriginalURL: "https://www.tokopedia.com/phonecenter/test-phone", Price: "2499000", Region: "Jakarta"},
			{Marketplace: "SHOPEE", StoreName: "Gadget Mall", OriginalURL: "https://shopee.co.id/test-phone", Price: "2450000", Region: "Surabaya"},
		},
		repriced: map[string]string{"SHOPEE": "2399000"},
	},
	{
		name:     "Wireless Earbuds Pro",
		category: "Audio",
		tags:     []string{"Bluetooth"},
		links: []catalogapp.LinkRequest{
			{Marketplace: "SHOPEE", StoreName: "Audio ID", OriginalURL: "https://shopee.co.id/earbuds-pro", Price: "899000"},
			{Marketplace: "LAZADA", StoreName: "Sound Store", OriginalURL: "https://www.lazada.co.id/earbuds-pro", Price: "925000"},
			{Marketplace: "WHATSAPP_LOKAL", StoreName: "Toko Budi", OriginalURL: "https://wa.me/6281234567890", Price: "850000"},
		},
	},
}

// demoCatalog seeds demo products into an empty catalog
func (s *seeder) demoCatalog(ctx context.Context) error {
	count, err := s.productCnt.Count(ctx, shared.Filter{})
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("Catalog not empty, skipping demo products", zap.Int64("products", count))
		return nil
	}

	for _, d := range demoProducts {
		if err := s.demoProduct(ctx, d); err != nil {
			return fmt.Errorf("demo product %q: %w", d.name, err)
		}
	}
	s.log.Info("Demo catalog created", zap.Int("products", len(demoProducts)))
	return nil
}

func (s *seeder) demoProduct(ctx context.Context, d demoProduct) error {
	category, err := s.categories.Create(ctx, catalogapp.CategoryRequest{Name: d.category})
	if err != nil {
		return err
	}

	tagIDs := make([]uuid.UUID, 0, len(d.tags))
	for _, name := range d.tags {
		tag, err := s.tags.Create(ctx, catalogapp.TagRequest{Name: name})
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	req := catalogapp.ProductRequest{
		Name:        d.name,
		Description: d.name + " demo listing.",
		Pros:        "Harga bersaing\nGaransi resmi",
		Cons:        "Stok terbatas",
		CategoryID:  &category.ID,
		TagIDs:      tagIDs,
		Links:       d.links,
	}
	product, err := s.products.Create(ctx, req, nil)
	if err != nil {
		return err
	}
	if len(d.repriced) == 0 {
		return nil
	}

	req.Slug = product.Slug
	req.Links = make([]catalogapp.LinkRequest, len(d.links))
	for i, l := range d.links {
		if price, ok := d.repriced[strings.ToUpper(l.Marketplace)]; ok {
			l.Price = price
		}
		req.Links[i] = l
	}
	_, err = s.products.Update(ctx, product.ID, req, nil)
	return err
}
