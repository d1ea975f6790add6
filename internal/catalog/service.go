package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	pkgerrors "github.com/mustt-clothing/storefront/pkg/errors"
	"github.com/mustt-clothing/storefront/pkg/logger"
	"github.com/mustt-clothing/storefront/pkg/pagination"
	"github.com/mustt-clothing/storefront/pkg/redis"
)

// Service exposes catalog management and storefront reads.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	SetVisibility(ctx context.Context, productID uuid.UUID, visible bool) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, query ListQuery) (*ProductListResult, error)
	FindByBarcode(ctx context.Context, barcode string) (*BarcodeMatch, error)
	GetVisibleBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListVisible(ctx context.Context, query ListQuery) (*ProductListResult, error)
	CheckStock(ctx context.Context, query StockQuery) (*Selection, error)
}

type productCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ProductKey(slug string) string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	builder  *Builder
	cache    productCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService constructs the catalog service. cache may be nil.
func NewService(repo *Repository, dbClient *db.Client, builder *Builder, cache productCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if builder == nil {
		return nil, fmt.Errorf("product builder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		builder:  builder,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	product, err := s.builder.Build(input)
	if err != nil {
		return nil, err
	}

	slug := product.Slug
	if slug == "" {
		slug = product.Title
	}
	product.Slug = Slugify(slug)
	if product.Slug == "" {
		return nil, pkgerrors.Validation("title", "must contain letters or digits")
	}

	if err := s.ensureSlugFree(ctx, s.repo, product.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, slugConflict(product.Slug)
		}
		return nil, pkgerrors.Storage(err, "db: insert product")
	}

	ctx = s.logg.WithField(ctx, "product_id", product.ID.String())
	s.logg.Info(ctx, "product created")
	s.reportBuildFlags(ctx, product)
	return NewProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, patch UpdateProductInput) (*ProductDTO, error) {
	var (
		updated *models.Product
		oldSlug string
	)
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("product", productID.String())
			}
			return pkgerrors.Storage(err, "db: load product")
		}
		oldSlug = current.Slug

		input := inputFromProduct(current)
		patch.apply(&input)

		rebuilt, err := s.builder.Build(input)
		if err != nil {
			return err
		}
		switch {
		case patch.Slug != nil:
			rebuilt.Slug = Slugify(*patch.Slug)
		case strings.TrimSpace(current.Slug) == "":
			rebuilt.Slug = Slugify(rebuilt.Title)
		default:
			rebuilt.Slug = current.Slug
		}
		if rebuilt.Slug == "" {
			return pkgerrors.Validation("slug", "must contain letters or digits")
		}
		if rebuilt.Slug != current.Slug {
			if err := s.ensureSlugFree(ctx, txRepo, rebuilt.Slug, current.ID); err != nil {
				return err
			}
		}

		rebuilt.ID = current.ID
		rebuilt.CreatedAt = current.CreatedAt
		if err := txRepo.Save(ctx, rebuilt); err != nil {
			if db.IsUniqueViolation(err) {
				return slugConflict(rebuilt.Slug)
			}
			return pkgerrors.Storage(err, "db: update product")
		}
		updated = rebuilt
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Storage(err, "update product")
	}

	ctx = s.logg.WithField(ctx, "product_id", productID.String())
	s.invalidate(ctx, oldSlug, updated.Slug)
	s.reportBuildFlags(ctx, updated)
	return NewProductDTO(updated), nil
}

func (s *service) SetVisibility(ctx context.Context, productID uuid.UUID, visible bool) (*ProductDTO, error) {
	matched, err := s.repo.SetVisibility(ctx, productID, visible)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: set visibility")
	}
	if !matched {
		return nil, pkgerrors.NotFound("product", productID.String())
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: load product")
	}
	s.invalidate(ctx, product.Slug)
	return NewProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("product", productID.String())
		}
		return pkgerrors.Storage(err, "db: load product")
	}
	matched, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return pkgerrors.Storage(err, "db: delete product")
	}
	if !matched {
		return pkgerrors.NotFound("product", productID.String())
	}
	s.invalidate(ctx, product.Slug)
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("product", productID.String())
		}
		return nil, pkgerrors.Storage(err, "db: load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, query ListQuery) (*ProductListResult, error) {
	if _, err := pagination.ParseCursor(query.Pagination.Cursor); err != nil {
		return nil, pkgerrors.Validation("cursor", "is invalid")
	}
	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Storage(err, "db: list products")
	}
	result := &ProductListResult{
		Products:   make([]ProductSummary, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		result.Products = append(result.Products, newProductSummary(&rows[i]))
	}
	return result, nil
}

func (s *service) ListVisible(ctx context.Context, query ListQuery) (*ProductListResult, error) {
	query.IncludeHidden = false
	return s.ListProducts(ctx, query)
}

func (s *service) FindByBarcode(ctx context.Context, barcode string) (*BarcodeMatch, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.Validation("barcode", "is required")
	}
	product, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("barcode", barcode)
		}
		return nil, pkgerrors.Storage(err, "db: find by barcode")
	}
	variant, entry, ok := product.FindBarcode(barcode)
	if !ok {
		return nil, pkgerrors.NotFound("barcode", barcode)
	}
	return &BarcodeMatch{
		Product: *NewProductDTO(product),
		Color:   variant.Color,
		Size:    newSizeDTO(product.BasePrice, *entry),
	}, nil
}

func (s *service) GetVisibleBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.Validation("slug", "is required")
	}
	if dto := s.cached(ctx, slug); dto != nil {
		return dto, nil
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("product", slug)
		}
		return nil, pkgerrors.Storage(err, "db: load product by slug")
	}
	if !product.Visible() {
		return nil, pkgerrors.NotFound("product", slug)
	}

	dto := NewProductDTO(product)
	s.store(ctx, slug, dto)
	return dto, nil
}

func (s *service) ensureSlugFree(ctx context.Context, repo *Repository, slug string, self uuid.UUID) error {
	existing, err := repo.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return pkgerrors.Storage(err, "db: check slug")
	}
	if existing.ID == self {
		return nil
	}
	return slugConflict(slug)
}

func slugConflict(slug string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists").
		WithDetails(pkgerrors.FieldDetails{Field: "slug", Message: slug})
}

// reportBuildFlags warns about accepted-but-suspicious derived data: SKUs
// shared with other products and negative stock.
func (s *service) reportBuildFlags(ctx context.Context, product *models.Product) {
	for _, sku := range NegativeStock(product) {
		s.logg.Warn(s.logg.WithField(ctx, "sku", sku), "size entry has negative stock")
	}
	seen := map[string]struct{}{}
	for _, v := range product.Variants.Data {
		for _, entry := range v.Sizes {
			if _, ok := seen[entry.Barcode]; ok {
				continue
			}
			seen[entry.Barcode] = struct{}{}
			owners, err := s.repo.ListBarcodeOwners(ctx, entry.Barcode, product.ID)
			if err != nil {
				s.logg.Error(ctx, "barcode collision check failed", err)
				return
			}
			if len(owners) > 0 {
				s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
					"sku":           entry.SKU,
					"other_product": owners[0].String(),
					"owner_count":   len(owners),
				}), "sku shared with another product")
			}
		}
	}
}

func (s *service) cached(ctx context.Context, slug string) *ProductDTO {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.ProductKey(slug))
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product cache read failed")
		}
		return nil
	}
	var dto ProductDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		s.logg.Warn(ctx, "product cache entry unreadable")
		return nil
	}
	return &dto
}

func (s *service) store(ctx context.Context, slug string, dto *ProductDTO) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.ProductKey(slug), string(raw), s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product cache write failed")
	}
}

func (s *service) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, s.cache.ProductKey(slug))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product cache invalidation failed")
	}
}
