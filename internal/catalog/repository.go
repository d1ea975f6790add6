package catalog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/db/models"
	"github.com/mustt-clothing/storefront/pkg/pagination"
)

// ListQuery filters a product listing.
type ListQuery struct {
	CollectionSlug string
	StyleSlug      string
	Search         string
	IncludeHidden  bool
	Pagination     pagination.Params
}

// Repository persists products through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save writes every column of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product and reports whether a row matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetVisibility flips display_on_website and reports whether a row matched.
func (r *Repository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("display_on_website", visible)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByBarcode returns the oldest product whose variant tree holds barcode in any size entry.
func (r *Repository) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	q, err := r.barcodeQuery(ctx, barcode)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := q.Order("created_at ASC").First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListBarcodeOwners returns the ids of every other product already carrying barcode, oldest first.
func (r *Repository) ListBarcodeOwners(ctx context.Context, barcode string, exclude uuid.UUID) ([]uuid.UUID, error) {
	q, err := r.barcodeQuery(ctx, barcode)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := q.Where("products.id <> ?", exclude).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) barcodeQuery(ctx context.Context, barcode string) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if r.db.Dialector.Name() == db.DialectPostgres {
		probe, err := json.Marshal([]map[string]any{
			{"sizes": []map[string]string{{"barcode": barcode}}},
		})
		if err != nil {
			return nil, err
		}
		return q.Where("variants @> CAST(? AS jsonb)", string(probe)), nil
	}
	return q.Where(`EXISTS (
			SELECT 1 FROM json_each(products.variants) v, json_each(v.value, '$.sizes') s
			WHERE json_extract(s.value, '$.barcode') = ?)`, barcode), nil
}

// List returns one page ordered newest first.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if !query.IncludeHidden {
		qb = qb.Where("(display_on_website IS NULL OR display_on_website = ?)", true)
	}
	if slug := strings.TrimSpace(query.CollectionSlug); slug != "" {
		qb = qb.Where("collection_slug = ?", slug)
	}
	if slug := strings.TrimSpace(query.StyleSlug); slug != "" {
		qb = qb.Where("style_slug = ?", slug)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(product_code) LIKE ?)", pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("((created_at < ?) OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(query.Pagination.Limit)).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
