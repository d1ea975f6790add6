package cart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mustt-clothing/storefront/pkg/db/models"
)

// displayColumns are overwritten with the latest values on a repeat add.
var displayColumns = []string{
	"product_id",
	"product_title",
	"product_slug",
	"image_url",
	"category",
	"style",
	"unit_price",
	"size",
	"color",
	"description",
	"updated_at",
}

// Repository persists cart lines keyed by (user_id, row_key).
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) LineRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Upsert inserts the line or, when (user_id, row_key) exists, adds its
// quantity to the stored one and refreshes the display fields. It is a
// single INSERT ... ON CONFLICT statement.
func (r *Repository) Upsert(ctx context.Context, line *models.CartLine) error {
	updates := clause.AssignmentColumns(displayColumns)
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "quantity"},
		Value:  gorm.Expr("cart_lines.quantity + excluded.quantity"),
	})
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "row_key"}},
			DoUpdates: updates,
		}).
		Create(line).Error
}

// SetQuantity overwrites the quantity and reports whether a line matched.
func (r *Repository) SetQuantity(ctx context.Context, userID, rowKey string, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND row_key = ?", userID, rowKey).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) Delete(ctx context.Context, userID, rowKey string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND row_key = ?", userID, rowKey).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

func (r *Repository) FindLine(ctx context.Context, userID, rowKey string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND row_key = ?", userID, rowKey).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ListByUser returns the user's lines in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
