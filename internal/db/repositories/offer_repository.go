package repositories

import (
	"context"
	"fmt"

	"tyrehub/catalog/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OfferRepository writes seller offers and their tyre condition rows.
type OfferRepository struct {
	db *gormlib.DB
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *gormlib.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *OfferRepository) WithTx(tx *gormlib.DB) *OfferRepository {
	return &OfferRepository{db: tx}
}

// UpsertMany writes offers and fills in their ids, position for position.
// The slice must not contain two offers with the same natural key.
// ON CONFLICT (seller_id, sku_external, product_id) DO UPDATE SET price_numeric, stock, is_active, updated_at
func (r *OfferRepository) UpsertMany(ctx context.Context, offers []gorm.Offer) error {
	for start := 0; start < len(offers); start += writeChunkSize {
		chunk := offers[start:min(start+writeChunkSize, len(offers))]
		err := r.db.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "seller_id"},
					{Name: "sku_external"},
					{Name: "product_id"},
				},
				DoUpdates: clause.AssignmentColumns([]string{"price_numeric", "stock", "is_active", "updated_at"}),
			}).
			Create(&chunk).Error
		if err != nil {
			return err
		}
	}

	for i := range offers {
		if offers[i].ID == 0 {
			return fmt.Errorf("offer %s: no id returned", offers[i].SKUExternal)
		}
	}
	return nil
}

// UpsertSpecs writes offer condition rows. OfferID must already be set.
// ON CONFLICT (offer_id) DO UPDATE SET min_depth_mm, quality_grade
func (r *OfferRepository) UpsertSpecs(ctx context.Context, specs []gorm.OfferTyreSpec) error {
	for start := 0; start < len(specs); start += writeChunkSize {
		chunk := specs[start:min(start+writeChunkSize, len(specs))]
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "offer_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"min_depth_mm", "quality_grade"}),
			}).
			Create(&chunk).Error
		if err != nil {
			return err
		}
	}
	return nil
}
