package repositories

import (
	"context"

	"tyrehub/catalog/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository writes products and their 1:1 / many-to-many satellites.
type ProductRepository struct {
	db *gormlib.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gormlib.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *ProductRepository) WithTx(tx *gormlib.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// Upsert inserts a product or refreshes its title. p.ID is set either way.
// ON CONFLICT (slug) DO UPDATE SET title, updated_at
func (r *ProductRepository) Upsert(ctx context.Context, p *gorm.Product) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
		}).
		Create(p).Error
}

// InsertTyreSpec writes the tyre spec once; later runs never change it.
// ON CONFLICT (product_id) DO NOTHING
func (r *ProductRepository) InsertTyreSpec(ctx context.Context, spec *gorm.ProductTyreSpec) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoNothing: true,
		}).
		Create(spec).Error
}

// UpsertCopy
// ON CONFLICT (product_id) DO UPDATE SET content, updated_at
func (r *ProductRepository) UpsertCopy(ctx context.Context, c *gorm.ProductCopy) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).
		Create(c).Error
}

// LinkTags inserts product/tag pairs, ignoring pairs that already exist.
func (r *ProductRepository) LinkTags(ctx context.Context, links []gorm.ProductTag) error {
	for start := 0; start < len(links); start += writeChunkSize {
		chunk := links[start:min(start+writeChunkSize, len(links))]
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&chunk).Error
		if err != nil {
			return err
		}
	}
	return nil
}
