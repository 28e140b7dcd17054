package repositories

import (
	"context"
	"errors"

	"tyrehub/catalog/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LookupRepository creates or finds reference rows (brand, model, dimension,
// season, tag, seller) by their natural keys.
type LookupRepository struct {
	db *gormlib.DB
}

// NewLookupRepository creates a new lookup repository
func NewLookupRepository(db *gormlib.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *LookupRepository) WithTx(tx *gormlib.DB) *LookupRepository {
	return &LookupRepository{db: tx}
}

// upsertOrGet inserts row ignoring conflicts. When the row already existed it
// is looked up by its natural key (a nil value matches NULL); if that select
// still finds nothing the insert is forced.
func upsertOrGet[T any](ctx context.Context, db *gormlib.DB, row *T, natural map[string]interface{}, id func(*T) int64) (int64, error) {
	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 && id(row) != 0 {
		return id(row), nil
	}

	var existing T
	err := db.WithContext(ctx).Where(natural).Take(&existing).Error
	if err == nil {
		return id(&existing), nil
	}
	if !errors.Is(err, gormlib.ErrRecordNotFound) {
		return 0, err
	}

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return 0, err
	}
	return id(row), nil
}

// UpsertBrand
// ON CONFLICT (name) DO NOTHING
func (r *LookupRepository) UpsertBrand(ctx context.Context, b *gorm.Brand) (int64, error) {
	return upsertOrGet(ctx, r.db, b,
		map[string]interface{}{"name": b.Name},
		func(x *gorm.Brand) int64 { return x.ID })
}

// UpsertModel
// ON CONFLICT (brand_id, name) DO NOTHING
func (r *LookupRepository) UpsertModel(ctx context.Context, m *gorm.Model) (int64, error) {
	return upsertOrGet(ctx, r.db, m,
		map[string]interface{}{"brand_id": m.BrandID, "name": m.Name},
		func(x *gorm.Model) int64 { return x.ID })
}

// UpsertDimension
// ON CONFLICT (width_mm, height_pct, rim_diam_in) DO NOTHING
func (r *LookupRepository) UpsertDimension(ctx context.Context, d *gorm.Dimension) (int64, error) {
	return upsertOrGet(ctx, r.db, d,
		map[string]interface{}{"width_mm": d.WidthMM, "height_pct": d.HeightPct, "rim_diam_in": d.RimDiamIn},
		func(x *gorm.Dimension) int64 { return x.ID })
}

// UpsertSeason
// ON CONFLICT (name) DO NOTHING
func (r *LookupRepository) UpsertSeason(ctx context.Context, s *gorm.Season) (int64, error) {
	return upsertOrGet(ctx, r.db, s,
		map[string]interface{}{"name": s.Name},
		func(x *gorm.Season) int64 { return x.ID })
}

// UpsertSeller
// ON CONFLICT (name) DO NOTHING
func (r *LookupRepository) UpsertSeller(ctx context.Context, s *gorm.Seller) (int64, error) {
	return upsertOrGet(ctx, r.db, s,
		map[string]interface{}{"name": s.Name},
		func(x *gorm.Seller) int64 { return x.ID })
}

// UpsertTag refreshes the display value of an existing slug.
// ON CONFLICT (slug) DO UPDATE SET value
func (r *LookupRepository) UpsertTag(ctx context.Context, t *gorm.Tag) (int64, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(t).Error
	if err != nil {
		return 0, err
	}
	if t.ID != 0 {
		return t.ID, nil
	}

	var existing gorm.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", t.Slug).Take(&existing).Error; err != nil {
		return 0, err
	}
	return existing.ID, nil
}
