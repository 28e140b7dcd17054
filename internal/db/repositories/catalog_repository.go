package repositories

import (
	"context"
	"errors"
	"strings"

	"tyrehub/catalog/internal/models/dtos"
	"tyrehub/catalog/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// CatalogRepository serves the read side of the storefront.
type CatalogRepository struct {
	db *gormlib.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gormlib.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// OfferStat summarizes the offers of one product.
type OfferStat struct {
	ProductID  int64    `gorm:"column:product_id"`
	OfferCount int64    `gorm:"column:offer_count"`
	PriceFrom  *float64 `gorm:"column:price_from"`
}

// Products without an active offer sort last.
const orderByCheapestOffer = `COALESCE((SELECT MIN(o.price_numeric) FROM offer o WHERE o.product_id = product.id AND o.is_active = TRUE), 999999999) ASC`

// tyreQuery builds a fresh filtered query; every call returns an independent
// statement so count and page can run concurrently.
func (r *CatalogRepository) tyreQuery(ctx context.Context, q dtos.TyreListQuery) *gormlib.DB {
	tx := r.db.WithContext(ctx).
		Model(&gorm.Product{}).
		Where("product.is_visible = ?", true)

	if q.Q != "" {
		tx = tx.Where("LOWER(product.title) LIKE ?", "%"+strings.ToLower(q.Q)+"%")
	}
	if q.Brand != "" {
		tx = tx.Joins("JOIN brand ON brand.id = product.brand_id").
			Where("brand.slug = ?", q.Brand)
	}
	if q.Model != "" {
		tx = tx.Joins("JOIN model ON model.id = product.model_id").
			Where("model.slug = ?", q.Model)
	}
	if q.Size != "" || q.Season != "" || q.Type != "" {
		tx = tx.Joins("JOIN product_tyres ON product_tyres.product_id = product.id")
		if q.Type != "" {
			tx = tx.Where("product_tyres.tyre_type = ?", strings.ToUpper(q.Type))
		}
		if q.Size != "" {
			tx = tx.Joins("JOIN dimension ON dimension.id = product_tyres.dimension_id").
				Where("dimension.slug = ?", q.Size)
		}
		if q.Season != "" {
			tx = tx.Joins("JOIN season ON season.id = product_tyres.season_id").
				Where("season.slug = ?", q.Season)
		}
	}
	return tx
}

// CountTyres returns the number of visible products matching q.
func (r *CatalogRepository) CountTyres(ctx context.Context, q dtos.TyreListQuery) (int64, error) {
	var count int64
	err := r.tyreQuery(ctx, q).Count(&count).Error
	return count, err
}

// ListTyres returns one page of visible products with brand, model and tyre
// spec loaded. Page and Limit must already be normalized.
func (r *CatalogRepository) ListTyres(ctx context.Context, q dtos.TyreListQuery) ([]gorm.Product, error) {
	var products []gorm.Product

	tx := r.tyreQuery(ctx, q).Select("product.*")
	if q.Sort == dtos.SortPrice {
		tx = tx.Order(orderByCheapestOffer)
	}

	err := tx.
		Order("product.order_rank ASC").
		Order("product.id ASC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Preload("Brand").
		Preload("Model").
		Preload("Tyre.Dimension").
		Preload("Tyre.Season").
		Find(&products).Error

	if err != nil {
		return nil, err
	}
	return products, nil
}

// OfferStats returns offer count and cheapest active price per product.
func (r *CatalogRepository) OfferStats(ctx context.Context, productIDs []int64) (map[int64]OfferStat, error) {
	stats := make(map[int64]OfferStat, len(productIDs))
	if len(productIDs) == 0 {
		return stats, nil
	}

	var rows []OfferStat
	err := r.db.WithContext(ctx).
		Model(&gorm.Offer{}).
		Select("product_id, COUNT(*) AS offer_count, MIN(CASE WHEN is_active = ? THEN price_numeric END) AS price_from", true).
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.ProductID] = row
	}
	return stats, nil
}

// FindProductBySlug loads a product with everything the detail pages show.
// With activeOnly, inactive offers are left out and each offer's seller is
// loaded.
func (r *CatalogRepository) FindProductBySlug(ctx context.Context, slug string, activeOnly bool) (*gorm.Product, error) {
	var product gorm.Product

	tx := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Model").
		Preload("Tags").
		Preload("Tyre.Dimension").
		Preload("Tyre.Season").
		Preload("Copy").
		Preload("Offers", func(db *gormlib.DB) *gormlib.DB {
			if activeOnly {
				db = db.Where("is_active = ?", true)
			}
			return db.Order("price_numeric ASC").Order("id ASC")
		}).
		Preload("Offers.Tyre")
	if activeOnly {
		tx = tx.Preload("Offers.Seller")
	}

	err := tx.Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListDimensions returns every tyre size, narrowest first.
func (r *CatalogRepository) ListDimensions(ctx context.Context) ([]gorm.Dimension, error) {
	var dims []gorm.Dimension
	err := r.db.WithContext(ctx).
		Order("width_mm ASC, height_pct ASC, rim_diam_in ASC").
		Find(&dims).Error
	return dims, err
}

func (r *CatalogRepository) ListSeasons(ctx context.Context) ([]gorm.Season, error) {
	var seasons []gorm.Season
	err := r.db.WithContext(ctx).Order("name ASC").Find(&seasons).Error
	return seasons, err
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]gorm.Brand, error) {
	var brands []gorm.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	return brands, err
}
