package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"tyrehub/catalog/internal/db/repositories"
	"tyrehub/catalog/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// BatchWriter writes one batch of items inside a single transaction.
type BatchWriter struct {
	db       *gormlib.DB
	lookups  *repositories.LookupRepository
	products *repositories.ProductRepository
	offers   *repositories.OfferRepository
	raw      *repositories.RawAuditRepository
	cache    *LookupCache

	sellerID int64
	source   string
	currency string
}

func NewBatchWriter(db *gormlib.DB, lc *LookupCache, sellerID int64, source, currency string) *BatchWriter {
	return &BatchWriter{
		db:       db,
		lookups:  repositories.NewLookupRepository(db),
		products: repositories.NewProductRepository(db),
		offers:   repositories.NewOfferRepository(db),
		raw:      repositories.NewRawAuditRepository(db),
		cache:    lc,
		sellerID: sellerID,
		source:   source,
		currency: currency,
	}
}

// Write applies items atomically: either every row derived from the batch
// is committed or none is.
func (w *BatchWriter) Write(ctx context.Context, items []Item) error {
	var resolver *Resolver

	err := w.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		resolver = newResolver(w.lookups.WithTx(tx), w.cache)
		products := w.products.WithTx(tx)

		payloads := make([][]byte, 0, len(items))
		for _, it := range items {
			if len(it.Raw) > 0 {
				payloads = append(payloads, it.Raw)
			}
		}
		if _, err := w.raw.WithTx(tx).Append(ctx, w.source, payloads); err != nil {
			return fmt.Errorf("raw audit: %w", err)
		}

		pairs := make([]offerPair, 0, len(items))
		var links []gorm.ProductTag

		for _, it := range items {
			productID, err := w.writeProduct(ctx, resolver, products, it)
			if err != nil {
				return fmt.Errorf("record %d (sku %s): %w", it.Index, it.SKU, err)
			}

			pairs = append(pairs, offerPair{
				offer: gorm.Offer{
					ProductID:    productID,
					SellerID:     w.sellerID,
					SKUExternal:  it.SKU,
					PriceNumeric: it.Price,
					Currency:     w.currency,
					Stock:        it.Stock,
					IsActive:     true,
				},
				spec: gorm.OfferTyreSpec{
					MinDepthMM:   it.DepthMM,
					QualityGrade: it.Quality,
				},
			})

			for _, tag := range it.Tags {
				tagID, err := resolver.Tag(ctx, tag)
				if err != nil {
					return fmt.Errorf("record %d (sku %s): %w", it.Index, it.SKU, err)
				}
				links = append(links, gorm.ProductTag{ProductID: productID, TagID: tagID})
			}
		}

		return w.writeOffers(ctx, tx, dedupOffers(pairs), dedupTags(links))
	})
	if err != nil {
		return err
	}

	resolver.commit()
	return nil
}

func (w *BatchWriter) writeProduct(ctx context.Context, res *Resolver, products *repositories.ProductRepository, it Item) (int64, error) {
	brandID, err := res.Brand(ctx, it.Brand)
	if err != nil {
		return 0, err
	}
	modelID, err := res.Model(ctx, brandID, it.Brand, it.Model)
	if err != nil {
		return 0, err
	}
	dimensionID, err := res.Dimension(ctx, it.WidthMM, it.HeightPct, it.RimDiamIn)
	if err != nil {
		return 0, err
	}
	seasonID, err := res.Season(ctx, it.Season)
	if err != nil {
		return 0, err
	}

	product := &gorm.Product{
		ProductType: gorm.ProductTypeTyre,
		BrandID:     brandID,
		ModelID:     modelID,
		Slug:        it.Slug(),
		Title:       it.Title,
		IsVisible:   true,
	}
	if err := products.Upsert(ctx, product); err != nil {
		return 0, fmt.Errorf("upsert product %s: %w", product.Slug, err)
	}

	spec := &gorm.ProductTyreSpec{
		ProductID:    product.ID,
		DimensionID:  dimensionID,
		SeasonID:     seasonID,
		TyreType:     it.TyreType,
		DotYear:      it.DotYear,
		LoadIndex:    it.LoadIndex,
		SpeedIndex:   it.SpeedIndex,
		TreadDepthMM: it.DepthMM,
		DepthBucket:  it.DepthBucket,
		Destination:  it.Destination,
	}
	if err := products.InsertTyreSpec(ctx, spec); err != nil {
		return 0, fmt.Errorf("insert tyre spec: %w", err)
	}

	if len(it.Copy) > 0 && json.Valid(it.Copy) {
		if err := products.UpsertCopy(ctx, &gorm.ProductCopy{ProductID: product.ID, Content: it.Copy}); err != nil {
			return 0, fmt.Errorf("upsert copy: %w", err)
		}
	}
	return product.ID, nil
}

// writeOffers upserts the offers first, then threads the returned ids into
// the paired condition rows by position before writing those.
func (w *BatchWriter) writeOffers(ctx context.Context, tx *gormlib.DB, pairs []offerPair, links []gorm.ProductTag) error {
	if len(pairs) > 0 {
		offers := make([]gorm.Offer, len(pairs))
		for i := range pairs {
			offers[i] = pairs[i].offer
		}
		if err := w.offers.WithTx(tx).UpsertMany(ctx, offers); err != nil {
			return fmt.Errorf("upsert offers: %w", err)
		}

		specs := make([]gorm.OfferTyreSpec, len(pairs))
		for i := range pairs {
			specs[i] = pairs[i].spec
			specs[i].OfferID = offers[i].ID
		}
		if err := w.offers.WithTx(tx).UpsertSpecs(ctx, specs); err != nil {
			return fmt.Errorf("upsert offer specs: %w", err)
		}
	}

	if len(links) > 0 {
		if err := w.products.WithTx(tx).LinkTags(ctx, links); err != nil {
			return fmt.Errorf("link tags: %w", err)
		}
	}
	return nil
}
