package services

import (
	"context"
	"fmt"
	"time"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/db/repositories"
	"tyrehub/catalog/internal/models/dtos"
	"tyrehub/catalog/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

// LookupTTL bounds how stale a cached lookup list can be when no import
// runs to invalidate it.
const LookupTTL = 10 * time.Minute

type CatalogService struct {
	repo  *repositories.CatalogRepository
	cache common.CacheInterface
}

func NewCatalogService(repo *repositories.CatalogRepository, cache common.CacheInterface) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

// ListTyres returns one page of tyre cards matching q.
func (s *CatalogService) ListTyres(ctx context.Context, q dtos.TyreListQuery) (*dtos.Paged[dtos.TyreCard], error) {
	var (
		total    int64
		products []gorm.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.CountTyres(gctx, q)
		if err != nil {
			return fmt.Errorf("count tyres: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = s.repo.ListTyres(gctx, q)
		if err != nil {
			return fmt.Errorf("list tyres: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	stats, err := s.repo.OfferStats(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("offer stats: %w", err)
	}

	cards := make([]dtos.TyreCard, 0, len(products))
	for i := range products {
		p := &products[i]
		card := dtos.TyreCard{
			ID:        p.ID,
			Slug:      p.Slug,
			Title:     p.Title,
			OrderRank: p.OrderRank,
			Tyre:      p.Tyre,
		}
		if p.Brand != nil {
			card.Brand = &dtos.NameSlug{Name: p.Brand.Name, Slug: p.Brand.Slug}
		}
		if p.Model != nil {
			card.Model = &dtos.NameSlug{Name: p.Model.Name, Slug: p.Model.Slug}
		}
		if st, ok := stats[p.ID]; ok {
			card.OfferCount = st.OfferCount
			card.PriceFrom = st.PriceFrom
		}
		cards = append(cards, card)
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}

	return &dtos.Paged[dtos.TyreCard]{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Pages: pages,
		Items: cards,
	}, nil
}

// TyreBySlug returns the product with all of its offers, active or not.
func (s *CatalogService) TyreBySlug(ctx context.Context, slug string) (*gorm.Product, error) {
	return s.repo.FindProductBySlug(ctx, slug, false)
}

// CatalogProduct returns the product with its active offers and their sellers.
func (s *CatalogService) CatalogProduct(ctx context.Context, slug string) (*gorm.Product, error) {
	return s.repo.FindProductBySlug(ctx, slug, true)
}

func (s *CatalogService) Dimensions(ctx context.Context) ([]gorm.Dimension, error) {
	return cachedList(s.cache, constants.CachePrefixLookupDimensions, func() ([]gorm.Dimension, error) {
		return s.repo.ListDimensions(ctx)
	})
}

func (s *CatalogService) Seasons(ctx context.Context) ([]gorm.Season, error) {
	return cachedList(s.cache, constants.CachePrefixLookupSeasons, func() ([]gorm.Season, error) {
		return s.repo.ListSeasons(ctx)
	})
}

func (s *CatalogService) Brands(ctx context.Context) ([]gorm.Brand, error) {
	return cachedList(s.cache, constants.CachePrefixLookupBrands, func() ([]gorm.Brand, error) {
		return s.repo.ListBrands(ctx)
	})
}

func cachedList[T any](cache common.CacheInterface, key constants.CachePrefix, load func() ([]T, error)) ([]T, error) {
	return common.CacheGetOrSetAs(cache, string(key), LookupTTL, func() ([]T, error) {
		items, err := load()
		if items == nil && err == nil {
			items = []T{}
		}
		return items, err
	})
}

// WarmLookups reloads every lookup list into the cache.
func (s *CatalogService) WarmLookups(ctx context.Context) error {
	for _, key := range constants.LookupCacheKeys {
		s.cache.Delete(string(key))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Dimensions(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.Seasons(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.Brands(gctx)
		return err
	})
	return g.Wait()
}
