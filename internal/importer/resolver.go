package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/db/repositories"
	"tyrehub/catalog/internal/metrics"
	"tyrehub/catalog/internal/models/gorm"

	"github.com/patrickmn/go-cache"
)

type lookupKind string

const (
	kindBrand     lookupKind = "brand"
	kindModel     lookupKind = "model"
	kindDimension lookupKind = "dimension"
	kindSeason    lookupKind = "season"
	kindTag       lookupKind = "tag"
)

// LookupCache memoizes lookup ids for a single import run. Entries never
// expire; the cache is dropped with the run.
type LookupCache struct {
	c       *cache.Cache
	metrics *metrics.MetricsRegistry
}

func NewLookupCache(m *metrics.MetricsRegistry) *LookupCache {
	return &LookupCache{
		c:       cache.New(cache.NoExpiration, 0),
		metrics: m,
	}
}

func cacheKey(kind lookupKind, parts ...string) string {
	return string(kind) + ":" + strings.ToLower(strings.Join(parts, "|"))
}

func (lc *LookupCache) get(kind lookupKind, key string) (int64, bool) {
	v, ok := lc.c.Get(key)
	if !ok {
		lc.metrics.CacheMissesTotal.WithLabelValues("lookup_" + string(kind)).Inc()
		return 0, false
	}
	lc.metrics.CacheHitsTotal.WithLabelValues("lookup_" + string(kind)).Inc()
	return v.(int64), true
}

// Len reports how many ids are memoized.
func (lc *LookupCache) Len() int {
	return lc.c.ItemCount()
}

// Resolver resolves lookup ids inside one batch transaction. Ids created or
// found during the batch are staged and only reach the run cache on commit,
// so a rolled back batch cannot leave ids of vanished rows behind.
type Resolver struct {
	repo    *repositories.LookupRepository
	cache   *LookupCache
	pending map[string]int64
}

func newResolver(repo *repositories.LookupRepository, lc *LookupCache) *Resolver {
	return &Resolver{repo: repo, cache: lc, pending: make(map[string]int64)}
}

func (r *Resolver) cached(kind lookupKind, key string) (int64, bool) {
	if id, ok := r.pending[key]; ok {
		return id, true
	}
	return r.cache.get(kind, key)
}

func (r *Resolver) resolve(kind lookupKind, key string, create func() (int64, error)) (int64, error) {
	if id, ok := r.cached(kind, key); ok {
		return id, nil
	}
	id, err := create()
	if err != nil {
		return 0, fmt.Errorf("resolve %s %q: %w", kind, key, err)
	}
	r.pending[key] = id
	return id, nil
}

// commit promotes the staged ids into the run cache.
func (r *Resolver) commit() {
	for k, id := range r.pending {
		r.cache.c.Set(k, id, cache.NoExpiration)
	}
	r.pending = make(map[string]int64)
}

func (r *Resolver) Brand(ctx context.Context, name string) (int64, error) {
	return r.resolve(kindBrand, cacheKey(kindBrand, name), func() (int64, error) {
		return r.repo.UpsertBrand(ctx, &gorm.Brand{Name: name, Slug: common.Slugify(name)})
	})
}

func (r *Resolver) Model(ctx context.Context, brandID int64, brandName, name string) (int64, error) {
	key := cacheKey(kindModel, strconv.FormatInt(brandID, 10), name)
	return r.resolve(kindModel, key, func() (int64, error) {
		return r.repo.UpsertModel(ctx, &gorm.Model{
			BrandID: brandID,
			Name:    name,
			Slug:    common.SlugifyParts(brandName, name),
		})
	})
}

func (r *Resolver) Dimension(ctx context.Context, width, height int, rim float64) (int64, error) {
	w, h, d := strconv.Itoa(width), strconv.Itoa(height), formatRim(rim)
	return r.resolve(kindDimension, cacheKey(kindDimension, w, h, d), func() (int64, error) {
		return r.repo.UpsertDimension(ctx, &gorm.Dimension{
			WidthMM:   width,
			HeightPct: height,
			RimDiamIn: rim,
			Slug:      fmt.Sprintf("%s-%s-r%s", w, h, common.Slugify(d)),
		})
	})
}

// Season returns nil for records without a season.
func (r *Resolver) Season(ctx context.Context, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	id, err := r.resolve(kindSeason, cacheKey(kindSeason, name), func() (int64, error) {
		return r.repo.UpsertSeason(ctx, &gorm.Season{Name: name, Slug: common.Slugify(name)})
	})
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Tag is keyed by slug, so "SUV" and "suv" share a row.
func (r *Resolver) Tag(ctx context.Context, value string) (int64, error) {
	slug := common.Slugify(value)
	return r.resolve(kindTag, cacheKey(kindTag, slug), func() (int64, error) {
		return r.repo.UpsertTag(ctx, &gorm.Tag{Value: value, Slug: slug})
	})
}
