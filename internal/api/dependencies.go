package api

import (
	"context"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"

	"tyrehub/catalog/internal/auth"
	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/db/repositories"
	"tyrehub/catalog/internal/importer"
	"tyrehub/catalog/internal/metrics"
	"tyrehub/catalog/internal/models/dtos"
	"tyrehub/catalog/internal/models/gorm"
	"tyrehub/catalog/internal/services"
)

// CatalogReader is the read side the catalogue handlers need.
type CatalogReader interface {
	ListTyres(ctx context.Context, q dtos.TyreListQuery) (*dtos.Paged[dtos.TyreCard], error)
	TyreBySlug(ctx context.Context, slug string) (*gorm.Product, error)
	CatalogProduct(ctx context.Context, slug string) (*gorm.Product, error)
	Dimensions(ctx context.Context) ([]gorm.Dimension, error)
	Seasons(ctx context.Context) ([]gorm.Season, error)
	Brands(ctx context.Context) ([]gorm.Brand, error)
	WarmLookups(ctx context.Context) error
}

// ImportTrigger starts background import runs and reports their history.
type ImportTrigger interface {
	Start(ctx context.Context, file, trigger string, done func(*dtos.ImportResult, error)) error
	RecentRuns(ctx context.Context, limit int) ([]gorm.ImportRun, error)
}

type Repositories struct {
	Catalog *repositories.CatalogRepository
}

type Services struct {
	Cache   common.CacheInterface
	Catalog CatalogReader
	Import  *importer.Job
	Signer  *auth.TokenSigner
}

type Dependencies struct {
	Repo       *Repositories
	Services   *Services
	DB         *sqlx.DB
	ImportFile string
}

// InitDependencies wires repositories and services over the given handles.
func InitDependencies(cfg *config.Config, gdb *gormlib.DB, sqlDB *sqlx.DB, cache common.CacheInterface, lock common.RunLock, m *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Catalog: repositories.NewCatalogRepository(gdb),
	}

	svcs := &Services{
		Cache:   cache,
		Catalog: services.NewCatalogService(repos.Catalog, cache),
		Import:  importer.NewJob(gdb, sqlDB, lock, cache, m, cfg.Import),
		Signer:  auth.NewTokenSigner([]byte(cfg.Admin.JWTSecret)),
	}

	return &Dependencies{
		Repo:       repos,
		Services:   svcs,
		DB:         sqlDB,
		ImportFile: cfg.Import.File,
	}, nil
}
