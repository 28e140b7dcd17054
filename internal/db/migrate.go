package db

import (
	"context"
	"fmt"

	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every table owned by the catalogue, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&gorm.Brand{},
		&gorm.Model{},
		&gorm.Dimension{},
		&gorm.Season{},
		&gorm.Tag{},
		&gorm.Seller{},
		&gorm.Product{},
		&gorm.ProductTyreSpec{},
		&gorm.ProductCopy{},
		&gorm.ProductTag{},
		&gorm.Offer{},
		&gorm.OfferTyreSpec{},
		&gorm.ProductRaw{},
		&gorm.SysSetting{},
		&gorm.ImportRun{},
	}
}

// Migrate creates or updates the schema and seeds default settings.
// Existing settings are left untouched.
func Migrate(ctx context.Context, db *gormlib.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	defaults := []gorm.SysSetting{
		{Key: constants.SettingDepthWindowMM, Val: constants.DefaultDepthWindowMM},
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}
