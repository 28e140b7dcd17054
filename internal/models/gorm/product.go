package gorm

import (
	"time"

	"gorm.io/datatypes"
)

const ProductTypeTyre = "TYRE"

// Product is one sellable tyre variant, identified by its derived slug.
type Product struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductType string    `gorm:"column:product_type;type:varchar(20);not null;default:TYRE" json:"product_type"`
	BrandID     int64     `gorm:"column:brand_id;not null;index" json:"brand_id"`
	ModelID     int64     `gorm:"column:model_id;not null;index" json:"model_id"`
	Slug        string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex:ux_product_slug" json:"slug"`
	Title       string    `gorm:"column:title;type:text" json:"title"`
	IsVisible   bool      `gorm:"column:is_visible;not null;default:true" json:"is_visible"`
	OrderRank   int       `gorm:"column:order_rank;not null;default:0" json:"order_rank"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Brand  *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Model  *Model           `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	Tyre   *ProductTyreSpec `gorm:"foreignKey:ProductID" json:"product_tyres,omitempty"`
	Copy   *ProductCopy     `gorm:"foreignKey:ProductID" json:"copy,omitempty"`
	Offers []Offer          `gorm:"foreignKey:ProductID" json:"offer,omitempty"`
	Tags   []Tag            `gorm:"many2many:product_tag;joinForeignKey:ProductID;joinReferences:TagID" json:"tags,omitempty"`
}

func (Product) TableName() string {
	return "product"
}

// ProductTyreSpec is the 1:1 tyre extension of a product.
type ProductTyreSpec struct {
	ID           int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID    int64    `gorm:"column:product_id;not null;uniqueIndex:ux_product_tyres_product" json:"product_id"`
	DimensionID  int64    `gorm:"column:dimension_id;not null;index" json:"dimension_id"`
	SeasonID     *int64   `gorm:"column:season_id;index" json:"season_id"`
	TyreType     string   `gorm:"column:tyre_type;type:varchar(10);not null" json:"tyre_type"`
	DotYear      *int     `gorm:"column:dot_year" json:"dot_year"`
	LoadIndex    *int     `gorm:"column:load_index" json:"load_index"`
	SpeedIndex   *string  `gorm:"column:speed_index;type:varchar(4)" json:"speed_index"`
	TreadDepthMM *float64 `gorm:"column:tread_depth_mm" json:"tread_depth_mm"`
	DepthBucket  *int     `gorm:"column:depth_bucket;index" json:"depth_bucket"`
	Destination  *string  `gorm:"column:destination;type:varchar(60)" json:"destination"`

	Dimension *Dimension `gorm:"foreignKey:DimensionID" json:"dimension,omitempty"`
	Season    *Season    `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
}

func (ProductTyreSpec) TableName() string {
	return "product_tyres"
}

// ProductCopy holds descriptive marketing copy decoded from the feed.
type ProductCopy struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ProductID int64          `gorm:"column:product_id;not null;uniqueIndex:ux_product_copy_product" json:"product_id"`
	Content   datatypes.JSON `gorm:"column:content" json:"content"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProductCopy) TableName() string {
	return "product_copy"
}

// ProductTag links products and tags.
type ProductTag struct {
	ProductID int64 `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	TagID     int64 `gorm:"column:tag_id;primaryKey;autoIncrement:false"`
}

func (ProductTag) TableName() string {
	return "product_tag"
}
