package gorm

import "time"

// Brand is a tyre manufacturer. Natural key: name.
type Brand struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(120);not null;uniqueIndex:ux_brand_name" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(140);index" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Brand) TableName() string {
	return "brand"
}

// Model is a tyre pattern line within a brand. Natural key: (brand_id, name).
type Model struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BrandID   int64     `gorm:"column:brand_id;not null;uniqueIndex:ux_model_brand_name,priority:1" json:"brand_id"`
	Name      string    `gorm:"column:name;type:varchar(160);not null;uniqueIndex:ux_model_brand_name,priority:2" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(200);index" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Model) TableName() string {
	return "model"
}

// Dimension is a tyre size. Natural key: (width_mm, height_pct, rim_diam_in).
type Dimension struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	WidthMM   int       `gorm:"column:width_mm;not null;uniqueIndex:ux_dimension_size,priority:1" json:"width_mm"`
	HeightPct int       `gorm:"column:height_pct;not null;uniqueIndex:ux_dimension_size,priority:2" json:"height_pct"`
	RimDiamIn float64   `gorm:"column:rim_diam_in;not null;uniqueIndex:ux_dimension_size,priority:3" json:"rim_diam_in"`
	Slug      string    `gorm:"column:slug;type:varchar(40);index" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Dimension) TableName() string {
	return "dimension"
}

// Season is a tyre season (summer, winter, all season). Natural key: name.
type Season struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(60);not null;uniqueIndex:ux_season_name" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(60);index" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Season) TableName() string {
	return "season"
}

// Tag is a free-form product label (vehicle fitment, category). Natural key: slug.
type Tag struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Value     string    `gorm:"column:value;type:varchar(160);not null" json:"value"`
	Slug      string    `gorm:"column:slug;type:varchar(180);not null;uniqueIndex:ux_tag_slug" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Tag) TableName() string {
	return "tag"
}

// Seller owns offers.
type Seller struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(120);not null;uniqueIndex:ux_seller_name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Seller) TableName() string {
	return "seller"
}
