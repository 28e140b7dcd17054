package gorm

import "time"

// Offer is one seller's listing of a product. Natural key: (seller_id, sku_external, product_id).
type Offer struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID    int64     `gorm:"column:product_id;not null;uniqueIndex:ux_offer_seller_sku_product,priority:3" json:"product_id"`
	SellerID     int64     `gorm:"column:seller_id;not null;uniqueIndex:ux_offer_seller_sku_product,priority:1" json:"seller_id"`
	SKUExternal  string    `gorm:"column:sku_external;type:varchar(80);not null;uniqueIndex:ux_offer_seller_sku_product,priority:2" json:"sku_external"`
	PriceNumeric float64   `gorm:"column:price_numeric;type:numeric(12,2);not null;default:0" json:"price_numeric"`
	Currency     string    `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	Stock        int       `gorm:"column:stock;not null;default:0" json:"stock"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LeadTimeDays *int      `gorm:"column:lead_time_days" json:"lead_time_days"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Tyre   *OfferTyreSpec `gorm:"foreignKey:OfferID" json:"offer_tyres,omitempty"`
	Seller *Seller        `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

func (Offer) TableName() string {
	return "offer"
}

// OfferTyreSpec carries condition fields of a tyre offer.
type OfferTyreSpec struct {
	ID           int64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	OfferID      int64    `gorm:"column:offer_id;not null;uniqueIndex:ux_offer_tyres_offer" json:"offer_id"`
	MinDepthMM   *float64 `gorm:"column:min_depth_mm" json:"min_depth_mm"`
	QualityGrade *string  `gorm:"column:quality_grade;type:varchar(40)" json:"quality_grade"`
}

func (OfferTyreSpec) TableName() string {
	return "offer_tyres"
}
