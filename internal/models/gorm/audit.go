package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// ProductRaw is the append-only audit of feed payloads.
type ProductRaw struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Source      string         `gorm:"column:source;type:varchar(20);not null;uniqueIndex:ux_product_raw_source_hash,priority:1"`
	PayloadHash string         `gorm:"column:payload_hash;type:char(32);not null;uniqueIndex:ux_product_raw_source_hash,priority:2"`
	Payload     datatypes.JSON `gorm:"column:payload;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (ProductRaw) TableName() string {
	return "product_raw"
}

// SysSetting is a key/value runtime setting.
type SysSetting struct {
	Key string `gorm:"column:key;primaryKey;type:varchar(80)" db:"key"`
	Val string `gorm:"column:val;type:text" db:"val"`
}

func (SysSetting) TableName() string {
	return "sys_setting"
}

const (
	ImportStatusRunning   = "running"
	ImportStatusSucceeded = "succeeded"
	ImportStatusFailed    = "failed"
)

// ImportRun records one execution of the feed importer.
type ImportRun struct {
	ID         string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	File       string     `gorm:"column:file;type:text" json:"file"`
	Trigger    string     `gorm:"column:triggered_by;type:varchar(10)" json:"triggered_by"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	Total      int        `gorm:"column:total" json:"total"`
	Processed  int        `gorm:"column:processed" json:"processed"`
	Skipped    int        `gorm:"column:skipped" json:"skipped"`
	Batches    int        `gorm:"column:batches" json:"batches"`
	Error      string     `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt  time.Time  `gorm:"column:started_at" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (ImportRun) TableName() string {
	return "import_run"
}
