package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

const getSettingQuery = `SELECT val FROM sys_setting WHERE key = ?`

// SettingsRepository reads sys_setting with plain SQL.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the raw value of key and whether it exists.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var val sql.NullString
	err := r.db.GetContext(ctx, &val, r.db.Rebind(getSettingQuery), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val.String, val.Valid, nil
}

// GetPositiveFloat returns key as a number > 0, or fallback when the setting
// is absent or blank.
func (r *SettingsRepository) GetPositiveFloat(ctx context.Context, key string, fallback float64) (float64, error) {
	raw, ok, err := r.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("setting %s: invalid positive number %q", key, raw)
	}
	return v, nil
}
