package repositories

import (
	"context"
	"encoding/hex"

	"tyrehub/catalog/internal/models/gorm"

	"github.com/zeebo/xxh3"
	"gorm.io/datatypes"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RawAuditRepository appends feed payloads to product_raw.
type RawAuditRepository struct {
	db *gormlib.DB
}

// NewRawAuditRepository creates a new raw audit repository
func NewRawAuditRepository(db *gormlib.DB) *RawAuditRepository {
	return &RawAuditRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *RawAuditRepository) WithTx(tx *gormlib.DB) *RawAuditRepository {
	return &RawAuditRepository{db: tx}
}

// PayloadHash is the 128-bit xxh3 of payload as 32 hex characters.
func PayloadHash(payload []byte) string {
	sum := xxh3.Hash128(payload).Bytes()
	return hex.EncodeToString(sum[:])
}

// Append stores payloads that were not seen before for source and returns
// how many rows were new.
// ON CONFLICT (source, payload_hash) DO NOTHING
func (r *RawAuditRepository) Append(ctx context.Context, source string, payloads [][]byte) (int64, error) {
	seen := make(map[string]struct{}, len(payloads))
	rows := make([]gorm.ProductRaw, 0, len(payloads))
	for _, p := range payloads {
		h := PayloadHash(p)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		rows = append(rows, gorm.ProductRaw{
			Source:      source,
			PayloadHash: h,
			Payload:     datatypes.JSON(p),
		})
	}

	var inserted int64
	for start := 0; start < len(rows); start += writeChunkSize {
		chunk := rows[start:min(start+writeChunkSize, len(rows))]
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&chunk)
		if res.Error != nil {
			return inserted, res.Error
		}
		inserted += res.RowsAffected
	}
	return inserted, nil
}
