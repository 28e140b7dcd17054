package workers

import (
	"context"
	"time"

	"tyrehub/catalog/internal/logging"
)

// LookupWarmer loads the catalogue lookup lists through their cache.
type LookupWarmer interface {
	WarmLookups(ctx context.Context) error
}

// StartLookupCacheFiller keeps the lookup lists warm so the first storefront
// request after an import does not pay for the queries.
func StartLookupCacheFiller(ctx context.Context, w LookupWarmer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refillLookups(ctx, w)

	for {
		select {
		case <-ticker.C:
			refillLookups(ctx, w)
		case <-ctx.Done():
			return
		}
	}
}

func refillLookups(ctx context.Context, w LookupWarmer) {
	if err := w.WarmLookups(ctx); err != nil {
		logging.Warn("Lookup cache refill failed", "error", err)
	}
}
