package importer

import (
	"fmt"
	"os"

	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/models/feed"
)

// ReadFeed loads the whole feed file. Objects that cannot be decoded are
// logged and counted in rejected.
func ReadFeed(path string) (records []feed.Record, rejected int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read feed: %w", err)
	}

	records, err = feed.Decode(data, func(index int, err error) {
		rejected++
		logging.Warn("Skipping undecodable feed object", "index", index, "error", err)
	})
	if err != nil {
		return nil, 0, err
	}
	return records, rejected, nil
}

// chunk splits items into consecutive slices of at most size elements.
func chunk(items []Item, size int) [][]Item {
	if size < 1 {
		size = 1
	}
	out := make([][]Item, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		out = append(out, items[start:min(start+size, len(items))])
	}
	return out
}
