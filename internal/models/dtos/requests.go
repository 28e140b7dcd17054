package dtos

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tyrehub/catalog/internal/constants"
)

const (
	SortRelevance = "relevance"
	SortPrice     = "price"
)

// TyreListQuery holds the filters of GET /tyres.
type TyreListQuery struct {
	Q      string
	Type   string
	Size   string
	Season string
	Brand  string
	Model  string
	Page   int
	Limit  int
	Sort   string
}

// ParseTyreListQuery reads and normalizes the query string. Page and limit
// must be positive integers when present; limit is capped.
func ParseTyreListQuery(v url.Values) (TyreListQuery, error) {
	q := TyreListQuery{
		Q:      strings.TrimSpace(v.Get("q")),
		Type:   strings.TrimSpace(v.Get("type")),
		Size:   strings.TrimSpace(v.Get("size")),
		Season: strings.TrimSpace(v.Get("season")),
		Brand:  strings.TrimSpace(v.Get("brand")),
		Model:  strings.TrimSpace(v.Get("model")),
		Sort:   SortRelevance,
	}

	var err error
	if q.Page, err = positiveInt(v.Get("page"), constants.DefaultPage); err != nil {
		return q, fmt.Errorf("page: %w", err)
	}
	if q.Limit, err = positiveInt(v.Get("limit"), constants.DefaultLimit); err != nil {
		return q, fmt.Errorf("limit: %w", err)
	}
	if q.Limit > constants.MaxLimit {
		q.Limit = constants.MaxLimit
	}

	switch sort := strings.ToLower(strings.TrimSpace(v.Get("sort"))); sort {
	case "", SortRelevance:
	case SortPrice:
		q.Sort = SortPrice
	default:
		return q, fmt.Errorf("sort: unsupported value %q", sort)
	}
	return q, nil
}

func positiveInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("must be a positive integer, got %q", raw)
	}
	return n, nil
}
