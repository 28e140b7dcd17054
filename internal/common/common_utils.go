package common

import (
	"encoding/json"
	"fmt"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// CacheGetAs reads key and converts it to T.
func CacheGetAs[T any](c CacheInterface, key string) (T, bool) {
	val, found := c.Get(key)
	if !found {
		var zero T
		return zero, false
	}
	return convertAs[T](val)
}

// CacheGetOrSetAs is GetOrSet for a typed loader.
func CacheGetOrSetAs[T any](c CacheInterface, key string, duration time.Duration, load func() (T, error)) (T, error) {
	var zero T

	val, err := c.GetOrSet(key, duration, func() (any, error) {
		return load()
	})
	if err != nil {
		return zero, err
	}

	out, ok := convertAs[T](val)
	if !ok {
		return zero, fmt.Errorf("cache: value at %s is not a %T", key, zero)
	}
	return out, nil
}

// convertAs returns values cached in memory as is and decodes values that
// went through redis from their generic JSON form.
func convertAs[T any](val interface{}) (T, bool) {
	var zero T
	if typed, ok := val.(T); ok {
		return typed, true
	}

	data, err := json.Marshal(val)
	if err != nil {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, false
	}
	return out, true
}
