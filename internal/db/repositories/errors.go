package repositories

import "errors"

// ErrNotFound is returned by lookups that require a row to exist.
var ErrNotFound = errors.New("record not found")

// writeChunkSize bounds the rows per multi-row INSERT so large batches stay
// under driver bind-parameter limits.
const writeChunkSize = 500
