package catalog

import "errors"

var (
	// ErrFetchFailed covers transport failures and fetch timeouts. Once
	// returned, the loader is stuck in the failed state until Reset.
	ErrFetchFailed = errors.New("catalog fetch failed")

	// ErrEmptyCatalog means the fetch succeeded but zero rows survived
	// validation.
	ErrEmptyCatalog = errors.New("catalog contained no valid rows")

	// ErrPreviouslyFailed is the sticky short-circuit: a prior load
	// failed and no new fetch will be attempted until an explicit Reset.
	ErrPreviouslyFailed = errors.New("catalog load previously failed")
)
