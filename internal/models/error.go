package models

import "errors"

// Sentinel errors for common failure conditions
var (
	// ErrConnectionFailed means a store connection could not be
	// established or was lost mid-operation. Retryable.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrQueryFailed means the store was reachable but the operation
	// raised a driver-level error. Retryable; wrapped with the driver
	// message attached.
	ErrQueryFailed = errors.New("query execution failed")

	// ErrDuplicateEmail is a business-rule rejection: the email is
	// already registered. Never retried, surfaced immediately.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrValidation covers malformed input caught before any store call.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound means the referenced id is absent from the store or
	// the session cache.
	ErrNotFound = errors.New("resource not found")

	ErrUnauthorized = errors.New("unauthorized")
)

// Session/pagination errors surfaced by the search engine.
var (
	// ErrFetchInFlight rejects a page fetch while another fetch for the
	// same session has not completed.
	ErrFetchInFlight = errors.New("a page fetch is already in flight for this session")

	// ErrPageOutOfOrder rejects a page that is neither 1 nor the page
	// after the last applied one.
	ErrPageOutOfOrder = errors.New("page requested out of order")

	// ErrLastPage rejects advancing past the last page.
	ErrLastPage = errors.New("last page already reached")
)

// Retryable reports whether an error is a transient connectivity or
// execution failure that the retry controller may absorb. Business-rule
// and validation errors bypass retry entirely.
func Retryable(err error) bool {
	return errors.Is(err, ErrConnectionFailed) || errors.Is(err, ErrQueryFailed)
}
