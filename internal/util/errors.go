package util

import "errors"

var (
	ErrItemStateNotFound = errors.New("learning item state not found")
	ErrRollupNotFound    = errors.New("daily rollup not found")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
)
