package repository

import "errors"

var (
	// ErrSeedEmpty is returned when the seed tables hold no columns
	ErrSeedEmpty = errors.New("seed board has no columns")

	// ErrUnknownSeedSource is returned for a seed source other than fixture or postgres
	ErrUnknownSeedSource = errors.New("unknown seed source")
)
