package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("batter not found")
	ErrSeasonNotLoaded = errors.New("season not loaded")
)
