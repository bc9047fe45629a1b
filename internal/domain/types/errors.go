package types

import "errors"

var (
	ErrDatasetNotReady   = errors.New("dataset is not loaded yet")
	ErrSourceUnavailable = errors.New("trip source unavailable")
	ErrRefreshInProgress = errors.New("dataset refresh already in progress")

	ErrInvalidFilter = errors.New("invalid filter specification")
	ErrNotFound      = errors.New("requested item not found")
)
