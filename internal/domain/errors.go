package domain

import "errors"

var (
	ErrEmptyDataset         = errors.New("dataset contains no valid events")
	ErrEventNotFound        = errors.New("event not found")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidEventType     = errors.New("invalid event type")
	ErrCatalogNotLoaded     = errors.New("catalog not loaded")
	ErrCatalogSourceMissing = errors.New("catalog source missing")
)
