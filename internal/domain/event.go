package domain

import "time"

type EventType string

const (
	EventTypeFree EventType = "free"
	EventTypePaid EventType = "paid"
)

// Event represents one row of the dataset: a single tech event.
// Events are immutable after load; ID is unique within a loaded dataset.
type Event struct {
	ID       string
	Name     string
	Category string
	Type     EventType
	City     string
	Price    float64
	Date     time.Time
	Venue    string
	Link     string
}
