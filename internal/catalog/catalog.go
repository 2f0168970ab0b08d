// Package catalog parses the event CSV into an immutable in-memory dataset
// and answers filter queries against it.
package catalog

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// Required CSV columns. Each maps to a list of accepted header names,
// checked in order, matched case-insensitively.
var columnAliases = map[string][]string{
	"name":     {"name", "event_name", "title"},
	"category": {"category", "tags", "topic"},
	"type":     {"type", "event_type", "mode"},
	"city":     {"city", "location"},
	"price":    {"price", "cost", "fee"},
	"date":     {"date", "event_date", "start_date"},
	"venue":    {"venue", "place"},
}

// Optional columns.
var optionalAliases = map[string][]string{
	"id":   {"id", "event_id"},
	"link": {"link", "url"},
}

var requiredColumns = []string{"name", "category", "type", "city", "price", "date", "venue"}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

var (
	errRowTooShort   = errors.New("row has fewer fields than the header")
	errBadPrice      = errors.New("unparseable price")
	errNegativePrice = errors.New("negative price")
	errBadDate       = errors.New("unparseable date")
	errBadType       = errors.New("type must be Free or Paid")
	errFreePriced    = errors.New("free event with non-zero price")
	errPaidUnpriced  = errors.New("paid event with non-positive price")
	errDuplicateID   = errors.New("duplicate id")
)

// RowError describes a single skipped row. Line is 1-based and counts the
// header line, so it matches what an editor shows for the source file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Catalog is an ordered, immutable sequence of events from one load.
type Catalog struct {
	events  []domain.Event
	byID    map[string]int
	skipped []RowError
}

// Load parses CSV input with a header row into a Catalog. Malformed rows
// are skipped and reported via Skipped so the caller can log them; the
// load only fails when the header is unusable or no valid row remains.
func Load(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, domain.ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	c := &Catalog{byID: make(map[string]int)}
	seenDerived := make(map[string]int)
	line := 1

	for {
		line++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				c.skipped = append(c.skipped, RowError{Line: line, Err: err})
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		event, err := parseRow(rec, cols)
		if err != nil {
			c.skipped = append(c.skipped, RowError{Line: line, Err: err})
			continue
		}

		if event.ID == "" {
			event.ID = deriveID(event, seenDerived)
		} else if _, exists := c.byID[event.ID]; exists {
			c.skipped = append(c.skipped, RowError{Line: line, Err: errDuplicateID})
			continue
		}

		c.byID[event.ID] = len(c.events)
		c.events = append(c.events, event)
	}

	if len(c.events) == 0 {
		return nil, domain.ErrEmptyDataset
	}
	return c, nil
}

// Events returns the loaded events in dataset order.
func (c *Catalog) Events() []domain.Event {
	out := make([]domain.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Filter returns the events matching the criteria, in dataset order.
func (c *Catalog) Filter(crit domain.Criteria) []domain.Event {
	out := make([]domain.Event, 0)
	for _, e := range c.events {
		if crit.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Get looks up an event by id.
func (c *Catalog) Get(id string) (domain.Event, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Event{}, false
	}
	return c.events[idx], true
}

// Len reports the number of valid events in the dataset.
func (c *Catalog) Len() int {
	return len(c.events)
}

// Skipped reports the rows the load rejected.
func (c *Catalog) Skipped() []RowError {
	out := make([]RowError, len(c.skipped))
	copy(out, c.skipped)
	return out
}

func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, taken := index[name]; !taken {
			index[name] = i
		}
	}

	cols := make(map[string]int)
	var missing []string
	for _, col := range requiredColumns {
		found := false
		for _, alias := range columnAliases[col] {
			if i, ok := index[alias]; ok {
				cols[col] = i
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	for col, aliases := range optionalAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[col] = i
				break
			}
		}
	}
	return cols, nil
}

func parseRow(rec []string, cols map[string]int) (domain.Event, error) {
	field := func(col string) (string, bool) {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	for _, col := range requiredColumns {
		v, ok := field(col)
		if !ok {
			return domain.Event{}, errRowTooShort
		}
		if v == "" && col != "price" {
			return domain.Event{}, fmt.Errorf("missing required field %q", col)
		}
	}

	name, _ := field("name")
	category, _ := field("category")
	city, _ := field("city")
	venue, _ := field("venue")

	typeRaw, _ := field("type")
	var eventType domain.EventType
	switch strings.ToLower(typeRaw) {
	case "free":
		eventType = domain.EventTypeFree
	case "paid":
		eventType = domain.EventTypePaid
	default:
		return domain.Event{}, errBadType
	}

	price, err := parsePrice(rec, cols)
	if err != nil {
		return domain.Event{}, err
	}
	if eventType == domain.EventTypeFree && price != 0 {
		return domain.Event{}, errFreePriced
	}
	if eventType == domain.EventTypePaid && price <= 0 {
		return domain.Event{}, errPaidUnpriced
	}

	dateRaw, _ := field("date")
	date, err := parseDate(dateRaw)
	if err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		Name:     name,
		Category: category,
		Type:     eventType,
		City:     city,
		Price:    price,
		Date:     date,
		Venue:    venue,
	}
	if link, ok := field("link"); ok {
		event.Link = link
	}
	if id, ok := field("id"); ok {
		event.ID = id
	}
	return event, nil
}

func parsePrice(rec []string, cols map[string]int) (float64, error) {
	i := cols["price"]
	if i >= len(rec) {
		return 0, errRowTooShort
	}
	raw := strings.TrimSpace(rec[i])
	// Some exports put "Free" in the price column instead of a number.
	if raw == "" || strings.EqualFold(raw, "free") {
		return 0, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errBadPrice
	}
	if price < 0 {
		return 0, errNegativePrice
	}
	return price, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadDate
}

// deriveID builds a stable id from name and date when the CSV carries no id
// column. Rows sharing (name, date) stay distinct events: repeats get an
// ordinal suffix in dataset order.
func deriveID(e domain.Event, seen map[string]int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(e.Name) + "|" + e.Date.Format("2006-01-02")))
	id := hex.EncodeToString(sum[:])[:12]
	seen[id]++
	if n := seen[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}
