package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

const (
	icsProductID = "-//Cimillas//TechEventTracker//EN"
	icsUIDDomain = "tech-event-tracker.cimillas.dev"
)

// HandleExportICS returns an HTTP handler that serves the filtered events
// as an iCalendar feed of all-day entries.
func HandleExportICS(svc EventCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		crit, ok := parseCriteria(w, r)
		if !ok {
			return
		}

		events, err := svc.Filter(r.Context(), crit)
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename=tech-events.ics`)

		stamp := time.Now().UTC().Format("20060102T150405Z")

		fmt.Fprintln(w, "BEGIN:VCALENDAR")
		fmt.Fprintln(w, "VERSION:2.0")
		fmt.Fprintf(w, "PRODID:%s\n", icsProductID)
		fmt.Fprintln(w, "X-WR-CALNAME:Tech Events")
		fmt.Fprintln(w, "CALSCALE:GREGORIAN")

		for _, event := range events {
			fmt.Fprintln(w, "BEGIN:VEVENT")
			fmt.Fprintf(w, "UID:%s@%s\n", event.ID, icsUIDDomain)
			fmt.Fprintf(w, "DTSTAMP:%s\n", stamp)
			fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", event.Date.Format("20060102"))
			fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", event.Date.AddDate(0, 0, 1).Format("20060102"))
			fmt.Fprintf(w, "SUMMARY:%s\n", escapeICSText(event.Name))
			fmt.Fprintf(w, "DESCRIPTION:%s\n", escapeICSText(describeEvent(event)))
			fmt.Fprintf(w, "LOCATION:%s\n", escapeICSText(eventLocation(event)))
			if event.Link != "" {
				fmt.Fprintf(w, "URL:%s\n", event.Link)
			}
			fmt.Fprintln(w, "END:VEVENT")
		}

		fmt.Fprintln(w, "END:VCALENDAR")
	}
}

func describeEvent(e domain.Event) string {
	if e.Type == domain.EventTypeFree {
		return fmt.Sprintf("%s / Free", e.Category)
	}
	return fmt.Sprintf("%s / Paid (%.2f)", e.Category, e.Price)
}

func eventLocation(e domain.Event) string {
	if e.Venue == "" {
		return e.City
	}
	return e.Venue + ", " + e.City
}

// escapeICSText escapes the characters RFC 5545 reserves in text values.
func escapeICSText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
