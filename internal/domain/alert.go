package domain

import "fmt"

// AlertEntry is one feed item within a single poll cycle.
type AlertEntry struct {
	ID      string // entry link URL
	Title   string
	Summary string // raw HTML body
}

// Validate reports ErrMalformedEntry when a required field is missing.
func (e AlertEntry) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: missing link", ErrMalformedEntry)
	case e.Title == "":
		return fmt.Errorf("%w: missing title (link %s)", ErrMalformedEntry, e.ID)
	case e.Summary == "":
		return fmt.Errorf("%w: missing summary (link %s)", ErrMalformedEntry, e.ID)
	}
	return nil
}
