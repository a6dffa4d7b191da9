package domain

import (
	"context"
	"time"
)

// RSVP is a guest's attendance confirmation for an event. SelectedDates is
// the comma-joined list of YYYY-MM-DD strings the guest picked.
// swagger:model RSVP
type RSVP struct {
	ID              int64     `json:"id"`
	EventID         string    `json:"event_id"`
	ParticipantName string    `json:"participant_name"`
	HasPlusOne      bool      `json:"has_plus_one"`
	PlusOneName     string    `json:"plus_one_name,omitempty"`
	SelectedDates   string    `json:"selected_dates"`
	CreatedAt       time.Time `json:"created_at"`
}

// RSVPInput is a guest submission from the public confirmation form.
type RSVPInput struct {
	EventID       string
	GuestName     string
	BringingGuest bool
	PlusOneName   string
	SelectedDates []string
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	Create(ctx context.Context, rsvp *RSVP) error
	// ListByEventID returns a page of RSVPs for the event, newest first,
	// optionally filtered by participant name, plus the unfiltered-by-page
	// total.
	ListByEventID(ctx context.Context, eventID, search string, params PaginationParams) ([]*RSVP, int, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// RSVPService defines the public confirmation operation.
type RSVPService interface {
	SubmitRSVP(ctx context.Context, input RSVPInput) (*RSVP, error)
}
