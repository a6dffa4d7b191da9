package domain

import (
	"context"
	"time"
)

// Event is the top-level organized occasion being RSVP'd to.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DressCode       string    `json:"dress_code,omitempty"`
	LocationAddress string    `json:"location_address"`
	LocationLat     *float64  `json:"location_lat,omitempty"`
	LocationLng     *float64  `json:"location_lng,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	HasPlusOne      bool      `json:"has_plus_one"`
	AvailableDates  []string  `json:"available_dates"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EventDetail is the public read model for an event page: the event's
// scalar fields plus its grouped menu, speakers, and timeline.
type EventDetail struct {
	Event    *Event          `json:"event"`
	Menu     []*MenuGroup    `json:"menu"`
	Speakers []*Speaker      `json:"speakers"`
	Timeline []*TimelineItem `json:"timeline"`
}

// EventEdit is the management read model: flat collections with section
// ids surfaced as refs so a client can rebuild its draft state.
type EventEdit struct {
	Event        *Event             `json:"event"`
	Sections     []SectionDraft     `json:"sections"`
	Items        []ItemDraft        `json:"items"`
	Speakers     []SpeakerDraft     `json:"speakers"`
	Timeline     []TimelineDraft    `json:"timeline"`
	Participants []ParticipantDraft `json:"participants"`
}

// EventWithRSVPCount pairs an event with the number of RSVPs it has
// received, for the organizer dashboard.
type EventWithRSVPCount struct {
	Event     *Event `json:"event"`
	RSVPCount int    `json:"rsvp_count"`
}

// EventRepository defines storage operations for events and their nested
// collections. CreateEvent and ReplaceEvent apply the whole draft inside a
// single transaction: no partial nested state is ever observable.
type EventRepository interface {
	// CreateEvent inserts the event row and all nested collections from the
	// draft. Section ids are assigned by the store; item section refs are
	// resolved through the temp-id map built during section insertion.
	CreateEvent(ctx context.Context, event *Event, draft EventDraft) error
	// ReplaceEvent updates the event's scalar fields, deletes every existing
	// nested row (items before sections), and recreates them from the draft.
	ReplaceEvent(ctx context.Context, event *Event, draft EventDraft) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// DeleteEvent removes the event and all nested rows in one transaction.
	DeleteEvent(ctx context.Context, id string) error

	ListSectionsByEventID(ctx context.Context, eventID string) ([]*MenuSection, error)
	ListItemsByEventID(ctx context.Context, eventID string) ([]*MenuItem, error)
	// UpdateMenuItem edits one item's presentation and recipe fields in
	// place, scoped to the owner's events. A missing or not-owned item
	// reports ErrNotFound.
	UpdateMenuItem(ctx context.Context, itemID int64, ownerID string, upd MenuItemUpdate) (*MenuItem, error)
	// ListItemsByOwnerID returns every menu item across the owner's
	// events, with the parent event's name, ordered by title.
	ListItemsByOwnerID(ctx context.Context, ownerID string) ([]*MenuItemWithEvent, error)
	ListSpeakersByEventID(ctx context.Context, eventID string) ([]*Speaker, error)
	ListTimelineByEventID(ctx context.Context, eventID string) ([]*TimelineItem, error)
	ListParticipantsByEventID(ctx context.Context, eventID string) ([]*Participant, error)
}

// EventService defines organizer-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, ownerID string, input EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, input EventInput) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*EventDetail, error)
	GetEventForEdit(ctx context.Context, eventID, ownerID string) (*EventEdit, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*EventWithRSVPCount, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
	ListEventRSVPs(ctx context.Context, eventID, callerID, search string, params PaginationParams) ([]*RSVP, int, error)
	UpdateMenuItem(ctx context.Context, itemID int64, ownerID string, upd MenuItemUpdate) (*MenuItem, error)
	ListMenuItemsByOwner(ctx context.Context, ownerID string) ([]*MenuItemWithEvent, error)
}

// EventInput carries the scalar fields and the nested draft collections for
// creating or fully replacing an event.
type EventInput struct {
	Name            string
	Description     string
	DressCode       string
	LocationAddress string
	LocationLat     *float64
	LocationLng     *float64
	ImageURL        string
	HasPlusOne      bool
	AvailableDates  []string
	Draft           EventDraft
}
