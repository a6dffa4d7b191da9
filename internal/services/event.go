package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"guestlist/internal/domain"
)

const (
	minNameLen    = 3
	minAddressLen = 3
)

type eventService struct {
	eventRepo      domain.EventRepository
	rsvpRepo       domain.RSVPRepository
	invalidator    domain.PathInvalidator
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	invalidator domain.PathInvalidator,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		invalidator:    invalidator,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// validateEventInput rejects a draft that cannot be safely persisted.
// Messages are keyed by field so the form can surface them in place.
func validateEventInput(in domain.EventInput) *domain.ValidationError {
	v := domain.NewValidationError()
	if len(strings.TrimSpace(in.Name)) < minNameLen {
		v.Add("name", fmt.Sprintf("name must be at least %d characters", minNameLen))
	}
	if len(strings.TrimSpace(in.LocationAddress)) < minAddressLen {
		v.Add("location_address", fmt.Sprintf("location address must be at least %d characters", minAddressLen))
	}
	if len(in.AvailableDates) == 0 {
		v.Add("available_dates", "select at least one date")
	}
	if in.LocationLat != nil && (*in.LocationLat < -90 || *in.LocationLat > 90) {
		v.Add("location_lat", "latitude must be between -90 and 90")
	}
	if in.LocationLng != nil && (*in.LocationLng < -180 || *in.LocationLng > 180) {
		v.Add("location_lng", "longitude must be between -180 and 180")
	}
	for i, s := range in.Draft.Sections {
		if strings.TrimSpace(s.Title) == "" {
			v.Add("sections", fmt.Sprintf("section %d requires a title", i+1))
		}
	}
	for i, it := range in.Draft.Items {
		if strings.TrimSpace(it.Title) == "" {
			v.Add("items", fmt.Sprintf("item %d requires a title", i+1))
		}
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// logDanglingRefs records item refs that will not resolve to any submitted
// section. They are persisted with a null section, not rejected.
func (s *eventService) logDanglingRefs(ctx context.Context, eventID string, draft domain.EventDraft) {
	for _, ref := range draft.DanglingItemRefs() {
		s.logger.WarnContext(ctx, "menu item references unknown section, orphaning",
			"event_id", eventID, "section_ref", ref)
	}
}

func (s *eventService) invalidateEventPaths(eventID string) {
	s.invalidator.Invalidate("/event/" + eventID)
	s.invalidator.Invalidate("/admin/events/" + eventID)
}

func (s *eventService) CreateEvent(ctx context.Context, ownerID string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if v := validateEventInput(in); v != nil {
		return nil, v
	}

	now := time.Now()
	event := &domain.Event{
		OwnerID:         ownerID,
		Name:            in.Name,
		Description:     in.Description,
		DressCode:       in.DressCode,
		LocationAddress: in.LocationAddress,
		LocationLat:     in.LocationLat,
		LocationLng:     in.LocationLng,
		ImageURL:        in.ImageURL,
		HasPlusOne:      in.HasPlusOne,
		AvailableDates:  in.AvailableDates,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.logDanglingRefs(ctx, "", in.Draft)
	if err := s.eventRepo.CreateEvent(ctx, event, in.Draft); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.invalidateEventPaths(event.ID)
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if v := validateEventInput(in); v != nil {
		return nil, v
	}

	event.Name = in.Name
	event.Description = in.Description
	event.DressCode = in.DressCode
	event.LocationAddress = in.LocationAddress
	event.LocationLat = in.LocationLat
	event.LocationLng = in.LocationLng
	event.ImageURL = in.ImageURL
	event.HasPlusOne = in.HasPlusOne
	event.AvailableDates = in.AvailableDates
	event.UpdatedAt = time.Now()

	s.logDanglingRefs(ctx, eventID, in.Draft)
	if err := s.eventRepo.ReplaceEvent(ctx, event, in.Draft); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("replace event: %w", err)
	}
	s.invalidateEventPaths(eventID)
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	sections, err := s.eventRepo.ListSectionsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	items, err := s.eventRepo.ListItemsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	speakers, err := s.eventRepo.ListSpeakersByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	timeline, err := s.eventRepo.ListTimelineByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	if speakers == nil {
		speakers = []*domain.Speaker{}
	}
	if timeline == nil {
		timeline = []*domain.TimelineItem{}
	}
	return &domain.EventDetail{
		Event:    event,
		Menu:     domain.GroupMenu(sections, items),
		Speakers: speakers,
		Timeline: timeline,
	}, nil
}

func (s *eventService) GetEventForEdit(ctx context.Context, eventID, ownerID string) (*domain.EventEdit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	sections, err := s.eventRepo.ListSectionsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	items, err := s.eventRepo.ListItemsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	speakers, err := s.eventRepo.ListSpeakersByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	timeline, err := s.eventRepo.ListTimelineByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	participants, err := s.eventRepo.ListParticipantsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	edit := &domain.EventEdit{
		Event:        event,
		Sections:     make([]domain.SectionDraft, 0, len(sections)),
		Items:        make([]domain.ItemDraft, 0, len(items)),
		Speakers:     make([]domain.SpeakerDraft, 0, len(speakers)),
		Timeline:     make([]domain.TimelineDraft, 0, len(timeline)),
		Participants: make([]domain.ParticipantDraft, 0, len(participants)),
	}
	// Real section ids become the refs of the next submission's draft; the
	// replace engine will remap them like any other temp id.
	for _, sec := range sections {
		edit.Sections = append(edit.Sections, domain.SectionDraft{
			TempID:   fmt.Sprintf("%d", sec.ID),
			Title:    sec.Title,
			ImageURL: sec.ImageURL,
			Order:    domain.LooseInt(sec.Order),
		})
	}
	for _, it := range items {
		d := domain.ItemDraft{
			Title:       it.Title,
			Description: it.Description,
			ImageURL:    it.ImageURL,
		}
		if it.SectionID != nil {
			d.SectionRef = fmt.Sprintf("%d", *it.SectionID)
		}
		edit.Items = append(edit.Items, d)
	}
	for _, sp := range speakers {
		edit.Speakers = append(edit.Speakers, domain.SpeakerDraft{
			Name: sp.Name, Role: sp.Role, Bio: sp.Bio, ImageURL: sp.ImageURL,
		})
	}
	for _, t := range timeline {
		edit.Timeline = append(edit.Timeline, domain.TimelineDraft{
			Time: t.Time, Title: t.Title, Description: t.Description, Order: domain.LooseInt(t.Order),
		})
	}
	for _, p := range participants {
		edit.Participants = append(edit.Participants, domain.ParticipantDraft{Name: p.Name})
	}
	return edit, nil
}

func (s *eventService) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.EventWithRSVPCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]*domain.EventWithRSVPCount, 0, len(events))
	for _, e := range events {
		count, err := s.rsvpRepo.CountByEventID(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("count rsvps: %w", err)
		}
		out = append(out, &domain.EventWithRSVPCount{Event: e, RSVPCount: count})
	}
	return out, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.invalidateEventPaths(eventID)
	return nil
}

func (s *eventService) ListEventRSVPs(ctx context.Context, eventID, callerID, search string, params domain.PaginationParams) ([]*domain.RSVP, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return nil, 0, domain.ErrForbidden
	}
	rsvps, total, err := s.rsvpRepo.ListByEventID(ctx, eventID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list rsvps: %w", err)
	}
	if rsvps == nil {
		rsvps = []*domain.RSVP{}
	}
	return rsvps, total, nil
}

// UpdateMenuItem edits one persisted menu item in place. Ownership is
// enforced through the item's parent event inside the repository, so a
// foreign item reads the same as a missing one.
func (s *eventService) UpdateMenuItem(ctx context.Context, itemID int64, ownerID string, upd domain.MenuItemUpdate) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	v := domain.NewValidationError()
	if strings.TrimSpace(upd.Title) == "" {
		v.Add("title", "title is required")
	}
	if v.HasErrors() {
		return nil, v
	}
	if upd.DietaryTags == nil {
		upd.DietaryTags = []string{}
	}

	item, err := s.eventRepo.UpdateMenuItem(ctx, itemID, ownerID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	s.invalidator.Invalidate("/admin/plates")
	s.invalidator.Invalidate("/event/" + item.EventID)
	return item, nil
}

func (s *eventService) ListMenuItemsByOwner(ctx context.Context, ownerID string) ([]*domain.MenuItemWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	items, err := s.eventRepo.ListItemsByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	if items == nil {
		items = []*domain.MenuItemWithEvent{}
	}
	return items, nil
}
