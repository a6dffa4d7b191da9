package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guestlist/internal/domain"
)

const minGuestNameLen = 2

type rsvpService struct {
	rsvpRepo       domain.RSVPRepository
	eventRepo      domain.EventRepository
	invalidator    domain.PathInvalidator
	contextTimeout time.Duration
}

func NewRSVPService(rsvpRepo domain.RSVPRepository, eventRepo domain.EventRepository, invalidator domain.PathInvalidator, timeout time.Duration) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:       rsvpRepo,
		eventRepo:      eventRepo,
		invalidator:    invalidator,
		contextTimeout: timeout,
	}
}

func validateRSVPInput(in domain.RSVPInput) *domain.ValidationError {
	v := domain.NewValidationError()
	if in.EventID == "" {
		v.Add("event_id", "event id is required")
	}
	if len(strings.TrimSpace(in.GuestName)) < minGuestNameLen {
		v.Add("guest_name", fmt.Sprintf("name must be at least %d characters", minGuestNameLen))
	}
	if len(in.SelectedDates) == 0 {
		v.Add("selected_dates", "select at least one date")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

func (s *rsvpService) SubmitRSVP(ctx context.Context, in domain.RSVPInput) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if v := validateRSVPInput(in); v != nil {
		return nil, v
	}
	event, err := s.eventRepo.GetByID(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// The plus-one name is only meaningful when the event allows companions
	// and the guest is actually bringing one.
	plusOne := in.BringingGuest && event.HasPlusOne
	plusOneName := ""
	if plusOne {
		plusOneName = strings.TrimSpace(in.PlusOneName)
	}

	rsvp := &domain.RSVP{
		EventID:         event.ID,
		ParticipantName: strings.TrimSpace(in.GuestName),
		HasPlusOne:      plusOne,
		PlusOneName:     plusOneName,
		SelectedDates:   strings.Join(in.SelectedDates, ", "),
		CreatedAt:       time.Now(),
	}
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("create rsvp: %w", err)
	}
	s.invalidator.Invalidate("/event/" + event.ID)
	return rsvp, nil
}
