package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"guestlist/internal/domain"
)

type invitationService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	publicBaseURL  string
	contextTimeout time.Duration
}

func NewInvitationService(eventRepo domain.EventRepository, userRepo domain.UserRepository, emailService domain.EmailService, publicBaseURL string, timeout time.Duration) domain.InvitationService {
	return &invitationService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		contextTimeout: timeout,
	}
}

// VisitURL builds the personalized link a guest follows (and that the
// invitation exporter encodes into a QR code). The guest name rides along
// as a query parameter so the confirmation form comes pre-filled.
func (s *invitationService) visitURL(eventID, guestName string) string {
	u := s.publicBaseURL + "/event/" + eventID
	if guestName != "" {
		u += "?name=" + url.QueryEscape(guestName)
	}
	return u
}

func (s *invitationService) ownedEvent(ctx context.Context, eventID, ownerID string) (*domain.Event, error) {
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
	return event, nil
}

func (s *invitationService) ListInvitationLinks(ctx context.Context, eventID, ownerID string) ([]*domain.InvitationLink, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, ownerID); err != nil {
		return nil, err
	}
	participants, err := s.eventRepo.ListParticipantsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	links := make([]*domain.InvitationLink, 0, len(participants))
	for _, p := range participants {
		links = append(links, &domain.InvitationLink{
			ParticipantName: p.Name,
			VisitURL:        s.visitURL(eventID, p.Name),
		})
	}
	return links, nil
}

func (s *invitationService) EmailInvitations(ctx context.Context, eventID, ownerID string, recipients []string) (sent int, failed []string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, ownerID)
	if err != nil {
		return 0, nil, err
	}

	ownerName := "Event organizer"
	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil && owner != nil {
		if name := strings.TrimSpace(owner.Name); name != "" {
			ownerName = name
		} else if owner.Email != "" {
			ownerName = owner.Email
		}
	}

	for _, email := range recipients {
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			continue
		}
		data := &domain.InvitationEmailData{
			Email:     email,
			OwnerName: ownerName,
			EventName: event.Name,
			VisitURL:  s.visitURL(eventID, ""),
		}
		if err := s.emailService.SendInvitation(ctx, data); err != nil {
			failed = append(failed, email)
			continue
		}
		sent++
	}
	return sent, failed, nil
}
