package domain

import "context"

// PathInvalidator is notified after successful writes so cached renderings
// of the given path can be dropped. Failures are the collaborator's
// problem; no core logic depends on the outcome.
type PathInvalidator interface {
	Invalidate(path string)
}

// InvitationLink pairs a participant with the personalized URL the
// invitation exporter encodes for them.
type InvitationLink struct {
	ParticipantName string `json:"participant_name"`
	VisitURL        string `json:"visit_url"`
}

// InvitationService produces per-guest invitation links and sends
// invitation emails.
type InvitationService interface {
	ListInvitationLinks(ctx context.Context, eventID, ownerID string) ([]*InvitationLink, error)
	EmailInvitations(ctx context.Context, eventID, ownerID string, recipients []string) (sent int, failed []string, err error)
}
