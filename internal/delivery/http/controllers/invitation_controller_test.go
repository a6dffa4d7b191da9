package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInvitationService implements domain.InvitationService for handler tests.
type fakeInvitationService struct {
	listLinksErr    error
	listLinksResult []*domain.InvitationLink
	emailErr        error
	emailSent       int
	emailFailed     []string
	lastEventID     string
	lastOwnerID     string
	lastRecipients  []string
}

func (f *fakeInvitationService) ListInvitationLinks(ctx context.Context, eventID, ownerID string) ([]*domain.InvitationLink, error) {
	f.lastEventID = eventID
	f.lastOwnerID = ownerID
	return f.listLinksResult, f.listLinksErr
}

func (f *fakeInvitationService) EmailInvitations(ctx context.Context, eventID, ownerID string, recipients []string) (int, []string, error) {
	f.lastEventID = eventID
	f.lastOwnerID = ownerID
	f.lastRecipients = recipients
	return f.emailSent, f.emailFailed, f.emailErr
}

func TestInvitationController_ListLinks(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeInvitationService{listLinksResult: []*domain.InvitationLink{
			{ParticipantName: "Grace", VisitURL: "http://localhost:3000/event/ev-1?name=Grace"},
		}}
		c := NewInvitationController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/invitations", nil)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()
		c.ListLinks(rr, authed(req, "owner-1"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ev-1", svc.lastEventID)
		assert.Equal(t, "owner-1", svc.lastOwnerID)
	})

	t.Run("not owner", func(t *testing.T) {
		c := NewInvitationController(testLogger, &fakeInvitationService{listLinksErr: domain.ErrForbidden})

		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/invitations", nil)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()
		c.ListLinks(rr, authed(req, "intruder"))

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestInvitationController_EmailInvitations(t *testing.T) {
	newReq := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/events/ev-1/invitations/email", strings.NewReader(body))
		req.SetPathValue("eventID", "ev-1")
		return authed(req, "owner-1")
	}

	t.Run("partial failure still returns 200 with the failed list", func(t *testing.T) {
		svc := &fakeInvitationService{emailSent: 2, emailFailed: []string{"bounce@example.com"}}
		c := NewInvitationController(testLogger, svc)

		rr := httptest.NewRecorder()
		c.EmailInvitations(rr, newReq(`{"recipients": ["a@example.com", "b@example.com", "bounce@example.com"]}`))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, svc.lastRecipients, 3)

		var envelope struct {
			Data  EmailInvitationsResponse `json:"data"`
			Error *helpers.APIError        `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		assert.Equal(t, 2, envelope.Data.Sent)
		assert.Equal(t, []string{"bounce@example.com"}, envelope.Data.Failed)
	})

	t.Run("nil failed list is normalized to empty", func(t *testing.T) {
		svc := &fakeInvitationService{emailSent: 1}
		c := NewInvitationController(testLogger, svc)

		rr := httptest.NewRecorder()
		c.EmailInvitations(rr, newReq(`{"recipients": ["a@example.com"]}`))

		require.Equal(t, http.StatusOK, rr.Code)
		var envelope struct {
			Data EmailInvitationsResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Data.Failed)
		assert.Empty(t, envelope.Data.Failed)
	})

	t.Run("empty recipient list rejected before the service", func(t *testing.T) {
		svc := &fakeInvitationService{}
		c := NewInvitationController(testLogger, svc)

		rr := httptest.NewRecorder()
		c.EmailInvitations(rr, newReq(`{"recipients": []}`))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, svc.lastEventID)
	})
}
