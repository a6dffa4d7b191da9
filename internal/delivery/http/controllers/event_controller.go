package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/domain"
)

// EventPayload is the request body for POST /events and PUT /events/{eventID}.
// Nested collections arrive as raw JSON and decode leniently: a malformed
// collection degrades to empty instead of failing the whole submission.
// Coordinates coerce from numbers or numeric strings; anything else is
// treated as absent.
type EventPayload struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	DressCode       string            `json:"dress_code"`
	LocationAddress string            `json:"location_address"`
	LocationLat     domain.LooseFloat `json:"location_lat"`
	LocationLng     domain.LooseFloat `json:"location_lng"`
	ImageURL        string            `json:"image_url"`
	HasPlusOne      bool              `json:"has_plus_one"`
	AvailableDates  json.RawMessage   `json:"available_dates"`
	Sections        json.RawMessage   `json:"sections"`
	Items           json.RawMessage   `json:"items"`
	Speakers        json.RawMessage   `json:"speakers"`
	Timeline        json.RawMessage   `json:"timeline"`
	Participants    json.RawMessage   `json:"participants"`
}

// ToInput converts the payload into a domain.EventInput, applying the
// decode-with-default-on-failure policy to every nested collection.
func (p EventPayload) ToInput() domain.EventInput {
	return domain.EventInput{
		Name:            p.Name,
		Description:     p.Description,
		DressCode:       p.DressCode,
		LocationAddress: p.LocationAddress,
		LocationLat:     p.LocationLat.Ptr(),
		LocationLng:     p.LocationLng.Ptr(),
		ImageURL:        p.ImageURL,
		HasPlusOne:      p.HasPlusOne,
		AvailableDates:  domain.DecodeDateList(p.AvailableDates),
		Draft: domain.EventDraft{
			Sections:     domain.DecodeSectionDrafts(p.Sections),
			Items:        domain.DecodeItemDrafts(p.Items),
			Speakers:     domain.DecodeSpeakerDrafts(p.Speakers),
			Timeline:     domain.DecodeTimelineDrafts(p.Timeline),
			Participants: domain.DecodeParticipantDrafts(p.Participants),
		},
	}
}

// EventSuccessResponse is the success response envelope for event write endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeServiceError maps domain errors to HTTP responses. Storage failures
// surface as a generic retry-suggesting message; details go to the log only.
func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if v, ok := domain.AsValidationError(err); ok {
		helpers.WriteJSONValidationError(w, v.Fields)
		return
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not save changes, please try again")
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event with its nested menu sections, menu items, speakers, timeline, and participant list in one transaction. The authenticated user becomes the owner. Menu items may reference sections by the section's client-assigned temp_id; unresolvable references are stored without a section.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventPayload true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, field messages in error.fields"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventPayload
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), userID, req.ToInput())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Updates the event's scalar fields and fully replaces all nested collections from the submitted draft. Only the owner can update. Items referencing a section temp_id that is not part of this submission are stored without a section.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body EventPayload true "Full event draft"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req EventPayload
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, req.ToInput())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetEventSuccessResponse is the success envelope for GET /events/{eventID}.
type GetEventSuccessResponse struct {
	Data  *domain.EventDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GetEvent godoc
// @Summary Get an event's public detail
// @Description Returns the event with its menu grouped into sections (orphan items under a synthetic general group), speakers, and timeline. Public, no authentication.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains event, grouped menu, speakers, timeline"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	detail, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// GetEventForEditSuccessResponse is the success envelope for GET /events/{eventID}/edit.
type GetEventForEditSuccessResponse struct {
	Data  *domain.EventEdit `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventForEdit godoc
// @Summary Get an event's editable draft
// @Description Returns the event with flat nested collections; section ids are surfaced as refs so the client can rebuild its draft state. Owner only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventForEditSuccessResponse "data contains the editable event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/edit [get]
func (c *EventController) GetEventForEdit(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	edit, err := c.Service.GetEventForEdit(r.Context(), eventID, userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, edit)
}

// ListMyEventsSuccessResponse is the success envelope for GET /events.
type ListMyEventsSuccessResponse struct {
	Data  []*domain.EventWithRSVPCount `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListMyEvents godoc
// @Summary List the caller's events
// @Description Returns the authenticated organizer's events, most recent first, each with its RSVP count.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyEventsSuccessResponse "data contains events with rsvp counts"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListEventsByOwner(r.Context(), userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and all nested rows (menu, speakers, timeline, participants, RSVPs) in one transaction. Owner only.
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEventRSVPsResponse is the data payload for GET /events/{eventID}/rsvps.
type ListEventRSVPsResponse struct {
	RSVPs      []*domain.RSVP         `json:"rsvps"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventRSVPsSuccessResponse is the success envelope for GET /events/{eventID}/rsvps.
type ListEventRSVPsSuccessResponse struct {
	Data  ListEventRSVPsResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListEventRSVPs godoc
// @Summary List an event's RSVPs
// @Description Returns the event's RSVPs, newest first, optionally filtered by participant name (search query param) and paginated. Owner only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param search query string false "Filter by participant name"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventRSVPsSuccessResponse "data contains rsvps and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [get]
func (c *EventController) ListEventRSVPs(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	search := r.URL.Query().Get("search")
	rsvps, total, err := c.Service.ListEventRSVPs(r.Context(), eventID, userID, search, params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventRSVPsResponse{
		RSVPs:      rsvps,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
