package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"
)

// RSVPRequest is the request body for the public POST /events/{eventID}/rsvps.
// SelectedDates decodes leniently: a malformed list degrades to empty and is
// then rejected by field validation, not by a decode error.
type RSVPRequest struct {
	GuestName     string          `json:"guest_name"`
	BringingGuest bool            `json:"bringing_guest"`
	PlusOneName   string          `json:"plus_one_name"`
	SelectedDates json.RawMessage `json:"selected_dates"`
}

// RSVPSuccessResponse is the success envelope for the RSVP endpoint.
type RSVPSuccessResponse struct {
	Data  *domain.RSVP      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRSVP godoc
// @Summary Submit a guest RSVP
// @Description Records a guest's attendance confirmation for an event. Public, no authentication. The plus-one name is kept only when the guest is bringing one and the event allows it.
// @Tags rsvps
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param rsvp body RSVPRequest true "RSVP details"
// @Success 201 {object} controllers.RSVPSuccessResponse "data contains the stored RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, field messages in error.fields"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RSVPController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, err := c.Service.SubmitRSVP(r.Context(), domain.RSVPInput{
		EventID:       eventID,
		GuestName:     req.GuestName,
		BringingGuest: req.BringingGuest,
		PlusOneName:   req.PlusOneName,
		SelectedDates: domain.DecodeDateList(req.SelectedDates),
	})
	if err != nil {
		if v, ok := domain.AsValidationError(err); ok {
			helpers.WriteJSONValidationError(w, v.Fields)
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not save your RSVP, please try again")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}
