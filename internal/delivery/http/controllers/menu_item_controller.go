package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/domain"
)

// MenuItemUpdateRequest is the request body for PATCH /menu-items/{itemID}.
// Dietary tags decode leniently like the event form's nested collections.
type MenuItemUpdateRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Ingredients string          `json:"ingredients"`
	Preparation string          `json:"preparation"`
	DietaryTags json.RawMessage `json:"dietary_tags"`
}

// MenuItemSuccessResponse is the success envelope for the item update endpoint.
type MenuItemSuccessResponse struct {
	Data  *domain.MenuItem  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMenuItemsSuccessResponse is the success envelope for GET /menu-items.
type ListMenuItemsSuccessResponse struct {
	Data  []*domain.MenuItemWithEvent `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

type MenuItemController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewMenuItemController(logger *slog.Logger, svc domain.EventService) *MenuItemController {
	return &MenuItemController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *MenuItemController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if v, ok := domain.AsValidationError(err); ok {
		helpers.WriteJSONValidationError(w, v.Fields)
		return
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "menu item not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not save changes, please try again")
	}
}

// ListMyMenuItems godoc
// @Summary List the caller's menu items across all events
// @Description Returns every menu item from the authenticated organizer's events, with the parent event's name, ordered by title. Backs the plates manager view.
// @Tags menu-items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMenuItemsSuccessResponse "data contains items with event names"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /menu-items [get]
func (c *MenuItemController) ListMyMenuItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	items, err := c.Service.ListMenuItemsByOwner(r.Context(), userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// UpdateMenuItem godoc
// @Summary Update a menu item's recipe in place
// @Description Edits one item's title, description, image, ingredients, preparation, and dietary tags without touching its event, section, or identity. The item must belong to one of the caller's events; an item that doesn't is reported as not found.
// @Tags menu-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemID path int true "Menu item ID"
// @Param item body MenuItemUpdateRequest true "Updated item fields"
// @Success 200 {object} controllers.MenuItemSuccessResponse "data contains the updated item"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, field messages in error.fields"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /menu-items/{itemID} [patch]
func (c *MenuItemController) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid item id")
		return
	}
	var req MenuItemUpdateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	item, err := c.Service.UpdateMenuItem(r.Context(), itemID, userID, domain.MenuItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Ingredients: req.Ingredients,
		Preparation: req.Preparation,
		DietaryTags: domain.DecodeStringList(req.DietaryTags),
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, item)
}
