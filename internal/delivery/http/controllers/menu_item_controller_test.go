package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guestlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuItemController_ListMyMenuItems(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEventService{listItemsResult: []*domain.MenuItemWithEvent{
			{Item: &domain.MenuItem{ID: 7, EventID: "ev-1", Title: "Marinated Olives"}, EventName: "Garden Party"},
		}}
		c := NewMenuItemController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/menu-items", nil)
		rr := httptest.NewRecorder()
		c.ListMyMenuItems(rr, authed(req, "owner-1"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "owner-1", svc.lastOwnerID)
		envelope := decodeEnvelope(t, rr.Body)
		require.Nil(t, envelope.Error)
		items, ok := envelope.Data.([]any)
		require.True(t, ok)
		require.Len(t, items, 1)
		first := items[0].(map[string]any)
		assert.Equal(t, "Garden Party", first["event_name"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c := NewMenuItemController(testLogger, &fakeEventService{})

		req := httptest.NewRequest(http.MethodGet, "/menu-items", nil)
		rr := httptest.NewRecorder()
		c.ListMyMenuItems(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMenuItemController_UpdateMenuItem(t *testing.T) {
	newRequest := func(itemID, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPatch, "/menu-items/"+itemID, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("itemID", itemID)
		return req
	}

	t.Run("success", func(t *testing.T) {
		svc := &fakeEventService{updateItemResult: &domain.MenuItem{
			ID: 7, EventID: "ev-1", Title: "Marinated Olives", DietaryTags: []string{"vegan"},
		}}
		c := NewMenuItemController(testLogger, svc)

		body := `{
			"title": "Marinated Olives",
			"ingredients": "olives, brine, herbs",
			"preparation": "rinse and serve",
			"dietary_tags": ["vegan"]
		}`
		rr := httptest.NewRecorder()
		c.UpdateMenuItem(rr, authed(newRequest("7", body), "owner-1"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(7), svc.lastItemID)
		assert.Equal(t, "owner-1", svc.lastOwnerID)
		assert.Equal(t, "olives, brine, herbs", svc.lastItemUpdate.Ingredients)
		assert.Equal(t, []string{"vegan"}, svc.lastItemUpdate.DietaryTags)
		envelope := decodeEnvelope(t, rr.Body)
		require.Nil(t, envelope.Error)
	})

	t.Run("malformed tags are treated as absent", func(t *testing.T) {
		svc := &fakeEventService{updateItemResult: &domain.MenuItem{ID: 7, Title: "Olives"}}
		c := NewMenuItemController(testLogger, svc)

		rr := httptest.NewRecorder()
		c.UpdateMenuItem(rr, authed(newRequest("7", `{"title": "Olives", "dietary_tags": "vegan"}`), "owner-1"))

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, svc.lastItemUpdate.DietaryTags)
		assert.Empty(t, svc.lastItemUpdate.DietaryTags)
	})

	t.Run("non-numeric item id", func(t *testing.T) {
		c := NewMenuItemController(testLogger, &fakeEventService{})

		rr := httptest.NewRecorder()
		c.UpdateMenuItem(rr, authed(newRequest("seven", `{"title": "Olives"}`), "owner-1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "invalid item id", envelope.Error.Message)
	})

	t.Run("blank title reports the field", func(t *testing.T) {
		svc := &fakeEventService{updateItemErr: &domain.ValidationError{
			Fields: map[string][]string{"title": {"title is required"}},
		}}
		c := NewMenuItemController(testLogger, svc)

		rr := httptest.NewRecorder()
		c.UpdateMenuItem(rr, authed(newRequest("7", `{"title": ""}`), "owner-1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Fields, "title")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c := NewMenuItemController(testLogger, &fakeEventService{})

		rr := httptest.NewRecorder()
		c.UpdateMenuItem(rr, newRequest("7", `{"title": "Olives"}`))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("foreign item reads as missing", func(t *testing.T) {
		svc := &fakeEventService{updateItemErr: domain.ErrNotFound}
		c := NewMenuItemController(testLogger, svc)

		rr := httptest.NewRecorder()
		c.UpdateMenuItem(rr, authed(newRequest("7", `{"title": "Olives"}`), "intruder"))

		require.Equal(t, http.StatusNotFound, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "menu item not found", envelope.Error.Message)
	})

	t.Run("repository failure stays generic", func(t *testing.T) {
		svc := &fakeEventService{updateItemErr: errors.New("pq: connection reset")}
		c := NewMenuItemController(testLogger, svc)

		rr := httptest.NewRecorder()
		c.UpdateMenuItem(rr, authed(newRequest("7", `{"title": "Olives"}`), "owner-1"))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		require.NotNil(t, envelope.Error)
		assert.NotContains(t, envelope.Error.Message, "pq:")
	})
}
