package api

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/reclaimhq/reclaim/internal/model"
	"github.com/reclaimhq/reclaim/internal/storage"
)

// ItemsHandler handles report CRUD and search endpoints.
type ItemsHandler struct {
	Store *storage.Store
}

type createItemRequest struct {
	model.Item
}

// List handles GET /api/items. Query parameters feed the search; without
// parameters the full listing comes back newest first.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.Store.SearchItems(r.Context(), q.Get("q"), model.Filters{
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Location: q.Get("location"),
	})
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. Inserts are public, matching the remote
// table's access policy.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateReport(req.Item); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	// Both are backend-assigned.
	req.Item.ID = ""
	req.Item.DateReported = ""

	item := h.Store.AddItem(r.Context(), req.Item)
	if item == nil {
		jsonError(w, http.StatusInternalServerError, "failed to create report")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item := h.Store.ItemByID(r.Context(), r.PathValue("id"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "report not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. Only the reporter who filed the report
// may change it.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item := h.Store.ItemByID(r.Context(), id)
	if item == nil {
		jsonError(w, http.StatusNotFound, "report not found")
		return
	}
	if !isReporter(r, item) {
		jsonError(w, http.StatusForbidden, "only the reporter may edit this report")
		return
	}

	var updates map[string]any
	if err := decodeJSON(r, &updates); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if desc, ok := updates["description"].(string); ok && utf8.RuneCountInString(desc) > model.MaxDescriptionLen {
		jsonError(w, http.StatusBadRequest, descriptionTooLong())
		return
	}
	if typ, ok := updates["type"].(string); ok && !model.ValidType(typ) {
		jsonError(w, http.StatusBadRequest, "type must be 'lost' or 'found'")
		return
	}

	updated := h.Store.UpdateItem(r.Context(), id, updates)
	if updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to update report")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}. Only the reporter who filed the
// report may remove it.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item := h.Store.ItemByID(r.Context(), id)
	if item == nil {
		jsonError(w, http.StatusNotFound, "report not found")
		return
	}
	if !isReporter(r, item) {
		jsonError(w, http.StatusForbidden, "only the reporter may delete this report")
		return
	}

	if !h.Store.DeleteItem(r.Context(), id) {
		jsonError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "report deleted"})
}

// isReporter checks that the session belongs to the report's reporter.
func isReporter(r *http.Request, item *model.Item) bool {
	claims := GetClaims(r.Context())
	return claims != nil && claims.Email == item.ReporterEmail
}

func validateReport(item model.Item) string {
	if !model.ValidType(item.Type) {
		return "type must be 'lost' or 'found'"
	}
	if item.Title == "" || item.Category == "" || item.Location == "" || item.Description == "" {
		return "title, category, location and description are required"
	}
	if utf8.RuneCountInString(item.Description) > model.MaxDescriptionLen {
		return descriptionTooLong()
	}
	if item.ReporterName == "" || item.ReporterEmail == "" {
		return "reporter name and email are required"
	}
	return ""
}

func descriptionTooLong() string {
	return fmt.Sprintf("description must be at most %d characters", model.MaxDescriptionLen)
}
