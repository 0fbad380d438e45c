package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/wikiboard/internal/auth"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// ModerateEntryRequest carries a moderator's status decision
type ModerateEntryRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// SetVerificationRequest carries an admin's verification label
type SetVerificationRequest struct {
	Verification string `json:"verification" validate:"required,oneof=verified fake unknown"`
}

// ListModerationQueue returns entries for review, optionally filtered by ?status=
//
// @Router /admin/entries [get]
func (h *EntryHandler) ListModerationQueue(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}
	actor := auth.CurrentUser(r.Context())

	views, err := h.service.ListModerationQueue(r.Context(), actor, r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, newListEntriesResponse(views, actor))
}

// ModerateEntry sets an entry's status
//
// @Router /admin/entries/{id}/status [put]
func (h *EntryHandler) ModerateEntry(w http.ResponseWriter, r *http.Request) {
	var req ModerateEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	actor := auth.CurrentUser(r.Context())

	entry, err := h.service.ModerateEntry(r.Context(), actor, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, entryToResponse(entry, actor))
}

// SetVerification labels an entry verified, fake or unknown
//
// @Router /admin/entries/{id}/verification [put]
func (h *EntryHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	var req SetVerificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	actor := auth.CurrentUser(r.Context())

	entry, err := h.service.SetVerification(r.Context(), actor, chi.URLParam(r, "id"), req.Verification)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, entryToResponse(entry, actor))
}
