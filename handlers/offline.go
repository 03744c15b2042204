package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andrewpaige1/flashlearn/offline"
)

// GET /api/offline/actions

func (h *Handler) GetOfflineActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Queue.Pending(r.Context()))
}

// POST /api/offline/actions

func (h *Handler) QueueOfflineAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := decodeJSON(r, &req, false); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		http.Error(w, "Action type is required", http.StatusBadRequest)
		return
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage("null")
	}

	action, err := h.Queue.Enqueue(r.Context(), req.Type, req.Data)
	if err != nil {
		h.writeError(w, "QueueOfflineAction", err)
		return
	}
	writeJSON(w, http.StatusCreated, action)
}

// DELETE /api/offline/actions

func (h *Handler) ClearOfflineActions(w http.ResponseWriter, r *http.Request) {
	if err := h.Queue.Clear(r.Context()); err != nil {
		h.writeError(w, "ClearOfflineActions", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sync

// TriggerSync drains the offline queue now. The tag defaults to the
// background sync tag.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Tag string `json:"tag"`
	}{Tag: offline.SyncTag}
	if err := decodeJSON(r, &req, true); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}

	report, err := h.Sync.Trigger(r.Context(), req.Tag)
	if err != nil {
		h.writeError(w, "TriggerSync", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
