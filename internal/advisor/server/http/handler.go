package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/service"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
)

// handlers implements the read-only recommendation API over the
// service's latest bundle.
type handlers struct {
	service *service.Service
}

func (h *handlers) getRecommendations(w http.ResponseWriter, r *http.Request) {
	bundle := h.service.Bundle()
	if bundle == nil {
		writeUnavailable(w)
		return
	}
	writeJSON(w, bundle)
}

func (h *handlers) getComponents(w http.ResponseWriter, r *http.Request) {
	if h.service.Bundle() == nil {
		writeUnavailable(w)
		return
	}
	writeJSON(w, h.service.Components())
}

func (h *handlers) getPaths(w http.ResponseWriter, r *http.Request) {
	if h.service.Bundle() == nil {
		writeUnavailable(w)
		return
	}
	writeJSON(w, h.service.Paths())
}

func (h *handlers) getPath(w http.ResponseWriter, r *http.Request) {
	bundle := h.service.Bundle()
	if bundle == nil {
		writeUnavailable(w)
		return
	}

	id := mux.Vars(r)["id"]
	path := bundle.Path(id)
	if path == nil {
		http.Error(w, "unknown path: "+id, http.StatusNotFound)
		return
	}
	writeJSON(w, path)
}

func (h *handlers) getWindows(w http.ResponseWriter, r *http.Request) {
	if h.service.Bundle() == nil {
		writeUnavailable(w)
		return
	}
	writeJSON(w, h.service.Windows())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "failed to encode response")
	}
}

func writeUnavailable(w http.ResponseWriter) {
	http.Error(w, "no recommendation bundle available yet", http.StatusServiceUnavailable)
}
