package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/schoolcal/internal/core"
	"github.com/JonMunkholm/schoolcal/internal/logging"
)

// handleImportMaterials previews or commits a materials CSV.
func (s *Server) handleImportMaterials(w http.ResponseWriter, r *http.Request) {
	req, err := decodeImportRequest(w, r, s.cfg.Import.MaxBodySize)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.service.ImportMaterials(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("materials import served",
		"mode", result.Mode,
		"total", result.Summary.Total,
		"imported", result.Imported,
		"batch_id", result.BatchID,
	)
	writeJSON(w, r, http.StatusOK, result)
}

// handleImportEvents previews or commits an events CSV.
func (s *Server) handleImportEvents(w http.ResponseWriter, r *http.Request) {
	req, err := decodeImportRequest(w, r, s.cfg.Import.MaxBodySize)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.service.ImportEvents(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("events import served",
		"mode", result.Mode,
		"total", result.Summary.Total,
		"imported", result.Imported,
		"replaced", result.Replaced,
		"batch_id", result.BatchID,
	)
	writeJSON(w, r, http.StatusOK, result)
}

// handleUndo returns the undo handler for one entity kind.
func (s *Server) handleUndo(kind core.EntityKind) http.HandlerFunc {
	undo := s.service.UndoMaterialsBatch
	if kind == core.KindEvents {
		undo = s.service.UndoEventsBatch
	}

	return func(w http.ResponseWriter, r *http.Request) {
		batchID := chi.URLParam(r, "batchID")
		if batchID == "" {
			respondError(w, r, errMissingID)
			return
		}

		result, err := undo(r.Context(), batchID)
		if err != nil {
			respondError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	}
}

// historyResponse is the JSON body of a history listing.
type historyResponse struct {
	Kind    core.EntityKind    `json:"kind"`
	Batches []core.ImportBatch `json:"batches"`
}

// handleHistory returns the history handler for one entity kind. HTMX
// requests get an HTML table fragment instead of JSON.
func (s *Server) handleHistory(kind core.EntityKind) http.HandlerFunc {
	history := s.service.MaterialsHistory
	if kind == core.KindEvents {
		history = s.service.EventsHistory
	}

	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := history(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}

		if isHTMX(r) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := BatchHistory(kind, batches).Render(r.Context(), w); err != nil {
				logging.FromContext(r.Context()).Error("render batch history", "error", err)
			}
			return
		}

		writeJSON(w, r, http.StatusOK, historyResponse{Kind: kind, Batches: batches})
	}
}

// healthResponse reports store reachability and commit slot usage.
type healthResponse struct {
	Status  string                   `json:"status"`
	Imports core.ImportLimiterStatus `json:"imports"`
	Error   string                   `json:"error,omitempty"`
}

// handleHealth pings the store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Imports: s.service.LimiterStatus()}

	if err := s.service.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Error("health check failed", "error", err)
		resp.Status = "unavailable"
		resp.Error = err.Error()
		writeJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}
