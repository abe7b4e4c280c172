package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/utils"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// rpc is the single action endpoint. Every action arrives as a POST /
// with a JSON envelope; replies always carry HTTP 200, failures live in
// the envelope's error field.
func (h *Handler) rpc(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("reading request body failed")
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return
	}

	// An empty body is a connectivity probe, not an action.
	if len(body) == 0 {
		h.writeGreeting(w, r)
		return
	}

	var req models.Request
	if err = json.Unmarshal(body, &req); err != nil {
		log.Warn().Err(err).Msg("malformed request envelope")
		utils.WriteJSON(w, models.NewErrorResponse("malformed request: "+err.Error()), http.StatusOK)
		return
	}

	if h.cfg.App.APIKey != "" && req.Key != h.cfg.App.APIKey {
		log.Warn().Str("action", req.Action).Msg("request rejected: invalid api key")
		utils.WriteJSON(w, models.NewErrorResponse("valid api key must be provided"), http.StatusOK)
		return
	}

	resp := h.services.Bridge.Handle(r.Context(), req)

	// Protocol versions 4 and below predate the result/error envelope and
	// expect the bare result.
	if req.Version > 0 && req.Version <= 4 {
		utils.WriteJSON(w, resp.Result, http.StatusOK)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// greeting answers GET / the same way an empty POST body is answered.
func (h *Handler) greeting(w http.ResponseWriter, r *http.Request) {
	h.writeGreeting(w, r)
}

func (h *Handler) writeGreeting(w http.ResponseWriter, r *http.Request) {
	greeting := models.APIGreeting{
		APIVersion: fmt.Sprintf("bridge v.%d", h.cfg.App.APIVersion),
	}
	if _, err := utils.WriteJSON(w, greeting, http.StatusOK); err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("writing greeting failed")
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
