package http

import (
	"net/http"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/utils"
)

const bridgeTokenIssuer = "go-anki-bridge"

// withBearerAuth enforces Bearer-token authentication when a token sign
// key is configured. Without one the middleware is a pass-through and
// the payload API key (checked in the rpc handler) remains the only
// gate.
func (h *Handler) withBearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.App.TokenSignKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		token, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			log.Warn().Err(err).Msg("bearer auth rejected")
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}

		if err = utils.ValidateJWTToken(token, h.cfg.App.TokenSignKey, bridgeTokenIssuer); err != nil {
			log.Warn().Err(err).Msg("bearer auth rejected")
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
