package api

import (
	"context"
	"net/http"

	"github.com/feldspar-labs/inkwell-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     database.PostStore
}

func newHealthHandler(store database.PostStore) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// health reports liveness, including storage reachability when the store
// supports pinging.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p, ok := h.store.(pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				h.logger.Error().Err(err).Msg("storage ping failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				h.responder.WriteJSON(w, map[string]string{"status": "degraded"})
				return
			}
		}

		h.responder.WriteJSON(w, map[string]string{"status": "ok"})
	}
}
