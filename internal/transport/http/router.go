package http

import (
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/board-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/board-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// realtime channel
	r.Get("/ws", wsServer.HandleWS)

	r.Group(func(pr chi.Router) {
		// the wrapped writer drops http.Hijacker, so this group must never
		// include the /ws upgrade
		pr.Use(httpmw.RequestLogger)
		pr.Use(httpmw.RateLimit(rate.Limit(20), 40))
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/api/rooms", func(rm chi.Router) {
			rm.Post("/create", h.CreateRoom)
			rm.Get("/", h.ListRooms)
			rm.Get("/{roomId}", h.GetRoom)
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
