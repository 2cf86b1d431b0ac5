package http

import (
	"net/http"
	"time"

	"github.com/fateforge/sync-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// WS endpoint
	r.Get("/ws", wsServer.HandleWS)

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		api.Use(middlewareChi.Timeout(30 * time.Second))

		api.Route("/signaling", func(sg chi.Router) {
			sg.Get("/", h.GetSignalingRoom)
			sg.Post("/", h.PostSignalingAction)
		})

		api.Route("/rtc", func(rtc chi.Router) {
			rtc.Post("/connect", h.Connect)
			rtc.Put("/renegotiate", h.Renegotiate)
		})

		api.Route("/characters", func(ch chi.Router) {
			ch.Get("/", h.ListCharacters)
			ch.Route("/{id}", func(cr chi.Router) {
				cr.Get("/", h.GetCharacter)
				cr.Put("/", h.SaveCharacter)
				cr.Delete("/", h.DeleteCharacter)
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
