package routes

import (
	"net/http"

	"github.com/Dosada05/league-engine/handlers"
	"github.com/Dosada05/league-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes wires every handler onto the router. Reads are public;
// mutations require a verified JWT.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{\"status\":\"available\"}\n"))
	})

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/participants", tournamentHandler.ListParticipantsHandler)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournamentHandler)
		r.Get("/{tournamentID}/matchdays", matchHandler.ListMatchdayLocksHandler)
		r.Get("/{tournamentID}/standings", standingsHandler.GetStandingsHandler)
		r.Get("/{tournamentID}/form", standingsHandler.GetFormHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", tournamentHandler.CreateHandler)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatusHandler)
			r.Patch("/{tournamentID}/rules", tournamentHandler.UpdateRulesHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)

			r.Post("/{tournamentID}/schedule/generate", tournamentHandler.GenerateScheduleHandler)

			r.Post("/{tournamentID}/participants", tournamentHandler.AddParticipantHandler)
			r.Delete("/{tournamentID}/participants/{participantID}", tournamentHandler.RemoveParticipantHandler)

			r.Post("/{tournamentID}/matches", matchHandler.CreateHandler)
			r.Post("/{tournamentID}/matchdays/{matchday}/close", matchHandler.CloseMatchdayHandler)
			r.Post("/{tournamentID}/matchdays/{matchday}/reopen", matchHandler.ReopenMatchdayHandler)

			r.Put("/{tournamentID}/badge", tournamentHandler.UploadBadgeHandler)
			r.Delete("/{tournamentID}/badge", tournamentHandler.RemoveBadgeHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/{matchID}/score", matchHandler.SubmitScoreHandler)
			r.Patch("/{matchID}/schedule", matchHandler.RescheduleHandler)
			r.Patch("/{matchID}/lock", matchHandler.SetLockedHandler)
			r.Delete("/{matchID}", matchHandler.DeleteHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
