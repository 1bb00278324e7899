package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/fangame-dex/internal/api/handlers"
	"github.com/ramonehamilton/fangame-dex/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		gamesHandler := handlers.NewGamesHandler(s.gamesFacade)
		speciesHandler := handlers.NewSpeciesHandler(s.speciesFacade, s.detailsFacade, s.matchupsFacade)
		referenceHandler := handlers.NewReferenceHandler(s.detailsFacade, s.matchupsFacade)

		// Game routes
		r.Route("/games", func(r chi.Router) {
			r.Get("/", gamesHandler.ListGames)

			r.Route("/{game}", func(r chi.Router) {
				r.Get("/", gamesHandler.GetGame)
				r.Post("/reload", gamesHandler.ReloadGame)

				// Species routes
				r.Get("/species", speciesHandler.ListSpecies)
				r.Route("/species/{key}", func(r chi.Router) {
					r.Get("/", speciesHandler.GetSpecies)
					r.Get("/details", speciesHandler.GetDetails)
					r.Get("/evolutions", speciesHandler.GetEvolutions)
					r.Get("/matchups", speciesHandler.GetMatchups)
					r.Get("/stats-chart", speciesHandler.GetStatsChart)
				})

				// Reference routes
				r.Get("/types", referenceHandler.GetTypes)
				r.Get("/matchups", referenceHandler.GetMatchups)
				r.Get("/moves/{name}", referenceHandler.GetMove)
				r.Get("/abilities/{name}", referenceHandler.GetAbility)
			})
		})

		// Selection routes
		selectionHandler := handlers.NewSelectionHandler(s.selectionFacade)
		r.Route("/selection", func(r chi.Router) {
			r.Get("/", selectionHandler.GetSelection)
			r.Put("/", selectionHandler.SetSelection)
			r.Delete("/", selectionHandler.ClearSelection)
			r.Get("/details", selectionHandler.GetSelectionDetails)
		})

		// System routes
		systemHandler := handlers.NewSystemHandler(s.systemFacade)
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/version", systemHandler.GetVersion)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "fangame-dex-api",
	})
}
