package routes

import (
	"github.com/frostpuck/hockey-tournaments/handlers"
	"github.com/frostpuck/hockey-tournaments/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret          string
	CORSAllowedOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(opts.JWTSecret))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/auth/profile", authHandler.Profile)
	})

	// Каталог команд публичный: пикер доступен и гостям.
	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.Get)
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Просмотр турнира, сетки и таблиц открыт всем.
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Get("/{tournamentID}/bracket", tournamentHandler.GetBracket)
		r.Get("/{tournamentID}/standings", tournamentHandler.GetStandings)
		r.Get("/{tournamentID}/participants", participantHandler.List)
		r.Get("/{tournamentID}/matches", matchHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/", tournamentHandler.ListMine)
			r.Post("/", tournamentHandler.Create)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatus)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Post("/{tournamentID}/logo", tournamentHandler.UploadLogo)

			r.Post("/{tournamentID}/members", tournamentHandler.InviteMember)
			r.Delete("/{tournamentID}/members/{userID}", tournamentHandler.RemoveMember)

			r.Post("/{tournamentID}/participants", participantHandler.AddUser)
			r.Post("/{tournamentID}/participants/guest", participantHandler.AddGuest)
			r.Post("/{tournamentID}/participants/randomize", participantHandler.RandomizeTeams)

			r.Post("/{tournamentID}/group-stage", tournamentHandler.GenerateGroupStage)
			r.Post("/{tournamentID}/bracket", tournamentHandler.GeneratePlayoffBracket)
		})
	})

	router.Route("/participants", func(r chi.Router) {
		r.Use(authenticate)

		r.Put("/{participantID}/team", participantHandler.AssignTeam)
		r.Post("/{participantID}/lock", participantHandler.Lock)
		r.Post("/{participantID}/unlock", participantHandler.Unlock)
		r.Delete("/{participantID}", participantHandler.Remove)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Use(authenticate)

		r.Put("/{matchID}/result", matchHandler.SubmitResult)
		r.Post("/{matchID}/result/lock", matchHandler.LockResult)
		r.Post("/{matchID}/result/unlock", matchHandler.UnlockResult)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
