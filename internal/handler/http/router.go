package http

import (
	"log/slog"
	"os"

	"github.com/balancehq/practice-backend-go/internal/config"
	"github.com/balancehq/practice-backend-go/internal/handler/http/middleware"
	"github.com/balancehq/practice-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	appCfg config.AppConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	firmHandler FirmHandler,
	invitationHandler InvitationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "practice-balance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	// r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(appCfg.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Route("/google", func(r chi.Router) {
				r.Get("/", authHandler.LoginWithGoogle)
				r.Get("/callback", authHandler.OAuthCallbackGoogle)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/firms", func(r chi.Router) {
				r.Post("/", firmHandler.Create)

				r.Route("/{firmID}", func(r chi.Router) {
					r.Get("/", firmHandler.GetByID)
					r.Get("/accountants", firmHandler.ListAccountants)

					// Owner only
					r.Group(func(r chi.Router) {
						r.Use(middleware.OwnerOnly)
						r.Patch("/", firmHandler.Update)
						r.Post("/accountants", firmHandler.AddAccountant)
					})
				})
			})

			r.Route("/invitations", func(r chi.Router) {
				r.Post("/", invitationHandler.Create)
				r.Get("/", invitationHandler.List)
				r.Get("/uuid/{uuid}", invitationHandler.GetByUUID)

				r.Route("/{invitationID}", func(r chi.Router) {
					r.Get("/", invitationHandler.GetByID)
					r.Patch("/", invitationHandler.Update)
					r.Get("/audit", invitationHandler.ListAuditEntries)

					// Owner only
					r.Group(func(r chi.Router) {
						r.Use(middleware.OwnerOnly)
						r.Delete("/", invitationHandler.Delete)
					})
				})
			})
		})
	})
	return r
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
