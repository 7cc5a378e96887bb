package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    AuthHandler
	User    UserHandler
	Session SessionHandler
	Upload  UploadHandler
	Metrics MetricsHandler
	Insight InsightHandler
	Report  ReportHandler
	Stream  StreamHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(JWTService jwt.Service, users user.UserRepository, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/setup", h.Auth.Setup)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Event stream; EventSource cannot send an Authorization header
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, accessTokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.CurrentUser(users))
			r.Get("/stream", h.Stream.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.CurrentUser(users))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.List)
				r.Patch("/{id}", h.User.Update)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.User.Create)
					r.Post("/assign", h.User.AssignAgents)
					r.Post("/assign/import", h.User.ImportAssignments)
				})
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", h.Session.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTrackSession))
					r.Post("/activity", h.Session.RecordActivity)
					r.Post("/idle", h.Session.RecordIdleEvent)
					r.Post("/complete", h.Session.Complete)
				})
			})

			// Managers and admins
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUploadData))
				r.Route("/uploads", func(r chi.Router) {
					r.Get("/", h.Upload.History)
					r.Post("/task-definitions", h.Upload.ImportTaskDefinitions)
					r.Post("/executions", h.Upload.ImportExecutions)
					r.Post("/targets", h.Upload.ImportTargets)
				})
				r.Get("/task-definitions", h.Upload.ListTaskDefinitions)
			})

			r.Route("/metrics", func(r chi.Router) {
				r.Get("/users/{id}", h.Metrics.UserMetrics)
				r.Get("/users/{id}/tasks", h.Metrics.TaskBreakdown)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionViewTeamMetrics))
					r.Get("/daily", h.Metrics.Daily)
					r.Get("/departments/{department}", h.Metrics.Department)
					r.Get("/team", h.Metrics.Team)
				})
			})

			r.Route("/insights", func(r chi.Router) {
				r.Get("/users/{id}/alerts", h.Insight.Alerts)
				r.Get("/users/{id}/ai", h.Insight.AIInsights)
				r.Get("/users/{id}/forecast", h.Insight.Forecast)

				r.With(middleware.RequireManager).Get("/team", h.Insight.Team)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/{period}", h.Report.Generate)
				r.Get("/{period}/export", h.Report.Export)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
